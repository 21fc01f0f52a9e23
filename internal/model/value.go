// Package model defines core data structures for tabflow.
package model

import "strconv"

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindText
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Value is a closed tagged scalar: a table cell is exactly one of
// null, boolean, number, or text. Ingestors and the type inferencer
// switch on Kind instead of doing runtime type assertions.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number returns a numeric value.
func Number(n float64) Value {
	return Value{kind: KindNumber, n: n}
}

// Text returns a text value.
func Text(s string) Value {
	return Value{kind: KindText, s: s}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Bool returns the boolean payload. Only meaningful when Kind is KindBool.
func (v Value) Bool() bool {
	return v.b
}

// Float returns the numeric payload. Only meaningful when Kind is KindNumber.
func (v Value) Float() float64 {
	return v.n
}

// Text returns the text payload. Only meaningful when Kind is KindText.
func (v Value) Text() string {
	return v.s
}

// String renders the value for display and for distinct-value counting.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	default:
		return v.s
	}
}
