package ingest

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// scanState represents the current state of the delimited-text state machine.
type scanState uint8

const (
	stateFieldStart scanState = iota
	stateInField
	stateInQuoted
	stateQuoteInQuoted
)

var errUnterminatedQuote = errors.New("unterminated quoted field")

// delimitedScanner walks delimited text byte by byte with a finite
// state machine. It handles embedded delimiters, escaped quotes ("")
// and newlines inside quoted fields, and reports structural quoting
// errors with the offending line.
type delimitedScanner struct {
	data  []byte
	delim byte
	pos   int
	line  int // 1-based line of the record being scanned
}

func newDelimitedScanner(data []byte, delim byte) *delimitedScanner {
	return &delimitedScanner{
		data:  normalizeLineEndings(sanitizeUTF8(data)),
		delim: delim,
		line:  1,
	}
}

// next returns the fields of the next record. Truly empty lines are
// skipped entirely. Returns io.EOF when the input is exhausted.
func (s *delimitedScanner) next() ([]string, error) {
	for s.pos < len(s.data) && s.data[s.pos] == '\n' {
		s.pos++
		s.line++
	}
	if s.pos >= len(s.data) {
		return nil, io.EOF
	}

	fields := make([]string, 0, 16)
	var field []byte
	state := stateFieldStart

	for {
		if s.pos >= len(s.data) {
			if state == stateInQuoted {
				return nil, errUnterminatedQuote
			}
			return append(fields, string(field)), nil
		}

		c := s.data[s.pos]

		switch state {
		case stateFieldStart:
			switch c {
			case '"':
				state = stateInQuoted
			case s.delim:
				fields = append(fields, "")
			case '\n':
				s.pos++
				s.line++
				return append(fields, ""), nil
			default:
				field = append(field, c)
				state = stateInField
			}

		case stateInField:
			switch c {
			case s.delim:
				fields = append(fields, string(field))
				field = field[:0]
				state = stateFieldStart
			case '\n':
				s.pos++
				s.line++
				return append(fields, string(field)), nil
			default:
				field = append(field, c)
			}

		case stateInQuoted:
			switch c {
			case '"':
				state = stateQuoteInQuoted
			case '\n':
				field = append(field, '\n')
				s.line++
			default:
				field = append(field, c)
			}

		case stateQuoteInQuoted:
			switch c {
			case '"':
				// Escaped quote ("")
				field = append(field, '"')
				state = stateInQuoted
			case s.delim:
				fields = append(fields, string(field))
				field = field[:0]
				state = stateFieldStart
			case '\n':
				s.pos++
				s.line++
				return append(fields, string(field)), nil
			default:
				return nil, fmt.Errorf("unexpected character %q after closing quote", c)
			}
		}

		s.pos++
	}
}

// normalizeLineEndings normalizes \r\n and \r to \n. The input is not
// modified; callers may hand in buffers they do not own.
func normalizeLineEndings(data []byte) []byte {
	needsNormalization := false
	for _, c := range data {
		if c == '\r' {
			needsNormalization = true
			break
		}
	}
	if !needsNormalization {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] == '\r' {
			out = append(out, '\n')
			// Skip \n if \r\n
			if i+1 < len(data) && data[i+1] == '\n' {
				i++
			}
		} else {
			out = append(out, data[i])
		}
	}
	return out
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with the replacement
// character so mixed-encoding files cannot poison column values.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	result := make([]byte, 0, len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			result = append(result, 0xEF, 0xBF, 0xBD)
			data = data[1:]
			continue
		}
		result = append(result, data[:size]...)
		data = data[size:]
	}
	return result
}
