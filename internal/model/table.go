package model

// ColumnType is the closed classification of a column's semantic content.
type ColumnType uint8

const (
	TypeText ColumnType = iota
	TypeNumber
	TypeDate
	TypeBoolean
	TypeCategory
)

// String returns the column type name.
func (t ColumnType) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeDate:
		return "date"
	case TypeBoolean:
		return "boolean"
	case TypeCategory:
		return "category"
	case TypeText:
		return "text"
	default:
		return "unknown"
	}
}

// ParseColumnType parses a column type name. Unrecognized names map
// to TypeText, the classifier's own fallback.
func ParseColumnType(s string) ColumnType {
	switch s {
	case "number":
		return TypeNumber
	case "date":
		return TypeDate
	case "boolean":
		return TypeBoolean
	case "category":
		return TypeCategory
	default:
		return TypeText
	}
}

// Row maps a column name to a cell value. Absent keys are absent cells.
type Row map[string]Value

// Table is the uniform in-memory result of ingesting a tabular file.
// Columns keeps first-seen source order; Types is index-aligned with
// Columns. A Table is never mutated after construction.
type Table struct {
	Columns []string
	Types   []ColumnType
	Rows    []Row
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

// ColumnValues returns the cell values of one column in row order.
// Absent cells are returned as null.
func (t *Table) ColumnValues(name string) []Value {
	values := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		v, ok := row[name]
		if !ok {
			v = Null()
		}
		values[i] = v
	}
	return values
}

// TypeOf returns the inferred type of the named column.
func (t *Table) TypeOf(name string) (ColumnType, bool) {
	for i, col := range t.Columns {
		if col == name {
			return t.Types[i], true
		}
	}
	return TypeText, false
}
