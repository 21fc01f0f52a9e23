package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tabflow/tabflow/internal/model"
	"github.com/tabflow/tabflow/pkg/infer"
)

// ParseJSONTable ingests a JSON document. A top-level array is a
// sequence of records; a single top-level object is wrapped into a
// one-record table. The column set comes from the first record's keys
// in source order.
func ParseJSONTable(content string) (*model.Table, error) {
	return parseJSONTable([]byte(content), JSONColumnsFirst)
}

func parseJSONTable(data []byte, mode JSONColumnMode) (*model.Table, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &ParseError{Format: FormatJSON, Err: fmt.Errorf("empty input")}
	}

	var records []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, &ParseError{Format: FormatJSON, Err: err}
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("%w: JSON array contains no records", ErrEmptyData)
		}
	case '{':
		// Validate before wrapping so malformed objects still fail.
		if !json.Valid(trimmed) {
			return nil, &ParseError{Format: FormatJSON, Err: fmt.Errorf("invalid JSON object")}
		}
		records = []json.RawMessage{trimmed}
	default:
		if !json.Valid(trimmed) {
			return nil, &ParseError{Format: FormatJSON, Err: fmt.Errorf("invalid JSON")}
		}
		return nil, &ParseError{Format: FormatJSON, Err: fmt.Errorf("top-level value is not an object or array")}
	}

	var columns []string
	seen := make(map[string]bool)
	rows := make([]model.Row, 0, len(records))

	for i, raw := range records {
		collect := i == 0 || mode == JSONColumnsUnion
		row, err := decodeRecord(raw, collect, &columns, seen)
		if err != nil {
			return nil, &ParseError{Format: FormatJSON, Err: fmt.Errorf("record %d: %w", i, err)}
		}
		rows = append(rows, row)
	}

	return &model.Table{
		Columns: columns,
		Types:   infer.TableTypes(columns, rows),
		Rows:    rows,
	}, nil
}

// decodeRecord parses one JSON object into a row. Key order is taken
// from the source text via the token stream, which is what preserves
// first-seen column order.
func decodeRecord(raw json.RawMessage, collect bool, columns *[]string, seen map[string]bool) (model.Row, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("record is not an object")
	}

	row := make(model.Row)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := keyTok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		row[key] = jsonScalar(value)

		if collect && !seen[key] {
			seen[key] = true
			*columns = append(*columns, key)
		}
	}

	return row, nil
}

// jsonScalar maps a raw JSON value onto the closed scalar variant.
// Nested objects and arrays collapse to their raw JSON text.
func jsonScalar(raw json.RawMessage) model.Value {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return model.Null()
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return model.Text(string(raw))
		}
		return model.Text(s)
	case 't':
		return model.Bool(true)
	case 'f':
		return model.Bool(false)
	case 'n':
		return model.Null()
	case '{', '[':
		return model.Text(string(raw))
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return model.Text(string(raw))
		}
		return model.Number(f)
	}
}
