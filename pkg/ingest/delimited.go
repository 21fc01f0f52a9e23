package ingest

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tabflow/tabflow/internal/model"
	"github.com/tabflow/tabflow/pkg/infer"
)

// ParseDelimited ingests comma-delimited text. The first row is the
// header; empty lines are skipped; values are coerced to scalars
// (numeric strings become numbers, true/false become booleans) before
// type inference runs over each column's full value sequence.
func ParseDelimited(ctx context.Context, content string) (*model.Table, error) {
	return parseDelimited(ctx, []byte(content), ',')
}

// ParseTSV ingests tab-delimited text.
func ParseTSV(ctx context.Context, content string) (*model.Table, error) {
	return parseDelimited(ctx, []byte(content), '\t')
}

func parseDelimited(ctx context.Context, data []byte, delim byte) (*model.Table, error) {
	format := FormatCSV
	if delim == '\t' {
		format = FormatTSV
	}

	sc := newDelimitedScanner(data, delim)

	header, err := sc.next()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s input has no header row", ErrEmptyData, format)
	}
	if err != nil {
		return nil, &ParseError{Format: format, Line: sc.line, Err: err}
	}

	// Columns keep first-seen order; duplicate header names collapse
	// to one column and the last field wins, as with record keys.
	columns := make([]string, 0, len(header))
	seen := make(map[string]bool, len(header))
	for _, name := range header {
		if !seen[name] {
			seen[name] = true
			columns = append(columns, name)
		}
	}

	var rows []model.Row
	for {
		select {
		case <-ctx.Done():
			return nil, ErrContextCanceled
		default:
		}

		record, err := sc.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Format: format, Line: sc.line, Err: err}
		}

		row := make(model.Row, len(columns))
		for i, field := range record {
			if i >= len(header) {
				break // extra fields beyond the header are dropped
			}
			row[header[i]] = coerceScalar(field)
		}
		rows = append(rows, row)
	}

	return &model.Table{
		Columns: columns,
		Types:   infer.TableTypes(columns, rows),
		Rows:    rows,
	}, nil
}

// coerceScalar converts a raw text cell into a typed scalar. Empty
// cells become null; numeric-looking strings become numbers; literal
// true/false (any case) become booleans; everything else stays text.
func coerceScalar(s string) model.Value {
	if s == "" {
		return model.Null()
	}

	trimmed := strings.TrimSpace(s)
	if infer.ParsesAsNumber(trimmed) {
		f, _ := strconv.ParseFloat(trimmed, 64)
		return model.Number(f)
	}

	switch strings.ToLower(trimmed) {
	case "true":
		return model.Bool(true)
	case "false":
		return model.Bool(false)
	}

	return model.Text(s)
}
