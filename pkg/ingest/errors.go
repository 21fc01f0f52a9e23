package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned when the input format is not supported.
	ErrUnsupportedFormat = errors.New("ingest: unsupported format")

	// ErrEmptyData is returned for structurally valid input with zero
	// usable rows (empty workbook sheet, empty JSON array).
	ErrEmptyData = errors.New("ingest: no usable rows")

	// ErrContextCanceled is returned when the context is canceled mid-parse.
	ErrContextCanceled = errors.New("ingest: context canceled")
)

// ParseError reports structurally malformed input for the selected
// format. It is not retried: the data is wrong, not unavailable.
type ParseError struct {
	Format Format
	Line   int // 1-based source line for delimited text, 0 when unknown
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("ingest: %s parse error at line %d: %v", e.Format, e.Line, e.Err)
	}
	return fmt.Sprintf("ingest: %s parse error: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
