// Package ingest converts raw tabular files (CSV/TSV, XLSX/XLS, JSON)
// into the uniform in-memory Table representation, running column type
// inference over the result.
package ingest

import (
	"context"
	"fmt"

	"github.com/tabflow/tabflow/internal/model"
	"github.com/tabflow/tabflow/pkg/source"
)

// Format represents a supported input format.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatTSV
	FormatXLSX
	FormatXLS
	FormatJSON
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	case FormatXLSX:
		return "xlsx"
	case FormatXLS:
		return "xls"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat parses a format string.
func ParseFormat(s string) Format {
	switch s {
	case "csv", "CSV":
		return FormatCSV
	case "tsv", "TSV":
		return FormatTSV
	case "xlsx", "XLSX", "excel", "Excel":
		return FormatXLSX
	case "xls", "XLS":
		return FormatXLS
	case "json", "JSON":
		return FormatJSON
	default:
		return FormatUnknown
	}
}

// FormatOf detects the format from a file name's extension,
// handling .gz compression transparently.
func FormatOf(name string) Format {
	return ParseFormat(source.Ext(name))
}

// JSONColumnMode selects how the JSON ingestor derives the column set.
type JSONColumnMode uint8

const (
	// JSONColumnsFirst takes columns from the first record only.
	// Later records' extra keys are not reconciled into the list.
	JSONColumnsFirst JSONColumnMode = iota
	// JSONColumnsUnion appends unseen keys from later records in
	// first-seen order.
	JSONColumnsUnion
)

// Config holds common ingestion configuration.
type Config struct {
	// Delimiter is the field delimiter for delimited text. Zero
	// means choose by format (comma for csv, tab for tsv).
	Delimiter byte

	// JSONColumns selects the JSON column derivation mode.
	JSONColumns JSONColumnMode
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Delimiter:   0,
		JSONColumns: JSONColumnsFirst,
	}
}

// ParseFile reads and ingests a file, dispatching on its extension.
// It does not validate the file first; validation is a separate
// pre-check left to the caller.
func ParseFile(ctx context.Context, f source.File) (*model.Table, error) {
	return ParseFileWith(ctx, f, DefaultConfig())
}

// ParseFileWith is ParseFile with explicit configuration.
func ParseFileWith(ctx context.Context, f source.File, cfg Config) (*model.Table, error) {
	format := FormatOf(f.Name())
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f.Name())
	}

	content, err := f.Content()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Name(), err)
	}

	switch format {
	case FormatCSV, FormatTSV:
		delim := cfg.Delimiter
		if delim == 0 {
			delim = ','
			if format == FormatTSV {
				delim = '\t'
			}
		}
		return parseDelimited(ctx, content, delim)
	case FormatXLSX, FormatXLS:
		return ParseSpreadsheet(content)
	default:
		return parseJSONTable(content, cfg.JSONColumns)
	}
}
