package ingest

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tabflow/tabflow/internal/model"
	"github.com/tabflow/tabflow/pkg/infer"
)

// ParseSpreadsheet ingests an Excel workbook. Only the first sheet is
// read; its first row is the header. Cell values are coerced to
// scalars the same way as delimited text.
func ParseSpreadsheet(buf []byte) (*model.Table, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(buf))
	if err != nil {
		return nil, &ParseError{Format: FormatXLSX, Err: fmt.Errorf("failed to open workbook: %w", err)}
	}
	defer wb.Close()

	sheetName := wb.GetSheetName(0)
	if sheetName == "" {
		sheetList := wb.GetSheetList()
		if len(sheetList) == 0 {
			return nil, fmt.Errorf("%w: workbook contains no sheets", ErrEmptyData)
		}
		sheetName = sheetList[0]
	}

	// Streaming row reader keeps memory flat for large sheets.
	sheetRows, err := wb.Rows(sheetName)
	if err != nil {
		return nil, &ParseError{Format: FormatXLSX, Err: fmt.Errorf("failed to read rows: %w", err)}
	}
	defer sheetRows.Close()

	if !sheetRows.Next() {
		return nil, fmt.Errorf("%w: file is empty", ErrEmptyData)
	}
	header, err := sheetRows.Columns()
	if err != nil {
		return nil, &ParseError{Format: FormatXLSX, Err: fmt.Errorf("failed to read header: %w", err)}
	}

	columns := make([]string, 0, len(header))
	seen := make(map[string]bool, len(header))
	for _, name := range header {
		if !seen[name] {
			seen[name] = true
			columns = append(columns, name)
		}
	}

	var rows []model.Row
	for sheetRows.Next() {
		cells, err := sheetRows.Columns()
		if err != nil {
			return nil, &ParseError{Format: FormatXLSX, Err: err}
		}
		if len(cells) == 0 {
			// Structurally absent row (no cells at all)
			continue
		}

		row := make(model.Row, len(columns))
		for i, cell := range cells {
			if i >= len(header) {
				break
			}
			row[header[i]] = coerceScalar(cell)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrEmptyData)
	}

	return &model.Table{
		Columns: columns,
		Types:   infer.TableTypes(columns, rows),
		Rows:    rows,
	}, nil
}
