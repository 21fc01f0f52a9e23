package ingest

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tabflow/tabflow/internal/model"
)

func TestParseDelimited_RoundTrip(t *testing.T) {
	table, err := ParseDelimited(context.Background(), "a,b,c\n1,2,3\n4,5,6\n7,8,9\n")
	if err != nil {
		t.Fatalf("ParseDelimited error: %v", err)
	}

	if !reflect.DeepEqual(table.Columns, []string{"a", "b", "c"}) {
		t.Errorf("Columns = %v, want [a b c]", table.Columns)
	}
	if table.RowCount() != 3 {
		t.Errorf("RowCount = %d, want 3", table.RowCount())
	}
	if table.ColumnCount() != 3 {
		t.Errorf("ColumnCount = %d, want 3", table.ColumnCount())
	}
	if len(table.Types) != len(table.Columns) {
		t.Fatalf("Types length %d != Columns length %d", len(table.Types), len(table.Columns))
	}
	for i, typ := range table.Types {
		if typ != model.TypeNumber {
			t.Errorf("column %s type = %v, want number", table.Columns[i], typ)
		}
	}
}

func TestParseDelimited_Coercion(t *testing.T) {
	table, err := ParseDelimited(context.Background(), "id,active,note\n1,true,hello\n2,false,world\n")
	if err != nil {
		t.Fatalf("ParseDelimited error: %v", err)
	}

	row := table.Rows[0]
	if row["id"].Kind() != model.KindNumber || row["id"].Float() != 1 {
		t.Errorf("id = %v, want number 1", row["id"])
	}
	if row["active"].Kind() != model.KindBool || !row["active"].Bool() {
		t.Errorf("active = %v, want bool true", row["active"])
	}
	if row["note"].Kind() != model.KindText || row["note"].Text() != "hello" {
		t.Errorf("note = %v, want text hello", row["note"])
	}
}

func TestParseDelimited_EmptyLinesSkipped(t *testing.T) {
	table, err := ParseDelimited(context.Background(), "a,b\n1,2\n\n\n3,4\n\n")
	if err != nil {
		t.Fatalf("ParseDelimited error: %v", err)
	}
	if table.RowCount() != 2 {
		t.Errorf("RowCount = %d, want 2 (empty lines must not produce records)", table.RowCount())
	}
}

func TestParseDelimited_EmptyCellsAreNull(t *testing.T) {
	table, err := ParseDelimited(context.Background(), "a,b\n1,\n,2\n")
	if err != nil {
		t.Fatalf("ParseDelimited error: %v", err)
	}
	if !table.Rows[0]["b"].IsNull() {
		t.Error("empty trailing cell should be null")
	}
	if !table.Rows[1]["a"].IsNull() {
		t.Error("empty leading cell should be null")
	}
}

func TestParseDelimited_QuotedFields(t *testing.T) {
	content := "name,quote\n\"Smith, Jane\",\"she said \"\"hi\"\"\"\n\"multi\nline\",plain\n"
	table, err := ParseDelimited(context.Background(), content)
	if err != nil {
		t.Fatalf("ParseDelimited error: %v", err)
	}

	if got := table.Rows[0]["name"].Text(); got != "Smith, Jane" {
		t.Errorf("embedded delimiter: got %q", got)
	}
	if got := table.Rows[0]["quote"].Text(); got != `she said "hi"` {
		t.Errorf("escaped quotes: got %q", got)
	}
	if got := table.Rows[1]["name"].Text(); got != "multi\nline" {
		t.Errorf("embedded newline: got %q", got)
	}
}

func TestParseDelimited_MalformedQuoting(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unterminated quote", "a,b\n\"open,2\n"},
		{"junk after closing quote", "a,b\n\"x\"y,2\n"},
	}

	for _, tt := range tests {
		_, err := ParseDelimited(context.Background(), tt.content)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("%s: error %v is not a ParseError", tt.name, err)
			continue
		}
		if pe.Format != FormatCSV {
			t.Errorf("%s: ParseError.Format = %v, want csv", tt.name, pe.Format)
		}
		if pe.Line == 0 {
			t.Errorf("%s: ParseError should carry the source line", tt.name)
		}
	}
}

func TestParseDelimited_NoHeader(t *testing.T) {
	_, err := ParseDelimited(context.Background(), "")
	if !errors.Is(err, ErrEmptyData) {
		t.Errorf("empty content: err = %v, want ErrEmptyData", err)
	}

	_, err = ParseDelimited(context.Background(), "\n\n\n")
	if !errors.Is(err, ErrEmptyData) {
		t.Errorf("blank content: err = %v, want ErrEmptyData", err)
	}
}

func TestParseDelimited_HeaderOnly(t *testing.T) {
	table, err := ParseDelimited(context.Background(), "a,b,c\n")
	if err != nil {
		t.Fatalf("ParseDelimited error: %v", err)
	}
	if table.RowCount() != 0 {
		t.Errorf("RowCount = %d, want 0", table.RowCount())
	}
	// Columns with no sampled values default to text.
	for i, typ := range table.Types {
		if typ != model.TypeText {
			t.Errorf("column %s type = %v, want text", table.Columns[i], typ)
		}
	}
}

func TestParseDelimited_CategoryScenario(t *testing.T) {
	content := "Category,Count\nA,5\nB,3\nA,7\nB,2\nA,1\n"
	table, err := ParseDelimited(context.Background(), content)
	if err != nil {
		t.Fatalf("ParseDelimited error: %v", err)
	}

	// 2 distinct values over 5 rows: within the cap and redundant.
	if typ, _ := table.TypeOf("Category"); typ != model.TypeCategory {
		t.Errorf("Category type = %v, want category", typ)
	}
	if typ, _ := table.TypeOf("Count"); typ != model.TypeNumber {
		t.Errorf("Count type = %v, want number", typ)
	}
}

func TestParseDelimited_Idempotent(t *testing.T) {
	content := "x,y\n1,alpha\n2,beta\n"
	first, err := ParseDelimited(context.Background(), content)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ParseDelimited(context.Background(), content)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("parsing the same content twice should yield identical tables")
	}
}

func TestParseDelimited_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParseDelimited(ctx, "a,b\n1,2\n")
	if !errors.Is(err, ErrContextCanceled) {
		t.Errorf("err = %v, want ErrContextCanceled", err)
	}
}

func TestParseTSV(t *testing.T) {
	table, err := ParseTSV(context.Background(), "a\tb\n1\tx\n2\ty\n")
	if err != nil {
		t.Fatalf("ParseTSV error: %v", err)
	}
	if table.RowCount() != 2 {
		t.Errorf("RowCount = %d, want 2", table.RowCount())
	}
	if typ, _ := table.TypeOf("a"); typ != model.TypeNumber {
		t.Errorf("a type = %v, want number", typ)
	}
}

func TestParseDelimited_ShortAndLongRows(t *testing.T) {
	table, err := ParseDelimited(context.Background(), "a,b\n1\n2,3,4\n")
	if err != nil {
		t.Fatalf("ParseDelimited error: %v", err)
	}

	if _, ok := table.Rows[0]["b"]; ok {
		t.Error("short row should leave missing columns absent")
	}
	if got := table.Rows[1]["b"].Float(); got != 3 {
		t.Errorf("long row b = %v, want 3", got)
	}
	if table.ColumnCount() != 2 {
		t.Errorf("extra fields must not grow the column list: %v", table.Columns)
	}
}

func TestParseDelimited_CRLF(t *testing.T) {
	table, err := ParseDelimited(context.Background(), "a,b\r\n1,2\r\n3,4\r\n")
	if err != nil {
		t.Fatalf("ParseDelimited error: %v", err)
	}
	if table.RowCount() != 2 {
		t.Errorf("RowCount = %d, want 2", table.RowCount())
	}
	if got := table.Rows[1]["b"].Float(); got != 4 {
		t.Errorf("b = %v, want 4", got)
	}
}
