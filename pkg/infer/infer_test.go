package infer

import (
	"fmt"
	"testing"

	"github.com/tabflow/tabflow/internal/model"
)

func texts(ss ...string) []model.Value {
	values := make([]model.Value, len(ss))
	for i, s := range ss {
		values[i] = model.Text(s)
	}
	return values
}

func TestDetectColumnType_Empty(t *testing.T) {
	tests := []struct {
		name   string
		values []model.Value
	}{
		{"nil", nil},
		{"all nulls", []model.Value{model.Null(), model.Null()}},
		{"all empty strings", texts("", "", "")},
		{"mixed nulls and empties", []model.Value{model.Null(), model.Text("")}},
	}

	for _, tt := range tests {
		got := DetectColumnType(tt.values)
		if got != model.TypeText {
			t.Errorf("%s: DetectColumnType = %v, want text", tt.name, got)
		}
	}
}

func TestDetectColumnType_Number(t *testing.T) {
	tests := []struct {
		name     string
		values   []model.Value
		expected model.ColumnType
	}{
		{"native numbers", []model.Value{model.Number(1), model.Number(2), model.Number(3)}, model.TypeNumber},
		{"numeric strings", texts("1", "2.5", "-3", "1e4", "0"), model.TypeNumber},
		{"mixed native and strings", []model.Value{model.Number(1), model.Text("2"), model.Number(3), model.Text("4"), model.Text("5")}, model.TypeNumber},
		{"minority garbage tolerated", texts("1", "2", "3", "4", "5", "6", "7", "8", "9", "n/a"), model.TypeNumber},
		{"exactly 80% fails strict threshold", texts("1", "2", "3", "4", "x"), model.TypeText},
		{"nulls excluded from denominator", []model.Value{model.Number(1), model.Null(), model.Number(2), model.Text("")}, model.TypeNumber},
	}

	for _, tt := range tests {
		got := DetectColumnType(tt.values)
		if got != tt.expected {
			t.Errorf("%s: DetectColumnType = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestDetectColumnType_NumberThresholdProperty(t *testing.T) {
	// Any sequence with >80% numeric-parseable values classifies as number.
	for numeric := 9; numeric <= 20; numeric++ {
		values := make([]model.Value, 0, numeric+2)
		for i := 0; i < numeric; i++ {
			values = append(values, model.Text(fmt.Sprintf("%d", i)))
		}
		values = append(values, model.Text("alpha"), model.Text("beta"))

		frac := float64(numeric) / float64(numeric+2)
		got := DetectColumnType(values)
		if frac > 0.8 && got != model.TypeNumber {
			t.Errorf("%d/%d numeric: got %v, want number", numeric, numeric+2, got)
		}
		if frac <= 0.8 && got == model.TypeNumber {
			t.Errorf("%d/%d numeric: got number, want non-number", numeric, numeric+2)
		}
	}
}

func TestDetectColumnType_Date(t *testing.T) {
	tests := []struct {
		name     string
		values   []model.Value
		expected model.ColumnType
	}{
		{"iso dates", texts("2024-01-01", "2024-01-02", "2024-12-31"), model.TypeDate},
		{"us dates", texts("01/15/2024", "2/1/2024", "12/31/2023"), model.TypeDate},
		{"mixed formats", texts("2024-01-01", "01/15/2024", "2024-06-30"), model.TypeDate},
		{"invalid calendar date rejected", texts("2024-13-01", "2024-14-01", "2024-15-01"), model.TypeText},
		{"numeric column never date", []model.Value{model.Number(20240101), model.Number(20240102)}, model.TypeNumber},
		{"datetime strings do not match", texts("2024-01-01T10:00:00", "2024-01-02T10:00:00"), model.TypeText},
	}

	for _, tt := range tests {
		got := DetectColumnType(tt.values)
		if got != tt.expected {
			t.Errorf("%s: DetectColumnType = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestDetectColumnType_Boolean(t *testing.T) {
	tests := []struct {
		name     string
		values   []model.Value
		expected model.ColumnType
	}{
		{"native booleans", []model.Value{model.Bool(true), model.Bool(false), model.Bool(true)}, model.TypeBoolean},
		{"string forms", texts("true", "FALSE", "Yes", "no", "TRUE"), model.TypeBoolean},
		{"mixed native and strings", []model.Value{model.Bool(true), model.Text("yes"), model.Text("no"), model.Bool(false), model.Text("true")}, model.TypeBoolean},
	}

	for _, tt := range tests {
		got := DetectColumnType(tt.values)
		if got != tt.expected {
			t.Errorf("%s: DetectColumnType = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestDetectColumnType_Category(t *testing.T) {
	// 20 rows, 6 distinct values: passes both the absolute cap and the
	// redundancy condition.
	var repeated []model.Value
	labels := []string{"red", "green", "blue", "cyan", "magenta", "amber"}
	for i := 0; i < 20; i++ {
		repeated = append(repeated, model.Text(labels[i%len(labels)]))
	}
	if got := DetectColumnType(repeated); got != model.TypeCategory {
		t.Errorf("20 rows / 6 distinct: got %v, want category", got)
	}

	// 10 rows, 10 distinct values: effectively an identifier column.
	// Fails the redundancy condition and stays text.
	unique := texts("a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9")
	if got := DetectColumnType(unique); got != model.TypeText {
		t.Errorf("10 rows / 10 distinct: got %v, want text", got)
	}

	// 30 rows, 11 distinct values: fails the absolute cap.
	var wide []model.Value
	for i := 0; i < 30; i++ {
		wide = append(wide, model.Text(fmt.Sprintf("v%d", i%11)))
	}
	if got := DetectColumnType(wide); got != model.TypeText {
		t.Errorf("30 rows / 11 distinct: got %v, want text", got)
	}
}

func TestDetectColumnType_OrderIndependent(t *testing.T) {
	forward := texts("1", "2", "3", "4", "x")
	backward := texts("x", "4", "3", "2", "1")

	if DetectColumnType(forward) != DetectColumnType(backward) {
		t.Error("classification should depend only on the multiset of values")
	}
}

func TestTableTypes(t *testing.T) {
	columns := []string{"Date", "Sales", "Active"}
	rows := []model.Row{
		{"Date": model.Text("2024-01-01"), "Sales": model.Number(100), "Active": model.Bool(true)},
		{"Date": model.Text("2024-01-02"), "Sales": model.Number(150), "Active": model.Bool(false)},
	}

	types := TableTypes(columns, rows)
	if len(types) != len(columns) {
		t.Fatalf("got %d types for %d columns", len(types), len(columns))
	}

	expected := []model.ColumnType{model.TypeDate, model.TypeNumber, model.TypeBoolean}
	for i, want := range expected {
		if types[i] != want {
			t.Errorf("column %s: got %v, want %v", columns[i], types[i], want)
		}
	}
}

func TestParsesAsNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"42", true},
		{"-1.5", true},
		{"1e9", true},
		{"", false},
		{"abc", false},
		{"NaN", false},
		{"Inf", false},
		{"+Inf", false},
	}

	for _, tt := range tests {
		if got := ParsesAsNumber(tt.input); got != tt.expected {
			t.Errorf("ParsesAsNumber(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
