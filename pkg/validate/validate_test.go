package validate

import (
	"strings"
	"testing"

	"github.com/tabflow/tabflow/pkg/source"
)

// sizedFile fakes a large file without allocating its content.
type sizedFile struct {
	name string
	size int64
}

func (f sizedFile) Name() string             { return f.name }
func (f sizedFile) Size() int64              { return f.size }
func (f sizedFile) Content() ([]byte, error) { return nil, nil }

func TestCheck_Extensions(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"data.csv", true},
		{"data.tsv", true},
		{"data.xlsx", true},
		{"data.xls", true},
		{"data.json", true},
		{"DATA.CSV", true},
		{"data.csv.gz", true},
		{"data.exe", false},
		{"data.txt", false},
		{"data", false},
	}

	for _, tt := range tests {
		result := Check(sizedFile{name: tt.name, size: 1024})
		if result.Valid != tt.valid {
			t.Errorf("Check(%q).Valid = %v, want %v (%s)", tt.name, result.Valid, tt.valid, result.Reason)
		}
		if !tt.valid && !strings.Contains(result.Reason, "Invalid file type") {
			t.Errorf("Check(%q).Reason = %q, want an invalid-type message", tt.name, result.Reason)
		}
	}
}

func TestCheck_Size(t *testing.T) {
	oversized := Check(sizedFile{name: "data.csv", size: 60 * 1024 * 1024})
	if oversized.Valid {
		t.Error("60MB file should be rejected")
	}
	if !strings.Contains(oversized.Reason, "File size exceeds 50MB limit") {
		t.Errorf("Reason = %q, want size-limit message", oversized.Reason)
	}

	// Exactly at the ceiling is accepted; the reject is strictly greater.
	atLimit := Check(sizedFile{name: "data.csv", size: MaxFileSize})
	if !atLimit.Valid {
		t.Errorf("file at exactly %d bytes should be accepted: %s", int64(MaxFileSize), atLimit.Reason)
	}

	small := Check(sizedFile{name: "data.csv", size: 1024})
	if !small.Valid {
		t.Errorf("1KB file should be accepted: %s", small.Reason)
	}
}

func TestCheck_PureInspection(t *testing.T) {
	f := source.NewBytesFile("data.csv", []byte("a,b\n1,2\n"))
	first := Check(f)
	second := Check(f)
	if first != second {
		t.Error("validation should be a pure function of name and size")
	}
}

func TestValidator_Options(t *testing.T) {
	v := New(WithExtensions([]string{"parquet"}), WithMaxSize(100))

	if r := v.Check(sizedFile{name: "data.parquet", size: 50}); !r.Valid {
		t.Errorf("custom extension should be accepted: %s", r.Reason)
	}
	if r := v.Check(sizedFile{name: "data.csv", size: 50}); r.Valid {
		t.Error("csv should be rejected when the allowlist excludes it")
	}
	if r := v.Check(sizedFile{name: "data.parquet", size: 101}); r.Valid {
		t.Error("file over the custom ceiling should be rejected")
	}
}

func TestCheck_SubMegabyteLimitMessage(t *testing.T) {
	v := New(WithMaxSize(512 * 1024))

	r := v.Check(sizedFile{name: "data.csv", size: 600 * 1024})
	if r.Valid {
		t.Fatal("file over a 512KB ceiling should be rejected")
	}
	if !strings.Contains(r.Reason, "File size exceeds 512KB limit") {
		t.Errorf("Reason = %q, want the limit rendered in KB", r.Reason)
	}

	odd := New(WithMaxSize(1000))
	if r := odd.Check(sizedFile{name: "data.csv", size: 2000}); !strings.Contains(r.Reason, "1000B") {
		t.Errorf("Reason = %q, want the limit rendered in bytes", r.Reason)
	}
}
