package source

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func TestExt(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"data.csv", "csv"},
		{"data.CSV", "csv"},
		{"data.csv.gz", "csv"},
		{"report.XLSX", "xlsx"},
		{"noext", ""},
		{"archive.gz", ""},
	}

	for _, tt := range tests {
		if got := Ext(tt.name); got != tt.expected {
			t.Errorf("Ext(%q) = %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestBytesFile(t *testing.T) {
	f := NewBytesFile("data.csv", []byte("a,b\n1,2\n"))

	if f.Name() != "data.csv" {
		t.Errorf("Name() = %q", f.Name())
	}
	if f.Size() != 8 {
		t.Errorf("Size() = %d, want 8", f.Size())
	}

	content, err := f.Content()
	if err != nil {
		t.Fatalf("Content() error: %v", err)
	}
	if string(content) != "a,b\n1,2\n" {
		t.Errorf("Content() = %q", content)
	}
}

func TestBytesFile_Gzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	gz.Write([]byte("a,b\n1,2\n"))
	gz.Close()

	f := NewBytesFile("data.csv.gz", buf.Bytes())
	content, err := f.Content()
	if err != nil {
		t.Fatalf("Content() error: %v", err)
	}
	if string(content) != "a,b\n1,2\n" {
		t.Errorf("decompressed content = %q", content)
	}
}

func TestPathFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.csv")
	if err := os.WriteFile(path, []byte("x,y\n1,2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if f.Name() != "sample.csv" {
		t.Errorf("Name() = %q", f.Name())
	}
	if f.Size() != 8 {
		t.Errorf("Size() = %d, want 8", f.Size())
	}

	content, err := f.Content()
	if err != nil {
		t.Fatalf("Content() error: %v", err)
	}
	if string(content) != "x,y\n1,2\n" {
		t.Errorf("Content() = %q", content)
	}
}

func TestOpen_Missing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("Open on missing file should fail")
	}
}
