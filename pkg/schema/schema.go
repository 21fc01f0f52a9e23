// Package schema provides schema snapshots of ingested tables,
// fingerprint-keyed caching, and drift comparison between snapshots.
package schema

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tabflow/tabflow/internal/model"
)

// Column records one column's inferred shape.
type Column struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
	Position int    `json:"position"`
}

// Schema is a snapshot of an ingested table's shape.
type Schema struct {
	Version     string    `json:"version"`
	InferredAt  time.Time `json:"inferred_at"`
	RowCount    int       `json:"row_count"`
	Columns     []Column  `json:"columns"`
	SourceFile  string    `json:"source_file,omitempty"`
	Fingerprint string    `json:"fingerprint,omitempty"` // hash of the ordered column names
}

// FromTable snapshots a table's columns, inferred types, and
// per-column nullability.
func FromTable(t *model.Table, sourceFile string) *Schema {
	columns := make([]Column, len(t.Columns))
	for i, name := range t.Columns {
		columns[i] = Column{
			Name:     name,
			Type:     t.Types[i].String(),
			Nullable: columnNullable(t, name),
			Position: i,
		}
	}

	return &Schema{
		Version:     "1.0",
		InferredAt:  time.Now(),
		RowCount:    t.RowCount(),
		Columns:     columns,
		SourceFile:  sourceFile,
		Fingerprint: fingerprintColumns(columns),
	}
}

// columnNullable reports whether any cell in the column is null,
// absent, or empty text.
func columnNullable(t *model.Table, name string) bool {
	for _, row := range t.Rows {
		v, ok := row[name]
		if !ok || v.IsNull() {
			return true
		}
		if v.Kind() == model.KindText && v.Text() == "" {
			return true
		}
	}
	return false
}

// Save writes the schema to a JSON file.
func (s *Schema) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a schema from a JSON file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, err
	}

	return &schema, nil
}

// SchemaFile returns the standard schema file path for a data file.
func SchemaFile(dataPath string) string {
	ext := filepath.Ext(dataPath)
	base := strings.TrimSuffix(dataPath, ext)
	return base + ".schema.json"
}

// FingerprintNames hashes an ordered column name list into a stable
// key. A zero byte separates names so adjacent names cannot collide.
func FingerprintNames(names []string) string {
	h := fnv.New64a()
	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

func fingerprintColumns(columns []Column) string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	return FingerprintNames(names)
}
