package schema

import (
	"fmt"
	"strings"

	"github.com/tabflow/tabflow/internal/model"
)

// TypeChange records a column whose inferred type differs between
// two snapshots.
type TypeChange struct {
	Column   string `json:"column"`
	OldType  string `json:"old_type"`
	NewType  string `json:"new_type"`
	Widening bool   `json:"widening"`
}

// Diff describes how a new schema differs from an old one.
type Diff struct {
	Added       []string     `json:"added,omitempty"`
	Removed     []string     `json:"removed,omitempty"`
	TypeChanges []TypeChange `json:"type_changes,omitempty"`
}

// HasChanges reports whether the diff contains any drift at all.
func (d *Diff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.TypeChanges) > 0
}

// HasBreaking reports whether the diff contains removed columns or
// non-widening type changes.
func (d *Diff) HasBreaking() bool {
	if len(d.Removed) > 0 {
		return true
	}
	for _, tc := range d.TypeChanges {
		if !tc.Widening {
			return true
		}
	}
	return false
}

// Summary renders the diff as a short human-readable report.
func (d *Diff) Summary() string {
	if !d.HasChanges() {
		return "no schema changes"
	}

	var b strings.Builder
	for _, name := range d.Added {
		fmt.Fprintf(&b, "+ column %q added\n", name)
	}
	for _, name := range d.Removed {
		fmt.Fprintf(&b, "- column %q removed\n", name)
	}
	for _, tc := range d.TypeChanges {
		note := "breaking"
		if tc.Widening {
			note = "widening"
		}
		fmt.Fprintf(&b, "~ column %q: %s -> %s (%s)\n", tc.Column, tc.OldType, tc.NewType, note)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Compare computes the drift from old to new. Column order is taken
// from the new schema for additions and the old schema for removals.
func Compare(old, new *Schema) *Diff {
	diff := &Diff{}

	oldCols := make(map[string]Column, len(old.Columns))
	for _, col := range old.Columns {
		oldCols[col.Name] = col
	}
	newCols := make(map[string]Column, len(new.Columns))
	for _, col := range new.Columns {
		newCols[col.Name] = col
	}

	for _, col := range new.Columns {
		prev, ok := oldCols[col.Name]
		if !ok {
			diff.Added = append(diff.Added, col.Name)
			continue
		}
		if prev.Type != col.Type {
			diff.TypeChanges = append(diff.TypeChanges, TypeChange{
				Column:   col.Name,
				OldType:  prev.Type,
				NewType:  col.Type,
				Widening: isWidening(prev.Type, col.Type),
			})
		}
	}

	for _, col := range old.Columns {
		if _, ok := newCols[col.Name]; !ok {
			diff.Removed = append(diff.Removed, col.Name)
		}
	}

	return diff
}

// isWidening reports whether a type change loses no information:
// any type widens to text, and boolean widens to category.
func isWidening(oldType, newType string) bool {
	to := model.ParseColumnType(newType)
	from := model.ParseColumnType(oldType)
	if to == model.TypeText {
		return true
	}
	if from == model.TypeBoolean && to == model.TypeCategory {
		return true
	}
	return false
}
