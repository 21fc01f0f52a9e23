// Package validate provides the pre-ingestion gate: a pure check of
// file extension and size before any bytes are parsed.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tabflow/tabflow/pkg/source"
)

// MaxFileSize is the upload ceiling in bytes (50 MiB). Strictly
// larger files are rejected.
const MaxFileSize = 50 * 1024 * 1024

// DefaultExtensions are the accepted file extensions, compared
// case-insensitively.
var DefaultExtensions = []string{"csv", "tsv", "xlsx", "xls", "json"}

// Result is the outcome of a validation check. Rejection is a
// structured result, not an error: the caller decides what to do.
type Result struct {
	Valid  bool
	Reason string
}

// Validator checks files against an extension allowlist and a size
// ceiling. The zero-cost constructor defaults match the upload rules.
type Validator struct {
	extensions map[string]bool
	maxSize    int64
}

// Option configures a Validator.
type Option func(*Validator)

// WithExtensions replaces the accepted extension set.
func WithExtensions(exts []string) Option {
	return func(v *Validator) {
		v.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			v.extensions[strings.ToLower(ext)] = true
		}
	}
}

// WithMaxSize replaces the size ceiling.
func WithMaxSize(n int64) Option {
	return func(v *Validator) {
		v.maxSize = n
	}
}

// New creates a Validator with the default rules.
func New(opts ...Option) *Validator {
	v := &Validator{maxSize: MaxFileSize}
	WithExtensions(DefaultExtensions)(v)
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Check inspects a file's name and size. It reads no content and has
// no side effects.
func (v *Validator) Check(f source.File) Result {
	ext := source.Ext(f.Name())
	if ext == "" || !v.extensions[ext] {
		return Result{
			Valid:  false,
			Reason: fmt.Sprintf("Invalid file type. Supported formats: %s", strings.Join(v.sortedExtensions(), ", ")),
		}
	}

	if f.Size() > v.maxSize {
		return Result{
			Valid:  false,
			Reason: fmt.Sprintf("File size exceeds %s limit", formatLimit(v.maxSize)),
		}
	}

	return Result{Valid: true}
}

// Check validates a file against the default rules.
func Check(f source.File) Result {
	return New().Check(f)
}

// formatLimit renders a byte ceiling in the largest unit that divides
// it evenly, so a sub-megabyte limit never reads as "0MB".
func formatLimit(n int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case n >= mb && n%mb == 0:
		return fmt.Sprintf("%dMB", n/mb)
	case n >= kb && n%kb == 0:
		return fmt.Sprintf("%dKB", n/kb)
	default:
		return fmt.Sprintf("%dB", n)
	}
}

// sortedExtensions returns the allowlist in the default declaration
// order where possible, so error messages are stable.
func (v *Validator) sortedExtensions() []string {
	ordered := make([]string, 0, len(v.extensions))
	for _, ext := range DefaultExtensions {
		if v.extensions[ext] {
			ordered = append(ordered, ext)
		}
	}
	var extras []string
	for ext := range v.extensions {
		if !contains(ordered, ext) {
			extras = append(extras, ext)
		}
	}
	sort.Strings(extras)
	return append(ordered, extras...)
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}
