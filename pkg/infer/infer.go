// Package infer classifies table columns into semantic types
// (number, date, boolean, category, text) from their cell values.
package infer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tabflow/tabflow/internal/model"
)

const (
	// dominanceThreshold is the fraction of values that must match a
	// type test. Strictly greater-than, so a column that is exactly
	// 80% numeric stays text.
	dominanceThreshold = 0.8

	// categoryMaxDistinct caps the absolute number of distinct values
	// a categorical column may have.
	categoryMaxDistinct = 10

	// categoryRedundancy is the required distinct-to-valid ratio.
	// distinct count must be strictly below this fraction of the
	// valid values, so low-row columns of unique labels stay text.
	categoryRedundancy = 0.5
)

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	usDatePattern  = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
)

// DetectColumnType classifies a column from its cell values. The
// decision cascade is ordered; the first passing test wins. It never
// fails: degenerate input (no non-empty values) classifies as text.
//
// The result depends only on the multiset of values passed in, so a
// caller sampling the first N rows gets first-N semantics.
func DetectColumnType(values []model.Value) model.ColumnType {
	valid := make([]model.Value, 0, len(values))
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		if v.Kind() == model.KindText && v.Text() == "" {
			continue
		}
		valid = append(valid, v)
	}
	if len(valid) == 0 {
		return model.TypeText
	}

	total := float64(len(valid))

	numeric := 0
	for _, v := range valid {
		if isNumeric(v) {
			numeric++
		}
	}
	if float64(numeric)/total > dominanceThreshold {
		return model.TypeNumber
	}

	// Evaluated after the numeric test so all-number columns are
	// never misclassified as dates. Only string values qualify.
	dates := 0
	for _, v := range valid {
		if isDate(v) {
			dates++
		}
	}
	if float64(dates)/total > dominanceThreshold {
		return model.TypeDate
	}

	bools := 0
	for _, v := range valid {
		if isBoolean(v) {
			bools++
		}
	}
	if float64(bools)/total > dominanceThreshold {
		return model.TypeBoolean
	}

	distinct := make(map[string]struct{}, len(valid))
	for _, v := range valid {
		distinct[v.String()] = struct{}{}
	}
	if len(distinct) <= categoryMaxDistinct && float64(len(distinct)) < categoryRedundancy*total {
		return model.TypeCategory
	}

	return model.TypeText
}

// TableTypes infers one type per column, index-aligned with columns.
// Each column is classified over its full value sequence.
func TableTypes(columns []string, rows []model.Row) []model.ColumnType {
	types := make([]model.ColumnType, len(columns))
	values := make([]model.Value, 0, len(rows))
	for i, col := range columns {
		values = values[:0]
		for _, row := range rows {
			v, ok := row[col]
			if !ok {
				v = model.Null()
			}
			values = append(values, v)
		}
		types[i] = DetectColumnType(values)
	}
	return types
}

// isNumeric reports whether a value parses as a finite number.
// Numeric strings count (lenient coercion); booleans do not.
func isNumeric(v model.Value) bool {
	switch v.Kind() {
	case model.KindNumber:
		return !math.IsNaN(v.Float()) && !math.IsInf(v.Float(), 0)
	case model.KindText:
		return ParsesAsNumber(strings.TrimSpace(v.Text()))
	default:
		return false
	}
}

// ParsesAsNumber reports whether s parses as a finite float.
func ParsesAsNumber(s string) bool {
	if s == "" {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// isDate reports whether a string value matches an ISO (YYYY-MM-DD)
// or US (MM/DD/YYYY) pattern and parses to a real calendar date.
func isDate(v model.Value) bool {
	if v.Kind() != model.KindText {
		return false
	}
	s := strings.TrimSpace(v.Text())
	switch {
	case isoDatePattern.MatchString(s):
		_, err := time.Parse("2006-01-02", s)
		return err == nil
	case usDatePattern.MatchString(s):
		_, err := time.Parse("1/2/2006", s)
		return err == nil
	default:
		return false
	}
}

// isBoolean reports whether a value is a literal boolean or one of
// the string forms true/false/yes/no (case-insensitive).
func isBoolean(v model.Value) bool {
	switch v.Kind() {
	case model.KindBool:
		return true
	case model.KindText:
		switch strings.ToLower(strings.TrimSpace(v.Text())) {
		case "true", "false", "yes", "no":
			return true
		}
	}
	return false
}
