// Package stats computes descriptive statistics and z-score outlier
// detection over the numeric columns of an ingested table.
package stats

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tabflow/tabflow/internal/model"
)

// DefaultZThreshold is the absolute z-score above which a value is
// flagged as an outlier.
const DefaultZThreshold = 2.0

// Summary holds descriptive statistics for a single numeric column.
type Summary struct {
	Column    string
	Count     int // cells with a numeric interpretation
	NullCount int // null or absent cells
	Min       float64
	Max       float64
	Mean      float64
	Median    float64
	StdDev    float64
	Outliers  []Outlier
}

// Outlier is a value whose z-score exceeds the detection threshold.
type Outlier struct {
	Row   int // 0-based data row index
	Value float64
	Score float64
}

// Describe computes a Summary for one column. The column must exist;
// cells without a numeric interpretation are skipped. A threshold of
// zero selects DefaultZThreshold.
func Describe(t *model.Table, column string, threshold float64) (*Summary, error) {
	found := false
	for _, col := range t.Columns {
		if col == column {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("stats: unknown column %q", column)
	}

	if threshold <= 0 {
		threshold = DefaultZThreshold
	}

	s := &Summary{Column: column}
	values := make([]float64, 0, len(t.Rows))
	rowIdx := make([]int, 0, len(t.Rows))

	for i, row := range t.Rows {
		v, ok := row[column]
		if !ok || v.IsNull() {
			s.NullCount++
			continue
		}
		f, ok := numericValue(v)
		if !ok {
			continue
		}
		values = append(values, f)
		rowIdx = append(rowIdx, i)
	}

	s.Count = len(values)
	if s.Count == 0 {
		return s, nil
	}

	s.Min = values[0]
	s.Max = values[0]
	sum := 0.0
	for _, f := range values {
		if f < s.Min {
			s.Min = f
		}
		if f > s.Max {
			s.Max = f
		}
		sum += f
	}
	s.Mean = sum / float64(s.Count)

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		s.Median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		s.Median = sorted[mid]
	}

	variance := 0.0
	for _, f := range values {
		d := f - s.Mean
		variance += d * d
	}
	s.StdDev = math.Sqrt(variance / float64(s.Count))

	// A flat column has no outliers by definition.
	if s.StdDev > 0 {
		for i, f := range values {
			z := (f - s.Mean) / s.StdDev
			if math.Abs(z) > threshold {
				s.Outliers = append(s.Outliers, Outlier{Row: rowIdx[i], Value: f, Score: z})
			}
		}
	}

	return s, nil
}

// DescribeTable summarizes every column typed as number, in column
// order.
func DescribeTable(t *model.Table, threshold float64) []*Summary {
	var summaries []*Summary
	for i, col := range t.Columns {
		if t.Types[i] != model.TypeNumber {
			continue
		}
		s, err := Describe(t, col, threshold)
		if err != nil {
			continue
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// numericValue extracts a finite float from a cell, accepting numeric
// strings the same way the type inferencer does.
func numericValue(v model.Value) (float64, bool) {
	switch v.Kind() {
	case model.KindNumber:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case model.KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text()), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
