// Package summary computes describe-style statistics for numeric columns of
// a cleaned dataset.
package summary

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/go-gota/gota/series"

	"salesclean/internal/models"
)

// ErrUnknownColumn is returned when a requested column is not in the dataset.
var ErrUnknownColumn = errors.New("unknown column")

// ColumnStats holds the statistics of one numeric column. Count excludes
// nulls and non-numeric cells; the other fields are NaN when Count is zero.
type ColumnStats struct {
	Name   string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Median float64
	Max    float64
}

// Describe returns statistics for each named column, in order.
func Describe(ds *models.Dataset, columns []string) ([]ColumnStats, error) {
	stats := make([]ColumnStats, 0, len(columns))

	for _, name := range columns {
		if !ds.HasColumn(name) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
		}

		stats = append(stats, describeColumn(ds, name))
	}

	return stats, nil
}

func describeColumn(ds *models.Dataset, name string) ColumnStats {
	values := make([]float64, 0, ds.Len())

	for _, r := range ds.Rows {
		if f, ok := r.Get(name).Float(); ok {
			values = append(values, f)
		}
	}

	cs := ColumnStats{Name: name, Count: len(values)}
	if cs.Count == 0 {
		nan := math.NaN()
		cs.Mean, cs.Std, cs.Min, cs.Median, cs.Max = nan, nan, nan, nan, nan

		return cs
	}

	s := series.New(values, series.Float, name)

	cs.Mean = s.Mean()
	cs.Min = s.Min()
	cs.Median = s.Median()
	cs.Max = s.Max()

	cs.Std = math.NaN()
	if cs.Count > 1 {
		cs.Std = s.StdDev()
	}

	return cs
}

// Table lays stats out as a header and rows, one row per statistic and one
// column per described column.
func Table(stats []ColumnStats) ([]string, [][]string) {
	header := make([]string, 0, len(stats)+1)
	header = append(header, "")

	for _, cs := range stats {
		header = append(header, cs.Name)
	}

	lines := []struct {
		label string
		value func(ColumnStats) float64
	}{
		{"count", func(cs ColumnStats) float64 { return float64(cs.Count) }},
		{"mean", func(cs ColumnStats) float64 { return cs.Mean }},
		{"std", func(cs ColumnStats) float64 { return cs.Std }},
		{"min", func(cs ColumnStats) float64 { return cs.Min }},
		{"50%", func(cs ColumnStats) float64 { return cs.Median }},
		{"max", func(cs ColumnStats) float64 { return cs.Max }},
	}

	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		row := make([]string, 0, len(stats)+1)
		row = append(row, line.label)

		for _, cs := range stats {
			row = append(row, formatStat(line.value(cs)))
		}

		rows = append(rows, row)
	}

	return header, rows
}

func formatStat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}

	return strconv.FormatFloat(f, 'f', 6, 64)
}
