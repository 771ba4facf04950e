// Package formatter renders datasets as aligned console tables.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"salesclean/internal/models"
)

// NullCell is how a missing value is shown in a preview.
const NullCell = "NaN"

// DefaultMaxCellWidth caps the display width of a single preview cell.
const DefaultMaxCellWidth = 30

// minColumnWidth keeps the separator at least "---".
const minColumnWidth = 3

// Cell returns the preview text of v.
func Cell(v models.Value) string {
	if v.IsNull() {
		return NullCell
	}

	return v.String()
}

// RenderTable writes the header and the first n rows of ds as a pipe table.
// Cells wider than maxCellWidth display columns are truncated; maxCellWidth <= 0
// uses DefaultMaxCellWidth.
func RenderTable(w io.Writer, ds *models.Dataset, n, maxCellWidth int) error {
	if maxCellWidth <= 0 {
		maxCellWidth = DefaultMaxCellWidth
	}

	head := ds.Head(n)
	names := head.Names()

	header := make([]string, len(names))
	for i, name := range names {
		header[i] = truncate(name, maxCellWidth)
	}

	rows := make([][]string, 0, head.Len())
	for _, r := range head.Rows {
		cells := make([]string, len(names))
		for i, name := range names {
			cells[i] = truncate(Cell(r.Get(name)), maxCellWidth)
		}

		rows = append(rows, cells)
	}

	for _, line := range FormatTable(header, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write preview: %w", err)
		}
	}

	return nil
}

// FormatTable lays out header and rows as aligned pipe-table lines, padding
// by display width so wide runes line up.
func FormatTable(header []string, rows [][]string) []string {
	colCount := len(header)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	if colCount == 0 {
		return nil
	}

	colWidths := make([]int, colCount)
	measure := func(row []string) {
		for i := 0; i < len(row) && i < colCount; i++ {
			if width := runewidth.StringWidth(row[i]); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	measure(header)
	for _, row := range rows {
		measure(row)
	}

	for i := range colWidths {
		if colWidths[i] < minColumnWidth {
			colWidths[i] = minColumnWidth
		}
	}

	result := make([]string, 0, len(rows)+2)
	result = append(result, formatRow(header, colWidths))

	separator := make([]string, colCount)
	for i, width := range colWidths {
		separator[i] = strings.Repeat("-", width)
	}

	result = append(result, formatRow(separator, colWidths))

	for _, row := range rows {
		result = append(result, formatRow(row, colWidths))
	}

	return result
}

func formatRow(row []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		content := ""
		if j < len(row) {
			content = row[j]
		}

		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(content, width))
		sb.WriteString(" |")
	}

	return sb.String()
}

func truncate(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}

	return runewidth.Truncate(s, maxWidth, "...")
}
