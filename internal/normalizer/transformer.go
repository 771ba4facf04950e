package normalizer

import (
	"strings"

	"salesclean/internal/models"
)

// Transformer handles value-level rewrites that never drop rows.
type Transformer struct{}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// TrimText strips leading and trailing whitespace from every value of every
// text column. Numeric columns and nulls pass through unchanged.
func (t *Transformer) TrimText(ds *models.Dataset) *models.Dataset {
	var textCols []string

	for _, c := range ds.Columns {
		if c.Kind == models.ColumnText {
			textCols = append(textCols, c.Name)
		}
	}

	out := models.NewDataset(ds.Columns)
	out.Rows = make([]models.Row, len(ds.Rows))

	for i, r := range ds.Rows {
		row := r.Clone()

		for _, name := range textCols {
			if s, ok := row[name].Text(); ok {
				row[name] = models.Text(strings.TrimSpace(s))
			}
		}

		out.Rows[i] = row
	}

	return out
}
