package normalizer

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"salesclean/internal/models"
)

// Validation errors.
var (
	ErrSchemaMismatch    = errors.New("required columns missing")
	ErrNoRequiredColumns = errors.New("at least one required column is needed")
)

// SchemaMismatchError lists the required columns absent from a dataset.
type SchemaMismatchError struct {
	Missing   []string
	Available []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s: %s (available: %s)",
		ErrSchemaMismatch,
		strings.Join(e.Missing, ", "),
		strings.Join(e.Available, ", "),
	)
}

func (e *SchemaMismatchError) Unwrap() error {
	return ErrSchemaMismatch
}

// ValidityStats counts rows removed by FilterValid, by reason.
type ValidityStats struct {
	NonNumeric int
	Negative   int
}

// Validator enforces the required numeric columns.
type Validator struct {
	required []string
}

// NewValidator creates a validator for the given required columns. Names are
// normalized the same way column headers are, and duplicates are dropped.
func NewValidator(required []string) *Validator {
	seen := make(map[string]bool, len(required))
	names := make([]string, 0, len(required))

	for _, r := range required {
		name := NormalizeColumnName(r)
		if name == "" || seen[name] {
			continue
		}

		seen[name] = true
		names = append(names, name)
	}

	return &Validator{required: names}
}

// Required returns the normalized required column names.
func (v *Validator) Required() []string {
	out := make([]string, len(v.required))
	copy(out, v.required)

	return out
}

// CheckSchema verifies every required column is present.
func (v *Validator) CheckSchema(ds *models.Dataset) error {
	if len(v.required) == 0 {
		return ErrNoRequiredColumns
	}

	var missing []string

	for _, name := range v.required {
		if !ds.HasColumn(name) {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return &SchemaMismatchError{Missing: missing, Available: ds.Names()}
	}

	return nil
}

// DropMissing keeps only rows where every required column is non-null.
func (v *Validator) DropMissing(ds *models.Dataset) *models.Dataset {
	out := models.NewDataset(ds.Columns)

	for _, r := range ds.Rows {
		if v.hasNull(r) {
			continue
		}

		out.Append(r)
	}

	return out
}

// FilterValid coerces the required columns to numbers and drops rows where a
// value is not a finite number or is negative. Coercion failure is silent: the
// value becomes null and the row is dropped. Zero is kept.
func (v *Validator) FilterValid(ds *models.Dataset) (*models.Dataset, ValidityStats) {
	var stats ValidityStats

	out := models.NewDataset(ds.Columns)
	for _, name := range v.required {
		out.SetKind(name, models.ColumnNumeric)
	}

	for _, r := range ds.Rows {
		row := r.Clone()
		for _, name := range v.required {
			row[name] = coerce(row.Get(name))
		}

		if v.hasNull(row) {
			stats.NonNumeric++
			continue
		}

		if v.hasNegative(row) {
			stats.Negative++
			continue
		}

		out.Append(row)
	}

	return out, stats
}

func (v *Validator) hasNull(r models.Row) bool {
	for _, name := range v.required {
		if r.Get(name).IsNull() {
			return true
		}
	}

	return false
}

func (v *Validator) hasNegative(r models.Row) bool {
	for _, name := range v.required {
		if f, _ := r.Get(name).Float(); f < 0 {
			return true
		}
	}

	return false
}

func coerce(val models.Value) models.Value {
	switch val.Kind() {
	case models.KindNumber:
		if f, _ := val.Float(); math.IsInf(f, 0) {
			return models.Null()
		}

		return val
	case models.KindText:
		s, _ := val.Text()
		if num, ok := models.NumberFromText(s); ok {
			return num
		}

		return models.Null()
	default:
		return models.Null()
	}
}
