// Package validator checks cleaned sales datasets before they are signed.
package validator

import (
	"errors"
	"fmt"
	"io"
	"math"

	"salesclean/internal/config"
	"salesclean/internal/models"
	"salesclean/internal/normalizer"
	"salesclean/pkg/metadata"
)

// Validation errors.
var (
	ErrMissingColumn   = errors.New("required column missing")
	ErrColumnNotNormal = errors.New("column name is not normalized")
	ErrMissingValue    = errors.New("missing value")
	ErrNotNumeric      = errors.New("value is not numeric")
	ErrNegativeValue   = errors.New("value is negative")
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Err     error
	// Line is the 1-based line in the CSV file, header included. Zero for
	// errors not tied to a row.
	Line int
}

// Unwrap returns the sentinel error.
func (e ValidationError) Unwrap() error {
	return e.Err
}

func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d [%s]: %s", e.Line, e.Field, e.Message)
	}

	return e.Message
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
	Stats    ValidationStats
	IsValid  bool
}

// ValidationStats contains validation statistics.
type ValidationStats struct {
	TotalRows             int
	ValidRows             int
	InvalidRows           int
	RowsWithMissing       int
	RowsWithNonNumeric    int
	RowsWithNegative      int
	RowsWithOptionalNulls int
}

// DatasetValidator validates cleaned datasets.
type DatasetValidator struct {
	required []string
}

// NewDatasetValidator creates a new validator from the configured required columns.
func NewDatasetValidator(cfg *config.Config) (*DatasetValidator, error) {
	required := normalizer.NewValidator(cfg.Cleaner.Validation.RequiredColumns).Required()
	if len(required) == 0 {
		return nil, config.ErrNoRequiredColumns
	}

	return &DatasetValidator{required: required}, nil
}

// ValidateDataset checks that every column name is normalized and every row
// holds a non-negative number in each required column.
func (v *DatasetValidator) ValidateDataset(ds *models.Dataset) *ValidationResult {
	result := &ValidationResult{
		IsValid:  true,
		Errors:   []ValidationError{},
		Warnings: []string{},
	}

	for _, name := range ds.Names() {
		if normalizer.NormalizeColumnName(name) != name {
			result.addError(ValidationError{
				Field:   name,
				Message: fmt.Sprintf("column %q is not normalized", name),
				Err:     ErrColumnNotNormal,
			})
		}
	}

	for _, name := range v.required {
		if !ds.HasColumn(name) {
			result.addError(ValidationError{
				Field:   name,
				Message: fmt.Sprintf("required column %q missing", name),
				Err:     ErrMissingColumn,
			})
		}
	}

	if !result.IsValid {
		return result
	}

	for i, row := range ds.Rows {
		result.Stats.TotalRows++

		rowErrs := v.validateRow(row, i+2, &result.Stats)
		if len(rowErrs) > 0 {
			result.Stats.InvalidRows++
			for _, e := range rowErrs {
				result.addError(e)
			}

			continue
		}

		result.Stats.ValidRows++

		if hasOptionalNull(ds, row, v.required) {
			result.Stats.RowsWithOptionalNulls++
		}
	}

	if result.Stats.TotalRows == 0 {
		result.Warnings = append(result.Warnings, "dataset has no rows")
	}

	if n := result.Stats.RowsWithOptionalNulls; n > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d rows have missing values in optional columns", n))
	}

	return result
}

// ValidateIntegrity checks the file at path against its metadata sidecar.
func (v *DatasetValidator) ValidateIntegrity(path string) *ValidationResult {
	result := &ValidationResult{
		IsValid: true,
	}

	valid, err := metadata.Verify(path)
	if !valid {
		result.addError(ValidationError{
			Message: fmt.Sprintf("integrity check failed: %v", err),
			Err:     err,
		})
	}

	return result
}

// validateRow validates a single row.
func (v *DatasetValidator) validateRow(row models.Row, line int, stats *ValidationStats) []ValidationError {
	var errs []ValidationError

	var missing, nonNumeric, negative bool

	for _, name := range v.required {
		val := row.Get(name)

		f, ok := val.Float()
		if !ok {
			if s, isText := val.Text(); isText {
				f, ok = models.ParseNumber(s)
			}
		}

		switch {
		case val.IsNull():
			missing = true
			errs = append(errs, ValidationError{
				Line:    line,
				Field:   name,
				Message: "value is missing",
				Err:     ErrMissingValue,
			})
		case !ok || math.IsInf(f, 0):
			nonNumeric = true
			errs = append(errs, ValidationError{
				Line:    line,
				Field:   name,
				Value:   val.String(),
				Message: fmt.Sprintf("value %q is not numeric", val.String()),
				Err:     ErrNotNumeric,
			})
		case f < 0:
			negative = true
			errs = append(errs, ValidationError{
				Line:    line,
				Field:   name,
				Value:   val.String(),
				Message: fmt.Sprintf("value %s is negative", val.String()),
				Err:     ErrNegativeValue,
			})
		}
	}

	if missing {
		stats.RowsWithMissing++
	}

	if nonNumeric {
		stats.RowsWithNonNumeric++
	}

	if negative {
		stats.RowsWithNegative++
	}

	return errs
}

func hasOptionalNull(ds *models.Dataset, row models.Row, required []string) bool {
	req := make(map[string]bool, len(required))
	for _, name := range required {
		req[name] = true
	}

	for _, name := range ds.Names() {
		if !req[name] && row.Get(name).IsNull() {
			return true
		}
	}

	return false
}

func (r *ValidationResult) addError(e ValidationError) {
	r.IsValid = false
	r.Errors = append(r.Errors, e)
}

// String returns string representation of validation result.
func (r *ValidationResult) String() string {
	status := "VALID"
	if !r.IsValid {
		status = "INVALID"
	}

	return fmt.Sprintf(
		"%s | Total: %d | Valid: %d | Invalid: %d | Warnings: %d",
		status,
		r.Stats.TotalRows,
		r.Stats.ValidRows,
		r.Stats.InvalidRows,
		len(r.Warnings),
	)
}

// PrintErrors prints validation errors in readable format.
func (r *ValidationResult) PrintErrors(w io.Writer) {
	if len(r.Errors) == 0 {
		return
	}

	fmt.Fprintln(w, "Validation Errors:")

	for _, err := range r.Errors {
		if err.Line > 0 {
			fmt.Fprintf(w, "  Line %d [%s]: %s\n", err.Line, err.Field, err.Message)
		} else {
			fmt.Fprintf(w, "  %s\n", err.Message)
		}
	}
}

// PrintWarnings prints validation warnings.
func (r *ValidationResult) PrintWarnings(w io.Writer) {
	if len(r.Warnings) == 0 {
		return
	}

	fmt.Fprintln(w, "Validation Warnings:")

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "  %s\n", warn)
	}
}
