// Package normalizer implements the cleaning stages applied to a loaded sales dataset.
package normalizer

import (
	"fmt"

	"salesclean/internal/models"
)

// Stage names, in pipeline order.
const (
	StageLoad             = "load"
	StageNormalizeColumns = "normalize_columns"
	StageTrimText         = "trim_text"
	StageDropMissing      = "drop_missing"
	StageFilterValid      = "filter_valid"
)

// DefaultRequiredColumns are the numeric fields every cleaned row must carry.
var DefaultRequiredColumns = []string{"price", "quantity"}

// Options configures a Processor.
type Options struct {
	RequiredColumns []string
	CollisionPolicy CollisionPolicy
}

// StageCount is the row count after a stage.
type StageCount struct {
	Stage string
	Rows  int
}

// Report summarizes one Process call.
type Report struct {
	RowsIn            int
	RowsOut           int
	DroppedMissing    int
	DroppedNonNumeric int
	DroppedNegative   int
	Stages            []StageCount
	Collisions        []Collision
}

// Dropped returns the total number of rows removed.
func (r *Report) Dropped() int {
	return r.DroppedMissing + r.DroppedNonNumeric + r.DroppedNegative
}

func (r *Report) record(stage string, ds *models.Dataset) {
	r.Stages = append(r.Stages, StageCount{Stage: stage, Rows: ds.Len()})
}

// Processor runs the cleaning stages in order: normalize columns, trim text,
// drop missing, filter invalid.
type Processor struct {
	validator   *Validator
	transformer *Transformer
	policy      CollisionPolicy
}

// NewProcessor creates a new processor instance. Empty required columns fall
// back to DefaultRequiredColumns.
func NewProcessor(opts Options) *Processor {
	required := opts.RequiredColumns
	if len(required) == 0 {
		required = DefaultRequiredColumns
	}

	policy := opts.CollisionPolicy
	if policy == "" {
		policy = CollisionFail
	}

	return &Processor{
		validator:   NewValidator(required),
		transformer: NewTransformer(),
		policy:      policy,
	}
}

// Required returns the normalized required column names.
func (p *Processor) Required() []string {
	return p.validator.Required()
}

// Process cleans a raw dataset. The input is left unmodified. Only a column
// collision or a missing required column fails; everything else filters.
func (p *Processor) Process(raw *models.Dataset) (*models.Dataset, *Report, error) {
	report := &Report{RowsIn: raw.Len()}
	report.record(StageLoad, raw)

	// 1. Canonical column names
	ds, collisions, err := NormalizeColumns(raw, p.policy)
	if err != nil {
		return nil, nil, fmt.Errorf("normalize columns: %w", err)
	}

	report.Collisions = collisions
	report.record(StageNormalizeColumns, ds)

	if err := p.validator.CheckSchema(ds); err != nil {
		return nil, nil, fmt.Errorf("schema check: %w", err)
	}

	// 2. Whitespace
	ds = p.transformer.TrimText(ds)
	report.record(StageTrimText, ds)

	// 3. Nulls in required columns
	before := ds.Len()
	ds = p.validator.DropMissing(ds)
	report.DroppedMissing = before - ds.Len()
	report.record(StageDropMissing, ds)

	// 4. Numeric coercion and sign
	ds, stats := p.validator.FilterValid(ds)
	report.DroppedNonNumeric = stats.NonNumeric
	report.DroppedNegative = stats.Negative
	report.record(StageFilterValid, ds)

	report.RowsOut = ds.Len()

	return ds, report, nil
}
