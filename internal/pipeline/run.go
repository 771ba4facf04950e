// Package pipeline wires loading, cleaning, saving and signing into one run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"salesclean/internal/config"
	"salesclean/internal/csvio"
	"salesclean/internal/logger"
	"salesclean/internal/models"
	"salesclean/internal/normalizer"
	"salesclean/internal/validator"
	"salesclean/pkg/metadata"
)

// Result describes a completed run.
type Result struct {
	RunID      string
	OutputPath string
	Cleaned    *models.Dataset
	Report     *normalizer.Report
	// Manifest is nil when manifests are disabled.
	Manifest *metadata.Metadata
	Duration time.Duration
}

// Run reads the configured source, cleans it, writes the sink and, when
// enabled, signs it with a metadata sidecar. Nothing is written if loading or
// cleaning fails.
func Run(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Result, error) {
	runStart := time.Now()
	runID := uuid.NewString()
	log = log.With("run_id", runID)

	c := cfg.Cleaner

	inDelim, err := config.ParseDelimiter(c.Input.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("input delimiter: %w", err)
	}

	outDelim, err := config.ParseDelimiter(c.Output.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("output delimiter: %w", err)
	}

	policy, err := normalizer.ParseCollisionPolicy(c.Validation.CollisionPolicy)
	if err != nil {
		return nil, err
	}

	log.Info("run start", "input", c.Input.Path, "output", c.Output.Path, "required", c.Validation.RequiredColumns)

	readStart := time.Now()
	raw, err := csvio.Load(c.Input.Path, csvio.ReadOptions{Delimiter: inDelim, NAValues: c.Input.NAValues})
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	log.Info("loaded source", "rows", raw.Len(), "columns", len(raw.Columns), "duration", time.Since(readStart).Round(time.Millisecond))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	processor := normalizer.NewProcessor(normalizer.Options{
		RequiredColumns: c.Validation.RequiredColumns,
		CollisionPolicy: policy,
	})

	cleaned, report, err := processor.Process(raw)
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}

	for _, col := range report.Collisions {
		log.Warn("column name collision", "column", col.Name, "sources", col.Sources)
	}

	for _, sc := range report.Stages {
		log.Debug("stage complete", "stage", sc.Stage, "rows", sc.Rows)
	}

	log.Info("cleaned",
		"rows_in", report.RowsIn,
		"rows_out", report.RowsOut,
		"dropped_missing", report.DroppedMissing,
		"dropped_non_numeric", report.DroppedNonNumeric,
		"dropped_negative", report.DroppedNegative,
	)

	if report.RowsOut == 0 {
		log.Warn("no rows survived cleaning")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := csvio.Save(c.Output.Path, cleaned, csvio.WriteOptions{Delimiter: outDelim, CreateDirs: c.Output.CreateDirs}); err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}

	log.Info("saved output", "path", c.Output.Path, "rows", cleaned.Len())

	result := &Result{
		RunID:      runID,
		OutputPath: c.Output.Path,
		Cleaned:    cleaned,
		Report:     report,
	}

	if c.Output.Manifest {
		meta, err := sign(cfg, outDelim, runID, report, cleaned, log)
		if err != nil {
			return nil, err
		}

		result.Manifest = meta
	}

	result.Duration = time.Since(runStart)
	log.Info("run complete", "duration", result.Duration.Round(time.Millisecond))

	return result, nil
}

// sign re-reads the written output, validates it and writes its sidecar.
func sign(cfg *config.Config, delim rune, runID string, report *normalizer.Report, cleaned *models.Dataset, log *logger.Logger) (*metadata.Metadata, error) {
	path := cfg.Cleaner.Output.Path

	written, err := csvio.Load(path, csvio.ReadOptions{Delimiter: delim})
	if err != nil {
		return nil, fmt.Errorf("reload output: %w", err)
	}

	v, err := validator.NewDatasetValidator(cfg)
	if err != nil {
		return nil, err
	}

	check := v.ValidateDataset(written)
	if !check.IsValid {
		log.Warn("output failed validation", "errors", len(check.Errors), "summary", check.String())
	}

	meta, err := metadata.Sign(path, check.IsValid, &metadata.Metadata{
		RunID:   runID,
		Source:  cfg.Cleaner.Input.Path,
		RowsIn:  report.RowsIn,
		RowsOut: report.RowsOut,
		Columns: cleaned.Names(),
	})
	if err != nil {
		return nil, fmt.Errorf("sign output: %w", err)
	}

	log.Info("signed output", "manifest", metadata.SidecarPath(path), "hash", meta.Hash, "validated", meta.Validation)

	return meta, nil
}
