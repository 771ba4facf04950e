package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"salesclean/internal/models"
)

// WriteOptions controls how a dataset is persisted.
type WriteOptions struct {
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
	// CreateDirs creates missing parent directories of the output path.
	CreateDirs bool
}

// Write renders the dataset as CSV: header first, no index column, nulls as empty cells.
func Write(w io.Writer, ds *models.Dataset, opts WriteOptions) error {
	cw := csv.NewWriter(w)
	if opts.Delimiter != 0 {
		cw.Comma = opts.Delimiter
	}

	if err := cw.WriteAll(ds.Records()); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkUnwritable, err)
	}

	return nil
}

// Save writes the dataset to path. The file is written beside the target and
// renamed into place, so a failed save never leaves a partial output.
func Save(path string, ds *models.Dataset, opts WriteOptions) (err error) {
	dir := filepath.Dir(path)

	if opts.CreateDirs {
		if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
			return fmt.Errorf("%w: %w", ErrSinkUnwritable, mkErr)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSinkUnwritable, err)
	}

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = Write(tmp, ds, opts); err != nil {
		return err
	}

	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkUnwritable, err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkUnwritable, err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkUnwritable, err)
	}

	return nil
}
