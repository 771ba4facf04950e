package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"salesclean/internal/models"
)

// DefaultNAValues are the cell contents loaded as missing.
var DefaultNAValues = []string{
	"", "NA", "N/A", "n/a", "NaN", "nan", "-NaN", "-nan",
	"null", "NULL", "None", "#N/A", "<NA>",
}

const utf8BOM = "\ufeff"

// ReadOptions controls how a source is parsed.
type ReadOptions struct {
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
	// NAValues lists cell contents treated as missing. Nil means DefaultNAValues.
	NAValues []string
}

func (o ReadOptions) withDefaults() ReadOptions {
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}

	if o.NAValues == nil {
		o.NAValues = DefaultNAValues
	}

	return o
}

// Load opens the file at path and reads it as a dataset.
func Load(path string, opts ReadOptions) (*models.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}

		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}

	defer f.Close()

	ds, err := Read(f, opts)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}

		return nil, err
	}

	return ds, nil
}

// Read parses a delimited stream whose first record is the header.
//
// Cells matching an NA value load as null. A column whose non-null cells all
// parse as finite numbers is numeric; any other column keeps its raw strings.
func Read(r io.Reader, opts ReadOptions) (*models.Dataset, error) {
	opts = opts.withDefaults()

	cr := csv.NewReader(r)
	cr.Comma = opts.Delimiter
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Line: 1, Err: errEmptySource}
	}

	if err != nil {
		return nil, readErr(err)
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	names := mangleHeader(header)

	na := make(map[string]struct{}, len(opts.NAValues))
	for _, v := range opts.NAValues {
		na[v] = struct{}{}
	}

	var cells [][]*string

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, readErr(err)
		}

		if len(rec) > len(names) {
			line, _ := cr.FieldPos(0)

			return nil, &ParseError{
				Line: line,
				Err:  fmt.Errorf("expected %d fields, saw %d", len(names), len(rec)),
			}
		}

		row := make([]*string, len(names))
		for i, raw := range rec {
			if _, missing := na[raw]; missing {
				continue
			}

			s := raw
			row[i] = &s
		}

		cells = append(cells, row)
	}

	return build(names, cells), nil
}

func build(names []string, cells [][]*string) *models.Dataset {
	cols := make([]models.Column, len(names))
	for i, name := range names {
		cols[i] = models.Column{Name: name, Kind: inferKind(cells, i)}
	}

	ds := models.NewDataset(cols)
	ds.Rows = make([]models.Row, 0, len(cells))

	for _, rec := range cells {
		row := make(models.Row, len(cols))

		for i, c := range cols {
			raw := rec[i]

			switch {
			case raw == nil:
				row[c.Name] = models.Null()
			case c.Kind == models.ColumnNumeric:
				row[c.Name], _ = models.NumberFromText(*raw)
			default:
				row[c.Name] = models.Text(*raw)
			}
		}

		ds.Rows = append(ds.Rows, row)
	}

	return ds
}

func inferKind(cells [][]*string, col int) models.ColumnKind {
	for _, rec := range cells {
		if rec[col] == nil {
			continue
		}

		if _, ok := models.ParseNumber(*rec[col]); !ok {
			return models.ColumnText
		}
	}

	return models.ColumnNumeric
}

// mangleHeader names empty columns "Unnamed: <i>" and suffixes repeats as
// name.1, name.2, ... so every column name is unique.
func mangleHeader(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	repeats := make(map[string]int)

	for i, h := range header {
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}

		name := h
		for used[name] {
			repeats[h]++
			name = h + "." + strconv.Itoa(repeats[h])
		}

		used[name] = true
		names[i] = name
	}

	return names
}

func readErr(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}

	return fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
}
