package models

// ColumnKind distinguishes textual from numeric columns.
type ColumnKind int

// Column kinds.
const (
	ColumnText ColumnKind = iota
	ColumnNumeric
)

// String returns a short name for the kind.
func (k ColumnKind) String() string {
	if k == ColumnNumeric {
		return "numeric"
	}

	return "text"
}

// Column describes one named column of a Dataset.
type Column struct {
	Name string
	Kind ColumnKind
}

// Row is a single sale record keyed by column name.
type Row map[string]Value

// Get returns the value stored under name, or Null if absent.
func (r Row) Get(name string) Value {
	if v, ok := r[name]; ok {
		return v
	}

	return Null()
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}

	return out
}

// Dataset is an ordered sequence of rows sharing a fixed set of columns.
type Dataset struct {
	Columns []Column
	Rows    []Row
}

// NewDataset creates an empty dataset with the given columns.
func NewDataset(columns []Column) *Dataset {
	cols := make([]Column, len(columns))
	copy(cols, columns)

	return &Dataset{Columns: cols}
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Names returns the column names in order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}

	return names
}

// Column looks up a column by name.
func (d *Dataset) Column(name string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}

	return Column{}, false
}

// HasColumn reports whether a column with the given name exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.Column(name)
	return ok
}

// SetKind changes the kind of the named column. It is a no-op if the column is absent.
func (d *Dataset) SetKind(name string, kind ColumnKind) {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			d.Columns[i].Kind = kind
			return
		}
	}
}

// Append adds a row.
func (d *Dataset) Append(r Row) {
	d.Rows = append(d.Rows, r)
}

// Head returns a dataset holding at most the first n rows. Rows are shared.
func (d *Dataset) Head(n int) *Dataset {
	out := NewDataset(d.Columns)
	if n > len(d.Rows) {
		n = len(d.Rows)
	}

	if n > 0 {
		out.Rows = append(out.Rows, d.Rows[:n]...)
	}

	return out
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	out := NewDataset(d.Columns)
	out.Rows = make([]Row, len(d.Rows))

	for i, r := range d.Rows {
		out.Rows[i] = r.Clone()
	}

	return out
}

// Records renders the dataset as string records, header first.
func (d *Dataset) Records() [][]string {
	records := make([][]string, 0, len(d.Rows)+1)
	records = append(records, d.Names())

	for _, r := range d.Rows {
		rec := make([]string, len(d.Columns))
		for i, c := range d.Columns {
			rec[i] = r.Get(c.Name).String()
		}

		records = append(records, rec)
	}

	return records
}
