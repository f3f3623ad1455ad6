package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Errors returned by Table validation.
var (
	ErrUnorderedDates = errors.New("dates must be strictly increasing")
	ErrUnknownColumn  = errors.New("unknown column")
)

// Table is a chronologically ordered set of named float64 columns indexed by date.
// NaN marks an undefined value.
//
// Column slices are never written in place once stored: Set replaces the slice,
// so a Clone can share storage with its source safely.
type Table struct {
	dates   []time.Time
	columns []string
	values  map[string][]float64
}

// NewTable creates an empty table over the given dates.
func NewTable(dates []time.Time) *Table {
	d := make([]time.Time, len(dates))
	copy(d, dates)
	return &Table{
		dates:  d,
		values: make(map[string][]float64),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.dates)
}

// Dates returns a copy of the date index.
func (t *Table) Dates() []time.Time {
	d := make([]time.Time, len(t.dates))
	copy(d, t.dates)
	return d
}

// Date returns the date at row i.
func (t *Table) Date(i int) time.Time {
	return t.dates[i]
}

// Columns returns column names in insertion order.
func (t *Table) Columns() []string {
	c := make([]string, len(t.columns))
	copy(c, t.columns)
	return c
}

// Has reports whether the named column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.values[name]
	return ok
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]float64, bool) {
	v, ok := t.values[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out, true
}

// Value returns the value of column name at row i, NaN if the column is absent.
func (t *Table) Value(name string, i int) float64 {
	v, ok := t.values[name]
	if !ok {
		return math.NaN()
	}
	return v[i]
}

// Set stores values under name, appending the column if it is new.
// Set panics if len(values) != t.Len().
func (t *Table) Set(name string, values []float64) {
	if len(values) != len(t.dates) {
		panic(fmt.Sprintf("column %q has %d values, table has %d rows", name, len(values), len(t.dates)))
	}
	if _, ok := t.values[name]; !ok {
		t.columns = append(t.columns, name)
	}
	t.values[name] = values
}

// Drop removes the named columns. Unknown names are ignored.
func (t *Table) Drop(names ...string) {
	for _, name := range names {
		if _, ok := t.values[name]; !ok {
			continue
		}
		delete(t.values, name)
		for i, c := range t.columns {
			if c == name {
				t.columns = append(t.columns[:i:i], t.columns[i+1:]...)
				break
			}
		}
	}
}

// Rename renames a column in place, keeping its position.
func (t *Table) Rename(from, to string) error {
	v, ok := t.values[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, from)
	}
	if from == to {
		return nil
	}
	if _, exists := t.values[to]; exists {
		t.Drop(to)
	}
	delete(t.values, from)
	t.values[to] = v
	for i, c := range t.columns {
		if c == from {
			t.columns[i] = to
			break
		}
	}
	return nil
}

// Clone returns a table sharing column storage with t.
func (t *Table) Clone() *Table {
	out := &Table{
		dates:   t.dates,
		columns: make([]string, len(t.columns)),
		values:  make(map[string][]float64, len(t.values)),
	}
	copy(out.columns, t.columns)
	for k, v := range t.values {
		out.values[k] = v
	}
	return out
}

// FilterRows returns a new table holding only the rows for which keep returns true.
func (t *Table) FilterRows(keep func(i int) bool) *Table {
	var idx []int
	for i := range t.dates {
		if keep(i) {
			idx = append(idx, i)
		}
	}

	dates := make([]time.Time, len(idx))
	for j, i := range idx {
		dates[j] = t.dates[i]
	}

	out := &Table{
		dates:   dates,
		columns: make([]string, len(t.columns)),
		values:  make(map[string][]float64, len(t.values)),
	}
	copy(out.columns, t.columns)
	for name, v := range t.values {
		col := make([]float64, len(idx))
		for j, i := range idx {
			col[j] = v[i]
		}
		out.values[name] = col
	}
	return out
}

// RowDefined reports whether every column holds a defined value at row i.
func (t *Table) RowDefined(i int) bool {
	for _, v := range t.values {
		if math.IsNaN(v[i]) {
			return false
		}
	}
	return true
}

// DropUndefined returns a new table without any row holding an undefined value.
func (t *Table) DropUndefined() *Table {
	return t.FilterRows(t.RowDefined)
}

// UndefinedCount returns the number of NaN cells across all columns.
func (t *Table) UndefinedCount() int {
	n := 0
	for _, v := range t.values {
		for _, x := range v {
			if math.IsNaN(x) {
				n++
			}
		}
	}
	return n
}

// Validate checks that dates are strictly increasing.
func (t *Table) Validate() error {
	for i := 1; i < len(t.dates); i++ {
		if !t.dates[i].After(t.dates[i-1]) {
			return fmt.Errorf("%w: row %d (%s) follows %s", ErrUnorderedDates, i,
				t.dates[i].Format(DateLayout), t.dates[i-1].Format(DateLayout))
		}
	}
	return nil
}

// Rows converts the table into per-date feature rows, in date order.
func (t *Table) Rows() []*FeatureRow {
	rows := make([]*FeatureRow, len(t.dates))
	for i, d := range t.dates {
		values := make(map[string]float64, len(t.columns))
		for _, c := range t.columns {
			values[c] = t.values[c][i]
		}
		rows[i] = &FeatureRow{Date: d, Values: values}
	}
	return rows
}
