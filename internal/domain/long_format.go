package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// LongFormat flattens the table into one FeatureValue per defined cell,
// ordered by date then column order.
func (t *Table) LongFormat(runID string) []*FeatureValue {
	out := make([]*FeatureValue, 0, len(t.dates)*len(t.columns))
	for i, d := range t.dates {
		for _, c := range t.columns {
			v := t.values[c][i]
			if math.IsNaN(v) {
				continue
			}
			out = append(out, &FeatureValue{RunID: runID, Date: d, Column: c, Value: v})
		}
	}
	return out
}

// TableFromLongFormat rebuilds a table from long-format values. columns sets
// the column order; values for columns not listed are an error. Cells with no
// value are undefined.
func TableFromLongFormat(values []*FeatureValue, columns []string) (*Table, error) {
	known := make(map[string]int, len(columns))
	for i, c := range columns {
		known[c] = i
	}

	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for _, v := range values {
		if _, ok := known[v.Column]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, v.Column)
		}
		d := v.Date.UTC()
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	row := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		row[d] = i
	}

	cols := make([][]float64, len(columns))
	for i := range cols {
		cols[i] = make([]float64, len(dates))
		for j := range cols[i] {
			cols[i][j] = math.NaN()
		}
	}
	for _, v := range values {
		cols[known[v.Column]][row[v.Date.UTC()]] = v.Value
	}

	t := NewTable(dates)
	for i, c := range columns {
		t.Set(c, cols[i])
	}
	return t, nil
}
