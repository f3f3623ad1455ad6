package features

import "price-feature-lab/internal/domain"

// Lags appends, for every (column, lag) pair, the column shifted back by lag
// rows as LagName(column, lag). The first lag rows of each new column are
// undefined.
//
// Columns are expected to be stationary transforms (log-returns, log-volume);
// raw price levels are not rejected here.
func Lags(t *domain.Table, columns []string, lags []int) (*domain.Table, error) {
	cols, err := Names("lag columns", columns...)
	if err != nil {
		return nil, err
	}
	lagSet, err := LagSet(lags)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(t, cols...); err != nil {
		return nil, err
	}

	out := t.Clone()
	for _, col := range cols {
		values, _ := t.Column(col)
		for _, lag := range lagSet {
			out.Set(LagName(col, lag), shift(values, lag))
		}
	}
	return out, nil
}
