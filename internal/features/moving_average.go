package features

import "price-feature-lab/internal/domain"

// MovingAverages appends, for every series and window, the rolling mean and a
// flag set when the series is above it. With 2+ distinct windows it also
// appends the short-minus-long moving-average spread per series.
func MovingAverages(t *domain.Table, columns []string, windows []int) (*domain.Table, error) {
	cols, err := Names("moving average columns", columns...)
	if err != nil {
		return nil, err
	}
	ws, err := Windows(windows)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(t, cols...); err != nil {
		return nil, err
	}

	out := t.Clone()
	for _, col := range cols {
		x, _ := t.Column(col)
		for _, w := range ws {
			ma := rollingMean(x, w)
			out.Set(MAName(col, w), ma)
			out.Set(AboveMAName(col, w), flag(len(x), func(i int) bool {
				return x[i] > ma[i]
			}))
		}
	}

	if distinctCount(ws) >= 2 {
		return MovingAverageSpreads(out, cols, ws)
	}
	return out, nil
}

// MovingAverageSpreads appends SpreadMAName(col, short, long) = ma_short - ma_long.
// The moving-average columns must already exist. Fails unless windows hold
// 2+ distinct lengths.
func MovingAverageSpreads(t *domain.Table, columns []string, windows []int) (*domain.Table, error) {
	cols, err := Names("moving average columns", columns...)
	if err != nil {
		return nil, err
	}
	short, long, err := ShortLong(windows)
	if err != nil {
		return nil, err
	}
	for _, col := range cols {
		if err := requireColumns(t, MAName(col, short), MAName(col, long)); err != nil {
			return nil, err
		}
	}

	out := t.Clone()
	for _, col := range cols {
		s, _ := t.Column(MAName(col, short))
		l, _ := t.Column(MAName(col, long))
		spread := make([]float64, len(s))
		for i := range s {
			spread[i] = s[i] - l[i]
		}
		out.Set(SpreadMAName(col, short, long), spread)
	}
	return out, nil
}
