package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndicatorDiffs_RateBecomesEvent(t *testing.T) {
	tbl := newTable(t, 6, map[string][]float64{
		"selic": {10, 10, 10.5, 10.5, 10.5, 11},
		"ipca":  {4, 4.5, 4.5, 5, 5, 5},
	})

	out, err := IndicatorDiffs(tbl, map[string]string{"selic": "432", "ipca": "433"}, []int{1, 2})
	require.NoError(t, err)

	assert.False(t, out.Has("diff_selic"))
	assert.True(t, out.Has("diff_ipca"))
	assertSeries(t, []float64{nan, 0.5, 0, 0.5, 0, 0}, column(t, out, "diff_ipca"))

	assertSeries(t, []float64{0, 0, 1, 0, 0, 1}, column(t, out, "selic_event"))
	assertSeries(t, []float64{nan, 0, 0, 1, 0, 0}, column(t, out, "selic_event_lag_1"))
	assertSeries(t, []float64{nan, nan, 0, 0, 1, 0}, column(t, out, "selic_event_lag_2"))
}

func TestIndicatorDiffs_RateNameIsCaseInsensitive(t *testing.T) {
	tbl := newTable(t, 3, map[string][]float64{"SELIC": {1, 2, 2}})

	out, err := IndicatorDiffs(tbl, map[string]string{"SELIC": "432"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"SELIC", "SELIC_event"}, out.Columns())
	assertSeries(t, []float64{0, 1, 0}, column(t, out, "SELIC_event"))
}

func TestIndicatorDiffs_SortedOrderWithoutRate(t *testing.T) {
	tbl := newTable(t, 3, map[string][]float64{"b": {1, 2, 4}, "a": {3, 2, 1}})

	out, err := IndicatorDiffs(tbl, map[string]string{"b": "2", "a": "1"}, []int{1})
	require.NoError(t, err)

	cols := out.Columns()
	assert.Equal(t, []string{"diff_a", "diff_b"}, cols[len(cols)-2:])
	assert.False(t, out.Has("diff_a_lag_1"), "lags apply only to the rate event")
}

func TestIndicatorDiffs_Errors(t *testing.T) {
	tbl := newTable(t, 3, map[string][]float64{"a": {1, 2, 3}})

	_, err := IndicatorDiffs(tbl, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = IndicatorDiffs(tbl, map[string]string{"missing": "1"}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = IndicatorDiffs(tbl, map[string]string{"": "1"}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
