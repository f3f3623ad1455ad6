package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingAverages_MeanFlagAndSpread(t *testing.T) {
	x := []float64{1, 2, 3, 4, 10, 2}
	tbl := newTable(t, 6, map[string][]float64{"x": x})

	out, err := MovingAverages(tbl, []string{"x"}, []int{2, 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "x_ma_2", "x_above_ma_2", "x_ma_3", "x_above_ma_3", "x_spread_ma_2_3"}, out.Columns())
	assertSeries(t, []float64{nan, 1.5, 2.5, 3.5, 7, 6}, column(t, out, "x_ma_2"))
	assertSeries(t, []float64{nan, nan, 2, 3, 17.0 / 3, 16.0 / 3}, column(t, out, "x_ma_3"))
	assertSeries(t, []float64{0, 1, 1, 1, 1, 0}, column(t, out, "x_above_ma_2"))
	assertSeries(t, []float64{nan, nan, 0.5, 0.5, 7 - 17.0/3, 6 - 16.0/3}, column(t, out, "x_spread_ma_2_3"))
}

func TestMovingAverages_PipelineWindows(t *testing.T) {
	n := 100
	tbl := newTable(t, n, map[string][]float64{"p": randomWalk(7, n, 50)})

	out, err := MovingAverages(tbl, []string{"p"}, []int{5, 22, 63})
	require.NoError(t, err)

	ma5 := column(t, out, MAName("p", 5))
	ma63 := column(t, out, MAName("p", 63))
	spread := column(t, out, SpreadMAName("p", 5, 63))
	for i := 62; i < n; i++ {
		assert.InDelta(t, ma5[i]-ma63[i], spread[i], 1e-12, "row %d", i)
	}
	assert.False(t, out.Has("p_spread_ma_5_22"), "only the shortest and longest windows are compared")
}

func TestMovingAverages_SingleWindowSkipsSpread(t *testing.T) {
	tbl := newTable(t, 4, map[string][]float64{"x": {1, 2, 3, 4}})

	out, err := MovingAverages(tbl, []string{"x"}, []int{2, 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "x_ma_2", "x_above_ma_2"}, out.Columns())
}

func TestMovingAverageSpreads_Errors(t *testing.T) {
	tbl := newTable(t, 4, map[string][]float64{"x": {1, 2, 3, 4}})

	_, err := MovingAverageSpreads(tbl, []string{"x"}, []int{5})
	assert.ErrorIs(t, err, ErrInvalidConfig, "insufficient window count")

	_, err = MovingAverageSpreads(tbl, []string{"x"}, []int{2, 5})
	assert.ErrorIs(t, err, ErrInvalidConfig, "moving averages not computed yet")

	_, err = MovingAverages(tbl, nil, []int{2})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = MovingAverages(tbl, []string{"x"}, []int{0})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
