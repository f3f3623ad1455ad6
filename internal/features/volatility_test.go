package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// returnsTable builds a table of log-returns for a primary and auxiliary asset.
func returnsTable(t *testing.T, n int) map[string][]float64 {
	t.Helper()
	cols := map[string][]float64{}
	for name, seed := range map[string]int64{"r": 1, "a": 2} {
		prices := randomWalk(seed, n, 20)
		tbl := newTable(t, n, map[string][]float64{"p": prices})
		out, err := LogReturns(tbl, "p")
		require.NoError(t, err)
		cols[name] = column(t, out, LogReturnName("p"))
	}
	return cols
}

func TestVolatilityFeatures_PrimaryOnly(t *testing.T) {
	cols := returnsTable(t, 120)
	tbl := newTable(t, 120, map[string][]float64{"r": cols["r"]})

	out, err := VolatilityFeatures(tbl, "r", nil, []int{5, 22, 63})
	require.NoError(t, err)

	for _, name := range []string{"r_vol_5", "r_vol_22", "r_vol_63", "r_vol_ratio_5_63", "r_high_vol_regime", "r_low_vol_regime"} {
		assert.True(t, out.Has(name), "missing %s", name)
	}

	want := ewmStd(cols["r"], 22, 22)
	got := column(t, out, VolName("r", 22))
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.True(t, math.IsNaN(got[i]))
			continue
		}
		assert.InDelta(t, want[i]*math.Sqrt(252), got[i], 1e-12)
	}

	// min periods = window: log-returns start at row 1, so vol_63 starts at row 63
	vol63 := column(t, out, VolName("r", 63))
	assert.True(t, math.IsNaN(vol63[62]))
	assert.False(t, math.IsNaN(vol63[63]))

	ratio := column(t, out, VolRatioName("r", 5, 63))
	v5 := column(t, out, VolName("r", 5))
	assert.InDelta(t, v5[100]/vol63[100], ratio[100], 1e-12)
}

func TestVolatilityFeatures_WithAuxiliary(t *testing.T) {
	n := 200
	cols := returnsTable(t, n)
	tbl := newTable(t, n, cols)

	out, err := VolatilityFeatures(tbl, "r", []string{"a"}, []int{5, 22})
	require.NoError(t, err)

	spread := column(t, out, VolSpreadName("r", "a", 5))
	rv := column(t, out, VolName("r", 5))
	av := column(t, out, VolName("a", 5))
	assert.InDelta(t, rv[50]-av[50], spread[50], 1e-12)

	assert.True(t, out.Has("a_vol_ratio_5_22"))
	corr := column(t, out, VolCorrName("r", "a", 22))
	// vol_22 defined from row 22, correlation needs 22 defined pairs
	assert.True(t, math.IsNaN(corr[42]))
	assert.False(t, math.IsNaN(corr[43]))
	assert.LessOrEqual(t, math.Abs(corr[100]), 1.0+1e-12)
	assert.False(t, out.Has(VolCorrName("r", "a", 5)), "correlation uses the largest window only")
}

func TestVolatilityFeatures_SingleWindowHasNoRatio(t *testing.T) {
	cols := returnsTable(t, 40)
	tbl := newTable(t, 40, map[string][]float64{"r": cols["r"]})

	out, err := VolatilityFeatures(tbl, "r", nil, []int{10})
	require.NoError(t, err)
	assert.True(t, out.Has("r_vol_10"))
	for _, c := range out.Columns() {
		assert.NotContains(t, c, "ratio")
	}
}

func TestVolatilityRatios_NeedsTwoWindows(t *testing.T) {
	tbl := newTable(t, 3, map[string][]float64{"r_vol_5": {1, 2, 3}})

	_, err := VolatilityRatios(tbl, []string{"r"}, []int{5})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = VolatilityRatios(tbl, []string{"r"}, []int{5, 5})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestVolatilityFeatures_RegimeFlags(t *testing.T) {
	n := 600
	cols := returnsTable(t, n)
	// volatility clustering: calm first half, turbulent second half
	r := cols["r"]
	for i := n / 2; i < n; i++ {
		r[i] *= 4
	}
	tbl := newTable(t, n, map[string][]float64{"r": r, "a": cols["a"]})

	out, err := VolatilityFeatures(tbl, "r", []string{"a"}, []int{5, 22})
	require.NoError(t, err)

	for _, asset := range []string{"r", "a"} {
		high := column(t, out, HighVolRegimeName(asset))
		low := column(t, out, LowVolRegimeName(asset))
		for i := range high {
			assert.False(t, high[i] == 1 && low[i] == 1, "%s row %d flagged high and low", asset, i)
		}
		// vol_22 starts at row 22, percentiles need 201 defined values
		firstDefined := 22 + RegimeMinPeriods - 1
		for i := 0; i < firstDefined; i++ {
			assert.Zero(t, high[i], "%s row %d", asset, i)
			assert.Zero(t, low[i], "%s row %d", asset, i)
		}
	}

	high := column(t, out, HighVolRegimeName("r"))
	highCount := 0
	for i := n / 2; i < n/2+60; i++ {
		highCount += int(high[i])
	}
	assert.Greater(t, highCount, 30, "volatility jump must enter the high regime")
}

func TestVolatilityFeatures_InvalidArguments(t *testing.T) {
	tbl := newTable(t, 3, map[string][]float64{"r": {nan, 0.1, 0.2}})

	_, err := VolatilityFeatures(tbl, "", nil, []int{5})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = VolatilityFeatures(tbl, "r", []string{"missing"}, []int{5})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = VolatilityFeatures(tbl, "r", []string{""}, []int{5})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = VolatilityFeatures(tbl, "r", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
