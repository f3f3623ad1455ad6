package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketRegimes_Thresholds(t *testing.T) {
	level := []float64{12, 16, 20, 30, 24, 14}
	ret := make([]float64, len(level))
	ret[0] = nan
	for i := 1; i < len(level); i++ {
		ret[i] = math.Log(level[i] / level[i-1])
	}
	tbl := newTable(t, len(level), map[string][]float64{DefaultVIX: level, DefaultVIXRet: ret})

	out, err := MarketRegimes(tbl, DefaultVIX, DefaultVIXRet)
	require.NoError(t, err)

	assertSeries(t, []float64{1, 0, 0, 0, 0, 1}, column(t, out, VIXLowColumn))
	assertSeries(t, []float64{0, 0, 0, 1, 0, 0}, column(t, out, VIXHighColumn))
	// changes: +33%, +25%, +50%, -20%, -42%
	assertSeries(t, []float64{0, 1, 1, 1, 0, 0}, column(t, out, VIXSpikeColumn))
	// log-returns: ln(24/30) = -0.223, ln(14/24) = -0.539
	assertSeries(t, []float64{0, 0, 0, 0, 1, 1}, column(t, out, VIXCalmColumn))
}

func TestMarketRegimes_BoundariesAreExclusive(t *testing.T) {
	tbl := newTable(t, 2, map[string][]float64{
		"lvl": {15, 25},
		"ret": {nan, math.Log(25.0 / 15)},
	})

	out, err := MarketRegimes(tbl, "lvl", "ret")
	require.NoError(t, err)
	assertSeries(t, []float64{0, 0}, column(t, out, VIXLowColumn))
	assertSeries(t, []float64{0, 0}, column(t, out, VIXHighColumn))
}

func TestMarketRegimes_MissingColumns(t *testing.T) {
	tbl := newTable(t, 2, map[string][]float64{"lvl": {15, 25}})

	_, err := MarketRegimes(tbl, "lvl", "ret")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = MarketRegimes(tbl, "", "ret")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
