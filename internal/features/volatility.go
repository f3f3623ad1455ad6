package features

import (
	"math"

	"price-feature-lab/internal/domain"
)

const (
	// TradingDaysPerYear annualizes daily volatility.
	TradingDaysPerYear = 252

	// RegimeWindow is the rolling window (one trading year) of the volatility
	// percentiles that define high/low regimes.
	RegimeWindow = 252

	// RegimeMinPeriods is 80% of RegimeWindow.
	RegimeMinPeriods = RegimeWindow * 8 / 10

	highRegimeQuantile = 0.75
	lowRegimeQuantile  = 0.25
)

// VolatilityFeatures derives, for the primary series and every auxiliary series:
//   - annualized EWM volatility per window (min periods = window)
//   - short/long volatility ratio when windows hold 2+ distinct lengths
//   - volatility spread primary - auxiliary per window
//   - rolling correlation of primary and auxiliary volatility at the largest window
//   - high/low volatility regime flags from a 252-row rolling 75th/25th percentile
//     of the largest-window volatility
//
// The auxiliary list may be empty.
func VolatilityFeatures(t *domain.Table, primary string, auxiliaries []string, windows []int) (*domain.Table, error) {
	if primary == "" {
		return nil, configErrorf("primary series must not be empty")
	}
	for _, a := range auxiliaries {
		if a == "" {
			return nil, configErrorf("auxiliary series must not contain an empty name")
		}
	}
	ws, err := Windows(windows)
	if err != nil {
		return nil, err
	}
	assets := append([]string{primary}, auxiliaries...)
	if err := requireColumns(t, assets...); err != nil {
		return nil, err
	}

	out := t.Clone()
	annualize := math.Sqrt(TradingDaysPerYear)
	for _, asset := range assets {
		x, _ := t.Column(asset)
		for _, w := range ws {
			vol := ewmStd(x, w, w)
			for i := range vol {
				vol[i] *= annualize
			}
			out.Set(VolName(asset, w), vol)
		}
	}

	if distinctCount(ws) >= 2 {
		if out, err = VolatilityRatios(out, assets, ws); err != nil {
			return nil, err
		}
	}

	for _, aux := range auxiliaries {
		for _, w := range ws {
			pv, _ := out.Column(VolName(primary, w))
			av, _ := out.Column(VolName(aux, w))
			spread := make([]float64, len(pv))
			for i := range pv {
				spread[i] = pv[i] - av[i]
			}
			out.Set(VolSpreadName(primary, aux, w), spread)
		}
	}

	long := MaxInt(ws)
	for _, aux := range auxiliaries {
		pv, _ := out.Column(VolName(primary, long))
		av, _ := out.Column(VolName(aux, long))
		out.Set(VolCorrName(primary, aux, long), rollingCorr(pv, av, long))
	}

	for _, asset := range assets {
		vol, _ := out.Column(VolName(asset, long))
		high, low := volatilityRegimes(vol)
		out.Set(HighVolRegimeName(asset), high)
		out.Set(LowVolRegimeName(asset), low)
	}

	return out, nil
}

// VolatilityRatios appends VolRatioName(col, short, long) = vol_short / vol_long
// for every column, using the minimum and maximum window. The volatility
// columns must already exist. Fails unless windows hold 2+ distinct lengths.
func VolatilityRatios(t *domain.Table, columns []string, windows []int) (*domain.Table, error) {
	cols, err := Names("volatility ratio columns", columns...)
	if err != nil {
		return nil, err
	}
	short, long, err := ShortLong(windows)
	if err != nil {
		return nil, err
	}
	for _, col := range cols {
		if err := requireColumns(t, VolName(col, short), VolName(col, long)); err != nil {
			return nil, err
		}
	}

	out := t.Clone()
	for _, col := range cols {
		sv, _ := t.Column(VolName(col, short))
		lv, _ := t.Column(VolName(col, long))
		ratio := make([]float64, len(sv))
		for i := range sv {
			ratio[i] = sv[i] / lv[i]
		}
		out.Set(VolRatioName(col, short, long), ratio)
	}
	return out, nil
}

// volatilityRegimes flags vol above its rolling 75th percentile (high) and
// below its rolling 25th percentile (low). Rows where the percentile is
// undefined are flagged 0.
func volatilityRegimes(vol []float64) (high, low []float64) {
	q75 := rollingQuantile(vol, RegimeWindow, RegimeMinPeriods, highRegimeQuantile)
	q25 := rollingQuantile(vol, RegimeWindow, RegimeMinPeriods, lowRegimeQuantile)
	high = flag(len(vol), func(i int) bool { return vol[i] > q75[i] })
	low = flag(len(vol), func(i int) bool { return vol[i] < q25[i] })
	return high, low
}
