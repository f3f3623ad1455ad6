package features

import "price-feature-lab/internal/domain"

// Fixed volatility-index stress thresholds.
const (
	VIXLowLevel    = 15.0
	VIXHighLevel   = 25.0
	VIXSpikeChange = 0.20
	VIXCalmLogRet  = -0.15
)

// MarketRegimes appends stress-regime flags from a volatility-index level
// column and its log-return column:
//   - vix_regime_low:  level < 15
//   - vix_regime_high: level > 25
//   - vix_spike:       percentage change of level > 20%
//   - vix_calm_down:   log-return < -15%
func MarketRegimes(t *domain.Table, levelColumn, logReturnColumn string) (*domain.Table, error) {
	if levelColumn == "" || logReturnColumn == "" {
		return nil, configErrorf("volatility index level and log-return columns must not be empty")
	}
	if err := requireColumns(t, levelColumn, logReturnColumn); err != nil {
		return nil, err
	}

	level, _ := t.Column(levelColumn)
	ret, _ := t.Column(logReturnColumn)
	change := pctChange(level)
	n := len(level)

	out := t.Clone()
	out.Set(VIXLowColumn, flag(n, func(i int) bool { return level[i] < VIXLowLevel }))
	out.Set(VIXHighColumn, flag(n, func(i int) bool { return level[i] > VIXHighLevel }))
	out.Set(VIXSpikeColumn, flag(n, func(i int) bool { return change[i] > VIXSpikeChange }))
	out.Set(VIXCalmColumn, flag(n, func(i int) bool { return ret[i] < VIXCalmLogRet }))
	return out, nil
}
