package features

import (
	"fmt"
	"strings"
)

// Canonical column names shared by the pipeline stages.
const (
	LogReturnColumn = "log_return"
	LogVolumeColumn = "log_volume"

	MonthColumn       = "month"
	WeekdayColumn     = "weekday"
	QuarterColumn     = "quarter"
	MonthEndColumn    = "is_month_end"
	MonthSinColumn    = "month_sin"
	MonthCosColumn    = "month_cos"
	VolumeSpikeColumn = "volume_spike"

	VIXLowColumn    = "vix_regime_low"
	VIXHighColumn   = "vix_regime_high"
	VIXSpikeColumn  = "vix_spike"
	VIXCalmColumn   = "vix_calm_down"
	DefaultVIX      = "^VIX"
	DefaultVIXRet   = "VIX_logreturns"
	RateIndicator   = "selic"
	logReturnSuffix = "_logreturns"
)

// LogReturnName is the log-return column derived from a price column.
func LogReturnName(col string) string { return col + logReturnSuffix }

// VolatilityReturnName is the log-return column derived from a
// volatility-index level column: "^VIX" -> "VIX_logreturns".
func VolatilityReturnName(col string) string {
	return LogReturnName(strings.TrimPrefix(col, "^"))
}

// LagName is col shifted back by lag rows.
func LagName(col string, lag int) string { return fmt.Sprintf("%s_lag_%d", col, lag) }

// DiffName is the first difference of a volume-derived column.
func DiffName(col string) string { return col + "_diff_1" }

// EWMName is the exponentially weighted mean of col with span w.
func EWMName(col string, w int) string { return fmt.Sprintf("%s_ewm_%d", col, w) }

// BuzzName is col minus its EWM with span w.
func BuzzName(col string, w int) string { return fmt.Sprintf("%s_buzz_%d", col, w) }

// MomentumName is the rolling sum of the first difference of col.
func MomentumName(col string, w int) string { return fmt.Sprintf("%s_momentum_%d", col, w) }

// VolumeVolatilityName is the rolling std of the first difference of col.
func VolumeVolatilityName(col string, w int) string {
	return fmt.Sprintf("%s_volatility_%d", col, w)
}

// VolName is the annualized EWM volatility of col at window w.
func VolName(col string, w int) string { return fmt.Sprintf("%s_vol_%d", col, w) }

// VolRatioName is the short/long volatility ratio of col.
func VolRatioName(col string, short, long int) string {
	return fmt.Sprintf("%s_vol_ratio_%d_%d", col, short, long)
}

// VolSpreadName is primary volatility minus feature volatility at window w.
func VolSpreadName(primary, feature string, w int) string {
	return fmt.Sprintf("vol_spread_%s_%s_%d", primary, feature, w)
}

// VolCorrName is the rolling correlation of two volatility series at window w.
func VolCorrName(primary, feature string, w int) string {
	return fmt.Sprintf("vol_corr_%s_%s_%d", primary, feature, w)
}

// HighVolRegimeName flags volatility above its rolling 75th percentile.
func HighVolRegimeName(col string) string { return col + "_high_vol_regime" }

// LowVolRegimeName flags volatility below its rolling 25th percentile.
func LowVolRegimeName(col string) string { return col + "_low_vol_regime" }

// CorrName is the rolling Pearson correlation of a and b at window w.
func CorrName(a, b string, w int) string { return fmt.Sprintf("corr_%s_%s_%d", a, b, w) }

// MAName is the rolling mean of col at window w.
func MAName(col string, w int) string { return fmt.Sprintf("%s_ma_%d", col, w) }

// AboveMAName flags col above its own moving average at window w.
func AboveMAName(col string, w int) string { return fmt.Sprintf("%s_above_ma_%d", col, w) }

// SpreadMAName is the short moving average minus the long one.
func SpreadMAName(col string, short, long int) string {
	return fmt.Sprintf("%s_spread_ma_%d_%d", col, short, long)
}

// IndicatorDiffName is the first difference of an economic indicator.
func IndicatorDiffName(indicator string) string { return "diff_" + indicator }

// EventName flags rows where a rate indicator changed.
func EventName(indicator string) string { return indicator + "_event" }
