package pipeline

import (
	"fmt"
	"slices"

	"price-feature-lab/internal/domain"
	"price-feature-lab/internal/features"
)

// Stage names, in execution order.
const (
	StageValidate       = "validate"
	StageLogReturns     = "log_returns"
	StageLogVolume      = "log_volume"
	StageLags           = "lags"
	StageCalendar       = "calendar"
	StageVolume         = "volume_features"
	StageVolatility     = "volatility_features"
	StageCorrelation    = "correlation_features"
	StageMovingAverage  = "moving_averages"
	StageMarketRegime   = "market_regimes"
	StageIndicators     = "indicator_diffs"
	StageDropIncomplete = "drop_incomplete"
)

// Step is one pipeline stage: Apply runs only when Applies reports true for
// the table produced by the previous step. A nil Applies always applies.
type Step struct {
	Name    string
	Applies func(t *domain.Table) bool
	Apply   func(t *domain.Table) (*domain.Table, error)
}

// Steps returns the fixed, ordered stage list for cfg. cfg must already
// carry defaults.
func Steps(cfg Config) []Step {
	auxReturns := cfg.AuxReturnColumns()
	returnColumns := append([]string{features.LogReturnColumn}, auxReturns...)

	return []Step{
		{
			Name: StageValidate,
			Apply: func(t *domain.Table) (*domain.Table, error) {
				if err := cfg.Validate(); err != nil {
					return nil, err
				}
				required := append([]string{cfg.TargetPriceColumn}, cfg.AuxPriceColumns...)
				if cfg.VolumeColumn != "" {
					required = append(required, cfg.VolumeColumn)
				}
				if err := requireColumns(t, required...); err != nil {
					return nil, err
				}
				if t.Has(features.LogReturnColumn) {
					return nil, invalidf("input already holds reserved column %s", features.LogReturnColumn)
				}
				return t, nil
			},
		},
		{
			Name: StageLogReturns,
			Apply: func(t *domain.Table) (*domain.Table, error) {
				out, err := features.LogReturns(t, append([]string{cfg.TargetPriceColumn}, cfg.AuxPriceColumns...)...)
				if err != nil {
					return nil, err
				}
				if err := out.Rename(features.LogReturnName(cfg.TargetPriceColumn), features.LogReturnColumn); err != nil {
					return nil, err
				}
				return out, nil
			},
		},
		{
			Name:    StageLogVolume,
			Applies: func(*domain.Table) bool { return cfg.VolumeColumn != "" },
			Apply: func(t *domain.Table) (*domain.Table, error) {
				return features.LogVolume(t, cfg.VolumeColumn)
			},
		},
		{
			Name: StageLags,
			Applies: func(t *domain.Table) bool {
				return len(lagColumns(t, auxReturns)) > 0
			},
			Apply: func(t *domain.Table) (*domain.Table, error) {
				return features.Lags(t, lagColumns(t, auxReturns), cfg.Lags)
			},
		},
		{
			Name: StageCalendar,
			Apply: func(t *domain.Table) (*domain.Table, error) {
				return features.CalendarFeatures(t), nil
			},
		},
		{
			Name:    StageVolume,
			Applies: func(t *domain.Table) bool { return t.Has(features.LogVolumeColumn) },
			Apply: func(t *domain.Table) (*domain.Table, error) {
				return features.VolumeFeatures(t, features.LogVolumeColumn)
			},
		},
		{
			Name: StageVolatility,
			Apply: func(t *domain.Table) (*domain.Table, error) {
				return features.VolatilityFeatures(t, features.LogReturnColumn, auxReturns, cfg.Windows)
			},
		},
		{
			Name:    StageCorrelation,
			Applies: func(*domain.Table) bool { return len(auxReturns) > 0 },
			Apply: func(t *domain.Table) (*domain.Table, error) {
				return features.CorrelationFeatures(t, features.LogReturnColumn, auxReturns, cfg.Windows)
			},
		},
		{
			Name: StageMovingAverage,
			Apply: func(t *domain.Table) (*domain.Table, error) {
				return features.MovingAverages(t, returnColumns, cfg.Windows)
			},
		},
		{
			Name:    StageMarketRegime,
			Applies: func(t *domain.Table) bool { return t.Has(cfg.VIXColumn) },
			Apply: func(t *domain.Table) (*domain.Table, error) {
				return features.MarketRegimes(t, cfg.VIXColumn, cfg.VIXReturnColumn)
			},
		},
		{
			Name:    StageIndicators,
			Applies: func(*domain.Table) bool { return len(cfg.Indicators) > 0 },
			Apply: func(t *domain.Table) (*domain.Table, error) {
				return features.IndicatorDiffs(t, cfg.Indicators, cfg.Lags)
			},
		},
		{
			Name: StageDropIncomplete,
			Apply: func(t *domain.Table) (*domain.Table, error) {
				return t.DropUndefined(), nil
			},
		},
	}
}

// lagColumns lists the auxiliary log-returns and, once computed, log-volume.
func lagColumns(t *domain.Table, auxReturns []string) []string {
	cols := slices.Clone(auxReturns)
	if t.Has(features.LogVolumeColumn) {
		cols = append(cols, features.LogVolumeColumn)
	}
	return cols
}

func requireColumns(t *domain.Table, names ...string) error {
	var missing []string
	for _, n := range names {
		if !t.Has(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("%w: input columns not found: %v", features.ErrInvalidConfig, missing)
	}
	return nil
}
