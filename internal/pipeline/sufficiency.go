package pipeline

import (
	"fmt"

	"price-feature-lab/internal/domain"
	"price-feature-lab/internal/features"
)

// SufficiencyCheck represents one history sufficiency criterion.
type SufficiencyCheck struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// SufficiencyResult contains all checks.
type SufficiencyResult struct {
	Checks  []SufficiencyCheck
	AllPass bool
}

// Failed returns the checks that did not pass.
func (r *SufficiencyResult) Failed() []SufficiencyCheck {
	var out []SufficiencyCheck
	for _, c := range r.Checks {
		if !c.Pass {
			out = append(out, c)
		}
	}
	return out
}

// CheckSufficiency reports whether the input table carries enough history for
// cfg to produce meaningful features. The checks are advisory: a build over an
// insufficient table either fails on its own or returns fewer rows.
func CheckSufficiency(t *domain.Table, cfg Config) *SufficiencyResult {
	cfg = cfg.WithDefaults()
	result := &SufficiencyResult{
		Checks:  make([]SufficiencyCheck, 0, 3),
		AllPass: true,
	}
	add := func(c SufficiencyCheck) {
		result.Checks = append(result.Checks, c)
		if !c.Pass {
			result.AllPass = false
		}
	}

	add(checkWarmup(t, cfg))
	add(checkRegimeHistory(t, cfg))
	add(checkAuxiliaryColumns(t, cfg))
	return result
}

// checkWarmup: rows > largest window + largest lag, so that at least one row
// survives the final drop.
func checkWarmup(t *domain.Table, cfg Config) SufficiencyCheck {
	need := maxOrZero(cfg.Windows) + maxOrZero(cfg.Lags)
	return SufficiencyCheck{
		Name:      "Rows exceed warm-up",
		Threshold: fmt.Sprintf("> %d", need),
		Actual:    fmt.Sprintf("%d", t.Len()),
		Pass:      t.Len() > need,
	}
}

// checkRegimeHistory: the volatility regime percentiles need RegimeMinPeriods
// defined volatility values, which start after the largest window.
func checkRegimeHistory(t *domain.Table, cfg Config) SufficiencyCheck {
	need := maxOrZero(cfg.Windows) + features.RegimeMinPeriods
	return SufficiencyCheck{
		Name:      "Rows cover volatility regime percentiles",
		Threshold: fmt.Sprintf(">= %d", need),
		Actual:    fmt.Sprintf("%d", t.Len()),
		Pass:      t.Len() >= need,
	}
}

func checkAuxiliaryColumns(t *domain.Table, cfg Config) SufficiencyCheck {
	missing := 0
	for _, aux := range cfg.AuxPriceColumns {
		if !t.Has(aux) {
			missing++
		}
	}
	return SufficiencyCheck{
		Name:      "Auxiliary price columns present",
		Threshold: fmt.Sprintf("%d", len(cfg.AuxPriceColumns)),
		Actual:    fmt.Sprintf("%d", len(cfg.AuxPriceColumns)-missing),
		Pass:      missing == 0,
	}
}

func maxOrZero(values []int) int {
	if len(values) == 0 {
		return 0
	}
	return features.MaxInt(values)
}
