package pipeline

import (
	"fmt"
	"slices"

	"price-feature-lab/internal/features"
)

// Default window and lag sets.
var (
	DefaultWindows = []int{5, 22, 63}
	DefaultLags    = []int{1, 5, 22}
)

// Config is the configuration surface of a feature build.
type Config struct {
	TargetPriceColumn string            `yaml:"target_price_column" json:"target_price_column"`
	AuxPriceColumns   []string          `yaml:"aux_price_columns" json:"aux_price_columns"`
	VolumeColumn      string            `yaml:"volume_column" json:"volume_column,omitempty"`
	VIXColumn         string            `yaml:"vix_column" json:"vix_column"`
	VIXReturnColumn   string            `yaml:"vix_return_column" json:"vix_return_column"`
	Indicators        map[string]string `yaml:"indicators" json:"indicators,omitempty"`
	Windows           []int             `yaml:"windows" json:"windows"`
	Lags              []int             `yaml:"lags" json:"lags"`
}

// WithDefaults returns a copy of c with omitted values filled in.
func (c Config) WithDefaults() Config {
	out := c
	out.AuxPriceColumns = slices.Clone(c.AuxPriceColumns)
	if out.VIXColumn == "" {
		out.VIXColumn = features.DefaultVIX
	}
	if out.VIXReturnColumn == "" {
		out.VIXReturnColumn = features.VolatilityReturnName(out.VIXColumn)
	}
	if len(out.Windows) == 0 {
		out.Windows = slices.Clone(DefaultWindows)
	} else {
		out.Windows = slices.Clone(c.Windows)
	}
	if len(out.Lags) == 0 {
		out.Lags = slices.Clone(DefaultLags)
	} else {
		out.Lags = slices.Clone(c.Lags)
	}
	if c.Indicators != nil {
		out.Indicators = make(map[string]string, len(c.Indicators))
		for k, v := range c.Indicators {
			out.Indicators[k] = v
		}
	}
	return out
}

// Validate checks the configuration without looking at any data.
// Every failure wraps features.ErrInvalidConfig.
func (c Config) Validate() error {
	if c.TargetPriceColumn == "" {
		return invalidf("target price column must not be empty")
	}
	for _, aux := range c.AuxPriceColumns {
		if aux == "" {
			return invalidf("auxiliary price columns must not contain an empty name")
		}
		if aux == c.TargetPriceColumn {
			return invalidf("column %s is both target and auxiliary price", aux)
		}
	}
	if c.VolumeColumn != "" {
		if slices.Contains(c.AuxPriceColumns, c.VolumeColumn) {
			return invalidf("volume column %s must not also be an auxiliary price column", c.VolumeColumn)
		}
		if c.VolumeColumn == c.TargetPriceColumn {
			return invalidf("volume column %s must not also be the target price column", c.VolumeColumn)
		}
	}
	if _, err := features.Windows(c.Windows); err != nil {
		return err
	}
	if _, err := features.LagSet(c.Lags); err != nil {
		return err
	}
	for name := range c.Indicators {
		if name == "" {
			return invalidf("indicator names must not be empty")
		}
	}
	return nil
}

// AuxReturnColumns returns the log-return column of every auxiliary price.
func (c Config) AuxReturnColumns() []string {
	out := make([]string, len(c.AuxPriceColumns))
	for i, aux := range c.AuxPriceColumns {
		out[i] = features.LogReturnName(aux)
	}
	return out
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", features.ErrInvalidConfig, fmt.Sprintf(format, args...))
}
