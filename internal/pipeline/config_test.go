package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-feature-lab/internal/features"
)

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{TargetPriceColumn: "close"}.WithDefaults()

	assert.Equal(t, []int{5, 22, 63}, cfg.Windows)
	assert.Equal(t, []int{1, 5, 22}, cfg.Lags)
	assert.Equal(t, "^VIX", cfg.VIXColumn)
	assert.Equal(t, "VIX_logreturns", cfg.VIXReturnColumn)

	cfg.Windows[0] = 99
	assert.Equal(t, 5, DefaultWindows[0], "defaults must not be aliased")
}

func TestConfig_WithDefaultsKeepsExplicitValues(t *testing.T) {
	in := Config{TargetPriceColumn: "close", Windows: []int{10, 20}, Lags: []int{2}, VIXColumn: "vix"}
	cfg := in.WithDefaults()

	assert.Equal(t, []int{10, 20}, cfg.Windows)
	assert.Equal(t, []int{2}, cfg.Lags)
	assert.Equal(t, "vix", cfg.VIXColumn)
	assert.Equal(t, "vix_logreturns", cfg.VIXReturnColumn, "return column follows the volatility index")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"minimal", Config{TargetPriceColumn: "close"}, false},
		{"full", Config{TargetPriceColumn: "close", AuxPriceColumns: []string{"gold"}, VolumeColumn: "volume",
			Indicators: map[string]string{"selic": "432"}}, false},
		{"empty target", Config{}, true},
		{"empty auxiliary", Config{TargetPriceColumn: "close", AuxPriceColumns: []string{""}}, true},
		{"target as auxiliary", Config{TargetPriceColumn: "close", AuxPriceColumns: []string{"close"}}, true},
		{"volume as auxiliary", Config{TargetPriceColumn: "close", AuxPriceColumns: []string{"volume"}, VolumeColumn: "volume"}, true},
		{"volume as target", Config{TargetPriceColumn: "close", VolumeColumn: "close"}, true},
		{"zero window", Config{TargetPriceColumn: "close", Windows: []int{0}}, true},
		{"negative lag", Config{TargetPriceColumn: "close", Lags: []int{-1}}, true},
		{"empty indicator name", Config{TargetPriceColumn: "close", Indicators: map[string]string{"": "1"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.WithDefaults().Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, features.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfig_AuxReturnColumns(t *testing.T) {
	cfg := Config{AuxPriceColumns: []string{"gold", "^BVSP"}}
	assert.Equal(t, []string{"gold_logreturns", "^BVSP_logreturns"}, cfg.AuxReturnColumns())
}
