package features

import (
	"math"
	"sort"
	"strings"

	"price-feature-lab/internal/domain"
)

// IndicatorDiffs appends the first difference of every indicator column as
// IndicatorDiffName(name). The indicators map holds column name -> external
// series identifier; only the names are used here.
//
// When the rate indicator (RateIndicator, case-insensitive) is present its
// difference is replaced by an event flag, EventName(name), set to 1 on rows
// where the rate changed, plus one lagged copy of the flag per lag.
func IndicatorDiffs(t *domain.Table, indicators map[string]string, lags []int) (*domain.Table, error) {
	if len(indicators) == 0 {
		return nil, configErrorf("indicators must not be an empty mapping")
	}
	names := make([]string, 0, len(indicators))
	for name := range indicators {
		if name == "" {
			return nil, configErrorf("indicator names must not be empty")
		}
		names = append(names, name)
	}
	sort.Strings(names)
	if err := requireColumns(t, names...); err != nil {
		return nil, err
	}

	out := t.Clone()
	var rate string
	for _, name := range names {
		x, _ := t.Column(name)
		out.Set(IndicatorDiffName(name), diff(x))
		if strings.EqualFold(name, RateIndicator) {
			rate = name
		}
	}
	if rate == "" {
		return out, nil
	}

	change, _ := out.Column(IndicatorDiffName(rate))
	event := flag(len(change), func(i int) bool {
		return !math.IsNaN(change[i]) && change[i] != 0
	})
	out.Set(EventName(rate), event)
	out.Drop(IndicatorDiffName(rate))

	if len(lags) == 0 {
		return out, nil
	}
	return Lags(out, []string{EventName(rate)}, lags)
}
