package features

import (
	"math"

	"price-feature-lab/internal/domain"
)

var (
	volumeWindows   = []int{5, 21}
	momentumWindows = []int{3, 5}
)

// VolumeFeatures derives trend, momentum, volatility and spike indicators from
// a log-volume column:
//   - first difference
//   - EWM mean for spans 5 and 21
//   - buzz = value - EWM (a log-ratio to trend)
//   - momentum = rolling sum of the first difference over 3 and 5 rows
//   - volatility = rolling std of the first difference over 5 and 21 rows
//   - volume_spike = 1 when buzz at span 21 exceeds ln(2)
func VolumeFeatures(t *domain.Table, logVolumeColumn string) (*domain.Table, error) {
	if logVolumeColumn == "" {
		return nil, configErrorf("log-volume column must not be empty")
	}
	if !t.Has(logVolumeColumn) {
		return nil, configErrorf("log-volume column %s not found", logVolumeColumn)
	}

	col := logVolumeColumn
	logVol, _ := t.Column(col)
	change := diff(logVol)

	out := t.Clone()
	out.Set(DiffName(col), change)

	buzz := make(map[int][]float64, len(volumeWindows))
	for _, w := range volumeWindows {
		ewm := ewmMean(logVol, w)
		out.Set(EWMName(col, w), ewm)

		b := make([]float64, len(logVol))
		for i := range logVol {
			b[i] = logVol[i] - ewm[i]
		}
		buzz[w] = b
	}
	for _, w := range volumeWindows {
		out.Set(BuzzName(col, w), buzz[w])
	}

	for _, w := range momentumWindows {
		out.Set(MomentumName(col, w), rollingSum(change, w))
	}

	for _, w := range volumeWindows {
		out.Set(VolumeVolatilityName(col, w), rollingStd(change, w))
	}

	spikeBuzz := buzz[MaxInt(volumeWindows)]
	out.Set(VolumeSpikeColumn, flag(len(spikeBuzz), func(i int) bool {
		return spikeBuzz[i] > math.Ln2
	}))
	return out, nil
}
