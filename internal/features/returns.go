package features

import (
	"math"

	"price-feature-lab/internal/domain"
)

// LogReturns appends ln(p[t]/p[t-1]) for every named price column as
// LogReturnName(col). Row 0 of each new column is undefined.
// Fails with ErrDataQuality if a column holds a null or zero value.
func LogReturns(t *domain.Table, priceColumns ...string) (*domain.Table, error) {
	cols, err := Names("price columns", priceColumns...)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(t, cols...); err != nil {
		return nil, err
	}

	out := t.Clone()
	for _, col := range cols {
		prices, _ := t.Column(col)
		for i, p := range prices {
			if math.IsNaN(p) || p == 0 {
				return nil, dataErrorf("column %s holds a zero or null value at %s",
					col, t.Date(i).Format(domain.DateLayout))
			}
		}

		ret := nanSeries(len(prices))
		for i := 1; i < len(prices); i++ {
			ret[i] = math.Log(prices[i] / prices[i-1])
		}
		out.Set(LogReturnName(col), ret)
	}
	return out, nil
}

// LogVolume drops rows where the volume is not strictly positive, appends
// LogVolumeColumn = ln(volume) and removes the raw volume column.
func LogVolume(t *domain.Table, volumeColumn string) (*domain.Table, error) {
	if volumeColumn == "" {
		return nil, configErrorf("volume column must not be empty")
	}
	if err := requireColumns(t, volumeColumn); err != nil {
		return nil, err
	}

	volume, _ := t.Column(volumeColumn)
	out := t.FilterRows(func(i int) bool {
		return volume[i] > 0
	})

	kept, _ := out.Column(volumeColumn)
	logVol := make([]float64, len(kept))
	for i, v := range kept {
		logVol[i] = math.Log(v)
	}
	out.Set(LogVolumeColumn, logVol)
	out.Drop(volumeColumn)
	return out, nil
}
