package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-feature-lab/internal/domain"
)

func TestCalendarFeatures(t *testing.T) {
	dates := []time.Time{
		time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), // Sunday, month end
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),  // Wednesday, month end
		time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),  // Wednesday, leap year
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),  // Thursday, month end
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),   // Monday
	}
	tbl := domain.NewTable(dates)
	tbl.Set("p", []float64{1, 2, 3, 4, 5})

	out := CalendarFeatures(tbl)

	assert.Equal(t, []float64{12, 1, 2, 2, 7}, column(t, out, MonthColumn))
	assert.Equal(t, []float64{6, 2, 2, 3, 0}, column(t, out, WeekdayColumn))
	assert.Equal(t, []float64{4, 1, 1, 1, 3}, column(t, out, QuarterColumn))
	assert.Equal(t, []float64{1, 1, 0, 1, 0}, column(t, out, MonthEndColumn))

	sin := column(t, out, MonthSinColumn)
	cos := column(t, out, MonthCosColumn)
	assert.InDelta(t, 0, sin[0], 1e-12)
	assert.InDelta(t, 1, cos[0], 1e-12)
	assert.InDelta(t, math.Sin(2*math.Pi*7/12), sin[4], 1e-12)
	for i := range sin {
		assert.InDelta(t, 1, sin[i]*sin[i]+cos[i]*cos[i], 1e-12)
	}

	require.Equal(t, 0, out.UndefinedCount())
	assert.False(t, tbl.Has(MonthColumn))
}
