package features

import (
	"math"
	"time"

	"price-feature-lab/internal/domain"
)

// CalendarFeatures appends month (1-12), weekday (Monday=0), quarter (1-4),
// a last-day-of-month flag and a sine/cosine encoding of the month on a
// 12-period cycle. It never introduces undefined values.
func CalendarFeatures(t *domain.Table) *domain.Table {
	n := t.Len()
	month := make([]float64, n)
	weekday := make([]float64, n)
	quarter := make([]float64, n)
	monthEnd := make([]float64, n)
	monthSin := make([]float64, n)
	monthCos := make([]float64, n)

	for i := 0; i < n; i++ {
		d := t.Date(i)
		m := int(d.Month())
		month[i] = float64(m)
		weekday[i] = float64((int(d.Weekday()) + 6) % 7)
		quarter[i] = float64((m-1)/3 + 1)
		if isMonthEnd(d) {
			monthEnd[i] = 1
		}
		angle := 2 * math.Pi * float64(m) / 12
		monthSin[i] = math.Sin(angle)
		monthCos[i] = math.Cos(angle)
	}

	out := t.Clone()
	out.Set(MonthColumn, month)
	out.Set(WeekdayColumn, weekday)
	out.Set(QuarterColumn, quarter)
	out.Set(MonthEndColumn, monthEnd)
	out.Set(MonthSinColumn, monthSin)
	out.Set(MonthCosColumn, monthCos)
	return out
}

// isMonthEnd reports whether d is the last calendar day of its month.
func isMonthEnd(d time.Time) bool {
	return d.AddDate(0, 0, 1).Month() != d.Month()
}
