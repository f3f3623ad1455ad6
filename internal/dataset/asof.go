package dataset

import (
	"math"
	"sort"
	"time"

	"price-feature-lab/internal/domain"
)

// ValueAt returns the last observation dated at or before target.
// ok is false when every observation is later than target; no later value is
// ever substituted. points must be sorted by date.
func ValueAt(target time.Time, points []*domain.Observation) (v float64, ok bool) {
	i := sort.Search(len(points), func(i int) bool {
		return points[i].Date.After(target)
	})
	if i == 0 {
		return math.NaN(), false
	}
	return points[i-1].Value, true
}

// AlignAsOf maps sorted points onto dates with ValueAt. Dates with no prior
// observation are undefined.
func AlignAsOf(dates []time.Time, points []*domain.Observation) []float64 {
	out := make([]float64, len(dates))
	for i, d := range dates {
		out[i], _ = ValueAt(d, points)
	}
	return out
}

// MonthEnd reduces sorted points to the last observation of each calendar
// month, dated on the last day of that month.
func MonthEnd(points []*domain.Observation) []*domain.Observation {
	var out []*domain.Observation
	for _, p := range points {
		if math.IsNaN(p.Value) {
			continue
		}
		end := lastDayOfMonth(p.Date)
		if n := len(out); n > 0 && out[n-1].Date.Equal(end) {
			out[n-1].Value = p.Value
			continue
		}
		out = append(out, &domain.Observation{SeriesID: p.SeriesID, Date: end, Value: p.Value})
	}
	return out
}

func lastDayOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC)
}
