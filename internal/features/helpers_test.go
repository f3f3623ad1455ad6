package features

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"price-feature-lab/internal/domain"
)

var testStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// dailyDates returns n consecutive calendar dates starting at testStart.
func dailyDates(n int) []time.Time {
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = testStart.AddDate(0, 0, i)
	}
	return dates
}

// newTable builds a table over n daily dates with the given columns.
func newTable(t *testing.T, n int, cols map[string][]float64) *domain.Table {
	t.Helper()
	tbl := domain.NewTable(dailyDates(n))
	for name, v := range cols {
		require.Len(t, v, n, "column %s", name)
		tbl.Set(name, v)
	}
	return tbl
}

// randomWalk returns n strictly positive prices following a seeded
// geometric random walk.
func randomWalk(seed int64, n int, start float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	p := start
	for i := range out {
		out[i] = p
		p *= math.Exp(rng.NormFloat64() * 0.02)
	}
	return out
}

func column(t *testing.T, tbl *domain.Table, name string) []float64 {
	t.Helper()
	v, ok := tbl.Column(name)
	require.True(t, ok, "column %s missing", name)
	return v
}
