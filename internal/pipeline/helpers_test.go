package pipeline

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"price-feature-lab/internal/domain"
)

var testStart = time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)

func dailyDates(n int) []time.Time {
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = testStart.AddDate(0, 0, i)
	}
	return dates
}

// randomWalk returns n positive prices following a seeded geometric random walk.
func randomWalk(seed int64, n int, start float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	p := start
	for i := range out {
		out[i] = p
		p *= math.Exp(rng.NormFloat64() * 0.015)
	}
	return out
}

// volumes returns n positive volumes around base.
func volumes(seed int64, n int, base float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = base * math.Exp(rng.NormFloat64()*0.3)
	}
	return out
}

type column struct {
	name   string
	values []float64
}

func buildTable(t *testing.T, n int, cols ...column) *domain.Table {
	t.Helper()
	tbl := domain.NewTable(dailyDates(n))
	for _, c := range cols {
		if len(c.values) != n {
			t.Fatalf("column %s has %d values, want %d", c.name, len(c.values), n)
		}
		tbl.Set(c.name, c.values)
	}
	return tbl
}

func mustColumn(t *testing.T, tbl *domain.Table, name string) []float64 {
	t.Helper()
	v, ok := tbl.Column(name)
	if !ok {
		t.Fatalf("column %s missing; have %v", name, tbl.Columns())
	}
	return v
}
