package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"price-feature-lab/internal/domain"
	"price-feature-lab/internal/features"
)

// SeriesSpec binds an external series to a table column and its role.
type SeriesSpec struct {
	ID     string            `yaml:"id"`
	Column string            `yaml:"column"`
	Role   domain.SeriesRole `yaml:"role"`
}

// Series is a spec with its raw observations.
type Series struct {
	Spec   SeriesSpec
	Points []*domain.Observation
}

// Assemble aligns series onto the date index of the primary price:
//   - rows without a positive volume are dropped
//   - auxiliary prices and volatility indices are inner-joined on date
//   - a volatility index also yields its log-return column
//   - indicators are aligned as-of; the rate indicator daily, every other
//     indicator first reduced to its last value of each calendar month
//   - finally every row holding an undefined value is dropped
func Assemble(series []Series) (*domain.Table, error) {
	if err := validateSpecs(series); err != nil {
		return nil, err
	}

	sorted := make([]Series, len(series))
	for i, s := range series {
		points, err := sortPoints(s)
		if err != nil {
			return nil, err
		}
		sorted[i] = Series{Spec: s.Spec, Points: points}
	}

	var primary Series
	for _, s := range sorted {
		if s.Spec.Role == domain.RolePrimaryPrice {
			primary = s
		}
	}

	var dates []time.Time
	var values []float64
	for _, p := range primary.Points {
		if math.IsNaN(p.Value) {
			continue
		}
		dates = append(dates, p.Date)
		values = append(values, p.Value)
	}
	t := domain.NewTable(dates)
	t.Set(primary.Spec.Column, values)

	for _, role := range []domain.SeriesRole{domain.RoleVolume, domain.RoleAuxiliaryPrice, domain.RoleVolatilityIdx} {
		for _, s := range sorted {
			if s.Spec.Role != role {
				continue
			}
			t = innerJoin(t, s)
			if role == domain.RoleVolume {
				vol, _ := t.Column(s.Spec.Column)
				t = t.FilterRows(func(i int) bool { return vol[i] > 0 })
			}
		}
	}

	for _, s := range sorted {
		if s.Spec.Role == domain.RoleVolatilityIdx {
			level, _ := t.Column(s.Spec.Column)
			ret := make([]float64, len(level))
			for i := range ret {
				if i == 0 {
					ret[i] = math.NaN()
					continue
				}
				ret[i] = math.Log(level[i] / level[i-1])
			}
			t.Set(features.VolatilityReturnName(s.Spec.Column), ret)
		}
	}

	for _, s := range sorted {
		if s.Spec.Role != domain.RoleIndicator {
			continue
		}
		points := s.Points
		if !strings.EqualFold(s.Spec.Column, features.RateIndicator) {
			points = MonthEnd(points)
		}
		t.Set(s.Spec.Column, AlignAsOf(t.Dates(), points))
	}

	return t.DropUndefined(), nil
}

// innerJoin keeps the rows of t whose date s observes with a defined value
// and appends s as a column.
func innerJoin(t *domain.Table, s Series) *domain.Table {
	byDate := make(map[time.Time]float64, len(s.Points))
	for _, p := range s.Points {
		if !math.IsNaN(p.Value) {
			byDate[p.Date] = p.Value
		}
	}
	out := t.FilterRows(func(i int) bool {
		_, ok := byDate[t.Date(i)]
		return ok
	})
	col := make([]float64, out.Len())
	for i := range col {
		col[i] = byDate[out.Date(i)]
	}
	out.Set(s.Spec.Column, col)
	return out
}

func validateSpecs(series []Series) error {
	var primaries, volumes int
	columns := make(map[string]struct{}, len(series))
	for _, s := range series {
		spec := s.Spec
		if spec.Column == "" {
			return fmt.Errorf("%w: series %q has no column", ErrInvalidSeries, spec.ID)
		}
		if _, dup := columns[spec.Column]; dup {
			return fmt.Errorf("%w: column %q bound twice", ErrInvalidSeries, spec.Column)
		}
		columns[spec.Column] = struct{}{}

		switch spec.Role {
		case domain.RolePrimaryPrice:
			primaries++
		case domain.RoleVolume:
			volumes++
		case domain.RoleAuxiliaryPrice, domain.RoleVolatilityIdx, domain.RoleIndicator:
		default:
			return fmt.Errorf("%w: column %q has unsupported role %q", ErrInvalidSeries, spec.Column, spec.Role)
		}
	}
	if primaries != 1 {
		return fmt.Errorf("%w: need exactly one primary price series, got %d", ErrInvalidSeries, primaries)
	}
	if volumes > 1 {
		return fmt.Errorf("%w: at most one volume series, got %d", ErrInvalidSeries, volumes)
	}
	return nil
}

// sortPoints returns the points of s sorted by calendar date.
func sortPoints(s Series) ([]*domain.Observation, error) {
	out := make([]*domain.Observation, len(s.Points))
	for i, p := range s.Points {
		cp := *p
		cp.Date = day(p.Date)
		out[i] = &cp
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	for i := 1; i < len(out); i++ {
		if out[i].Date.Equal(out[i-1].Date) {
			return nil, fmt.Errorf("%w: series %s at %s", ErrDuplicateDate, s.Spec.Column, out[i].Date.Format(domain.DateLayout))
		}
	}
	return out, nil
}

// Observations flattens the defined cells of t into per-column observations,
// using the column name as series id.
func Observations(t *domain.Table) []*domain.Observation {
	var out []*domain.Observation
	for _, col := range t.Columns() {
		values, _ := t.Column(col)
		for i, v := range values {
			if math.IsNaN(v) {
				continue
			}
			out = append(out, &domain.Observation{SeriesID: col, Date: t.Date(i), Value: v})
		}
	}
	return out
}
