package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"price-feature-lab/internal/domain"
	"price-feature-lab/internal/storage"
)

// ObservationStore is an in-memory implementation of storage.ObservationStore.
type ObservationStore struct {
	mu   sync.RWMutex
	data map[storage.ObservationKey]*domain.Observation
}

// NewObservationStore creates a new in-memory observation store.
func NewObservationStore() *ObservationStore {
	return &ObservationStore{
		data: make(map[storage.ObservationKey]*domain.Observation),
	}
}

// InsertBulk adds multiple observations. Fails entire batch on duplicate.
func (s *ObservationStore) InsertBulk(_ context.Context, observations []*domain.Observation) error {
	if len(observations) == 0 {
		return nil
	}
	if err := storage.ValidateObservations(observations); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range observations {
		if _, exists := s.data[storage.ObservationKey{SeriesID: o.SeriesID, Date: o.Date.UTC()}]; exists {
			return storage.ErrDuplicateKey
		}
	}
	for _, o := range observations {
		cp := *o
		cp.Date = o.Date.UTC()
		s.data[storage.ObservationKey{SeriesID: o.SeriesID, Date: cp.Date}] = &cp
	}
	return nil
}

// GetBySeries retrieves all observations of a series, ordered by date ASC.
func (s *ObservationStore) GetBySeries(_ context.Context, seriesID string) ([]*domain.Observation, error) {
	return s.filter(func(o *domain.Observation) bool {
		return o.SeriesID == seriesID
	}), nil
}

// GetByDateRange retrieves observations of a series within [start, end] (inclusive).
func (s *ObservationStore) GetByDateRange(_ context.Context, seriesID string, start, end time.Time) ([]*domain.Observation, error) {
	return s.filter(func(o *domain.Observation) bool {
		return o.SeriesID == seriesID && !o.Date.Before(start) && !o.Date.After(end)
	}), nil
}

// ListSeries returns every stored series id, sorted.
func (s *ObservationStore) ListSeries(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for k := range s.data {
		seen[k.SeriesID] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (s *ObservationStore) filter(keep func(*domain.Observation) bool) []*domain.Observation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Observation
	for _, o := range s.data {
		if keep(o) {
			cp := *o
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result
}

var _ storage.ObservationStore = (*ObservationStore)(nil)
