package memory

import (
	"context"
	"sort"
	"sync"

	"price-feature-lab/internal/domain"
	"price-feature-lab/internal/storage"
)

// FeatureStore is an in-memory implementation of storage.FeatureStore.
type FeatureStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.FeatureValue // keyed by run_id
}

// NewFeatureStore creates a new in-memory feature store.
func NewFeatureStore() *FeatureStore {
	return &FeatureStore{
		data: make(map[string][]*domain.FeatureValue),
	}
}

// InsertBulk adds the values of one or more runs. Fails entire batch on duplicate.
func (s *FeatureStore) InsertBulk(_ context.Context, values []*domain.FeatureValue) error {
	if len(values) == 0 {
		return nil
	}
	if err := storage.ValidateFeatureValues(values); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, runID := range storage.RunIDs(values) {
		if _, exists := s.data[runID]; exists {
			return storage.ErrDuplicateKey
		}
	}
	for _, v := range values {
		cp := *v
		cp.Date = v.Date.UTC()
		s.data[v.RunID] = append(s.data[v.RunID], &cp)
	}
	return nil
}

// GetByRun retrieves all values of a run, ordered by (date, column) ASC.
func (s *FeatureStore) GetByRun(_ context.Context, runID string) ([]*domain.FeatureValue, error) {
	return s.filter(runID, func(*domain.FeatureValue) bool { return true }), nil
}

// GetColumn retrieves one column of a run, ordered by date ASC.
func (s *FeatureStore) GetColumn(_ context.Context, runID, column string) ([]*domain.FeatureValue, error) {
	return s.filter(runID, func(v *domain.FeatureValue) bool { return v.Column == column }), nil
}

func (s *FeatureStore) filter(runID string, keep func(*domain.FeatureValue) bool) []*domain.FeatureValue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.FeatureValue
	for _, v := range s.data[runID] {
		if keep(v) {
			cp := *v
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].Column < result[j].Column
	})
	return result
}

var _ storage.FeatureStore = (*FeatureStore)(nil)
