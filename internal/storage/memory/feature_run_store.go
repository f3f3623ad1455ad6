package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"price-feature-lab/internal/domain"
	"price-feature-lab/internal/storage"
)

// FeatureRunStore is an in-memory implementation of storage.FeatureRunStore.
type FeatureRunStore struct {
	mu   sync.RWMutex
	data map[string]*domain.FeatureRun
}

// NewFeatureRunStore creates a new in-memory feature run store.
func NewFeatureRunStore() *FeatureRunStore {
	return &FeatureRunStore{
		data: make(map[string]*domain.FeatureRun),
	}
}

// Insert adds a run. Returns ErrDuplicateKey if run_id exists.
func (s *FeatureRunStore) Insert(_ context.Context, run *domain.FeatureRun) error {
	if run == nil || run.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[run.RunID]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[run.RunID] = copyRun(run)
	return nil
}

// GetByID retrieves a run. Returns ErrNotFound if not exists.
func (s *FeatureRunStore) GetByID(_ context.Context, runID string) (*domain.FeatureRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.data[runID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyRun(run), nil
}

// GetByDataVersion retrieves all runs over the same data version, ordered by created_at ASC.
func (s *FeatureRunStore) GetByDataVersion(_ context.Context, dataVersion string) ([]*domain.FeatureRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.FeatureRun
	for _, run := range s.data {
		if run.DataVersion == dataVersion {
			result = append(result, copyRun(run))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].RunID < result[j].RunID
	})
	return result, nil
}

func copyRun(run *domain.FeatureRun) *domain.FeatureRun {
	cp := *run
	cp.Columns = slices.Clone(run.Columns)
	return &cp
}

var _ storage.FeatureRunStore = (*FeatureRunStore)(nil)
