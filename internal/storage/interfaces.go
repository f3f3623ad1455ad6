package storage

import (
	"context"
	"time"

	"price-feature-lab/internal/domain"
)

// ObservationStore provides access to raw series observations.
type ObservationStore interface {
	// InsertBulk adds observations atomically.
	// Returns ErrDuplicateKey if any (series_id, date) exists or repeats in the batch.
	InsertBulk(ctx context.Context, observations []*domain.Observation) error

	// GetBySeries retrieves all observations of a series, ordered by date ASC.
	GetBySeries(ctx context.Context, seriesID string) ([]*domain.Observation, error)

	// GetByDateRange retrieves observations of a series within [start, end] (inclusive).
	GetByDateRange(ctx context.Context, seriesID string, start, end time.Time) ([]*domain.Observation, error)

	// ListSeries returns every stored series id, sorted.
	ListSeries(ctx context.Context) ([]string, error)
}

// FeatureRunStore provides access to feature build metadata.
type FeatureRunStore interface {
	// Insert adds a run. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, run *domain.FeatureRun) error

	// GetByID retrieves a run. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.FeatureRun, error)

	// GetByDataVersion retrieves all runs over the same data version, ordered by created_at ASC.
	GetByDataVersion(ctx context.Context, dataVersion string) ([]*domain.FeatureRun, error)
}

// FeatureStore provides access to feature values in long format.
type FeatureStore interface {
	// InsertBulk adds the values of one or more runs.
	// Returns ErrDuplicateKey if a run already has stored values or a
	// (run_id, date, column) repeats in the batch.
	InsertBulk(ctx context.Context, values []*domain.FeatureValue) error

	// GetByRun retrieves all values of a run, ordered by (date, column) ASC.
	GetByRun(ctx context.Context, runID string) ([]*domain.FeatureValue, error)

	// GetColumn retrieves one column of a run, ordered by date ASC.
	GetColumn(ctx context.Context, runID, column string) ([]*domain.FeatureValue, error)
}
