package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"price-feature-lab/internal/domain"
	"price-feature-lab/internal/storage"
)

// ObservationStore implements storage.ObservationStore using PostgreSQL.
type ObservationStore struct {
	pool *Pool
}

// NewObservationStore creates a new ObservationStore.
func NewObservationStore(pool *Pool) *ObservationStore {
	return &ObservationStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ObservationStore = (*ObservationStore)(nil)

// InsertBulk adds observations atomically via COPY. Fails entire batch on any duplicate.
func (s *ObservationStore) InsertBulk(ctx context.Context, observations []*domain.Observation) (err error) {
	if len(observations) == 0 {
		return nil
	}
	if err := storage.ValidateObservations(observations); err != nil {
		return err
	}
	defer func(start time.Time) { observe("insert_observations", start, err) }(time.Now())

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"observations"},
		[]string{"series_id", "obs_date", "value"},
		pgx.CopyFromSlice(len(observations), func(i int) ([]any, error) {
			o := observations[i]
			return []any{o.SeriesID, dateOnly(o.Date), o.Value}, nil
		}),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("copy observations: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetBySeries retrieves all observations of a series, ordered by date ASC.
func (s *ObservationStore) GetBySeries(ctx context.Context, seriesID string) (_ []*domain.Observation, err error) {
	defer func(start time.Time) { observe("get_observations", start, err) }(time.Now())

	query := `
		SELECT series_id, obs_date, value
		FROM observations
		WHERE series_id = $1
		ORDER BY obs_date ASC
	`

	rows, err := s.pool.Query(ctx, query, seriesID)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	return scanObservations(rows)
}

// GetByDateRange retrieves observations of a series within [start, end] (inclusive).
func (s *ObservationStore) GetByDateRange(ctx context.Context, seriesID string, start, end time.Time) (_ []*domain.Observation, err error) {
	defer func(began time.Time) { observe("get_observations_range", began, err) }(time.Now())

	query := `
		SELECT series_id, obs_date, value
		FROM observations
		WHERE series_id = $1 AND obs_date >= $2 AND obs_date <= $3
		ORDER BY obs_date ASC
	`

	rows, err := s.pool.Query(ctx, query, seriesID, dateOnly(start), dateOnly(end))
	if err != nil {
		return nil, fmt.Errorf("query observations by range: %w", err)
	}
	defer rows.Close()

	return scanObservations(rows)
}

// ListSeries returns every stored series id, sorted.
func (s *ObservationStore) ListSeries(ctx context.Context) (_ []string, err error) {
	defer func(start time.Time) { observe("list_series", start, err) }(time.Now())

	rows, err := s.pool.Query(ctx, `SELECT DISTINCT series_id FROM observations ORDER BY series_id`)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan series id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series: %w", err)
	}
	return ids, nil
}

func scanObservations(rows pgx.Rows) ([]*domain.Observation, error) {
	var result []*domain.Observation
	for rows.Next() {
		var o domain.Observation
		if err := rows.Scan(&o.SeriesID, &o.Date, &o.Value); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		o.Date = dateOnly(o.Date)
		result = append(result, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observations: %w", err)
	}
	return result, nil
}
