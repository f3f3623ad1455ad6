package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"price-feature-lab/internal/domain"
	"price-feature-lab/internal/storage"
)

// FeatureStore implements storage.FeatureStore using ClickHouse.
// MergeTree does not enforce uniqueness: a run is written once, so an insert
// for a run that already has rows is rejected before the batch is sent.
type FeatureStore struct {
	conn *Conn
}

// NewFeatureStore creates a new FeatureStore.
func NewFeatureStore(conn *Conn) *FeatureStore {
	return &FeatureStore{conn: conn}
}

// Compile-time interface check.
var _ storage.FeatureStore = (*FeatureStore)(nil)

// InsertBulk adds the values of one or more runs. Fails entire batch on duplicate.
func (s *FeatureStore) InsertBulk(ctx context.Context, values []*domain.FeatureValue) (err error) {
	if len(values) == 0 {
		return nil
	}
	if err := storage.ValidateFeatureValues(values); err != nil {
		return err
	}
	defer func(start time.Time) {
		if errors.Is(err, storage.ErrDuplicateKey) {
			observe("insert_feature_values", start, nil)
			return
		}
		observe("insert_feature_values", start, err)
	}(time.Now())

	// Check for runs already stored
	for _, runID := range storage.RunIDs(values) {
		exists, err := s.runExists(ctx, runID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO feature_values (run_id, feature_date, feature, value)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, v := range values {
		if err := batch.Append(v.RunID, dayUTC(v.Date), v.Column, v.Value); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRun retrieves all values of a run, ordered by (date, column) ASC.
func (s *FeatureStore) GetByRun(ctx context.Context, runID string) (_ []*domain.FeatureValue, err error) {
	defer func(start time.Time) { observe("get_feature_values", start, err) }(time.Now())

	query := `
		SELECT run_id, feature_date, feature, value
		FROM feature_values
		WHERE run_id = ?
		ORDER BY feature_date ASC, feature ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query by run id: %w", err)
	}
	defer rows.Close()

	return scanFeatureValues(rows)
}

// GetColumn retrieves one column of a run, ordered by date ASC.
func (s *FeatureStore) GetColumn(ctx context.Context, runID, column string) (_ []*domain.FeatureValue, err error) {
	defer func(start time.Time) { observe("get_feature_column", start, err) }(time.Now())

	query := `
		SELECT run_id, feature_date, feature, value
		FROM feature_values
		WHERE run_id = ? AND feature = ?
		ORDER BY feature_date ASC
	`

	rows, err := s.conn.Query(ctx, query, runID, column)
	if err != nil {
		return nil, fmt.Errorf("query by column: %w", err)
	}
	defer rows.Close()

	return scanFeatureValues(rows)
}

// runExists checks if any value of the run is stored.
func (s *FeatureStore) runExists(ctx context.Context, runID string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count(*) FROM feature_values WHERE run_id = ?`, runID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanFeatureValues(rows chRows) ([]*domain.FeatureValue, error) {
	var values []*domain.FeatureValue

	for rows.Next() {
		var v domain.FeatureValue
		if err := rows.Scan(&v.RunID, &v.Date, &v.Column, &v.Value); err != nil {
			return nil, fmt.Errorf("scan feature value row: %w", err)
		}
		v.Date = dayUTC(v.Date)
		values = append(values, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feature value rows: %w", err)
	}

	return values, nil
}

func dayUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
