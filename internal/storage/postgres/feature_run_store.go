package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"price-feature-lab/internal/domain"
	"price-feature-lab/internal/storage"
)

// FeatureRunStore implements storage.FeatureRunStore using PostgreSQL.
type FeatureRunStore struct {
	pool *Pool
}

// NewFeatureRunStore creates a new FeatureRunStore.
func NewFeatureRunStore(pool *Pool) *FeatureRunStore {
	return &FeatureRunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.FeatureRunStore = (*FeatureRunStore)(nil)

const featureRunColumns = `
	run_id, data_version, target_column, config::text, input_rows, output_rows,
	columns, first_date, last_date, created_at
`

// Insert adds a run. Returns ErrDuplicateKey if run_id exists.
func (s *FeatureRunStore) Insert(ctx context.Context, run *domain.FeatureRun) (err error) {
	if run == nil || run.RunID == "" {
		return storage.ErrInvalidInput
	}
	defer func(start time.Time) { observe("insert_feature_run", start, err) }(time.Now())

	query := `
		INSERT INTO feature_runs (
			run_id, data_version, target_column, config, input_rows, output_rows,
			columns, first_date, last_date, created_at
		) VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7, $8, $9, $10)
	`

	config := run.ConfigJSON
	if config == "" {
		config = "{}"
	}
	columns := run.Columns
	if columns == nil {
		columns = []string{}
	}

	_, err = s.pool.Exec(ctx, query,
		run.RunID,
		run.DataVersion,
		run.TargetColumn,
		config,
		run.InputRows,
		run.OutputRows,
		columns,
		nullableDate(run.FirstDate),
		nullableDate(run.LastDate),
		run.CreatedAt.UTC(),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert feature run: %w", err)
	}
	return nil
}

// GetByID retrieves a run. Returns ErrNotFound if not exists.
func (s *FeatureRunStore) GetByID(ctx context.Context, runID string) (_ *domain.FeatureRun, err error) {
	defer func(start time.Time) { observe("get_feature_run", start, err) }(time.Now())

	query := `SELECT ` + featureRunColumns + ` FROM feature_runs WHERE run_id = $1`

	run, err := scanFeatureRun(s.pool.QueryRow(ctx, query, runID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get feature run: %w", err)
	}
	return run, nil
}

// GetByDataVersion retrieves all runs over the same data version, ordered by created_at ASC.
func (s *FeatureRunStore) GetByDataVersion(ctx context.Context, dataVersion string) (_ []*domain.FeatureRun, err error) {
	defer func(start time.Time) { observe("get_feature_runs_by_version", start, err) }(time.Now())

	query := `SELECT ` + featureRunColumns + `
		FROM feature_runs
		WHERE data_version = $1
		ORDER BY created_at ASC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query, dataVersion)
	if err != nil {
		return nil, fmt.Errorf("query feature runs: %w", err)
	}
	defer rows.Close()

	var result []*domain.FeatureRun
	for rows.Next() {
		run, err := scanFeatureRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feature run: %w", err)
		}
		result = append(result, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feature runs: %w", err)
	}
	return result, nil
}

func scanFeatureRun(row pgx.Row) (*domain.FeatureRun, error) {
	var (
		run       domain.FeatureRun
		firstDate *time.Time
		lastDate  *time.Time
	)
	err := row.Scan(
		&run.RunID,
		&run.DataVersion,
		&run.TargetColumn,
		&run.ConfigJSON,
		&run.InputRows,
		&run.OutputRows,
		&run.Columns,
		&firstDate,
		&lastDate,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if firstDate != nil {
		run.FirstDate = dateOnly(*firstDate)
	}
	if lastDate != nil {
		run.LastDate = dateOnly(*lastDate)
	}
	run.CreatedAt = run.CreatedAt.UTC()
	return &run, nil
}

func nullableDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	d := dateOnly(t)
	return &d
}
