package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"price-feature-lab/internal/dataset"
	"price-feature-lab/internal/domain"
	"price-feature-lab/internal/features"
	"price-feature-lab/internal/idhash"
	"price-feature-lab/internal/observability"
	"price-feature-lab/internal/storage"
)

// Sources derives the series a store-backed run loads for cfg. ids maps a
// column to its stored series id; unmapped price and volume columns use the
// column name and indicators use their configured identifier. The volatility
// index is loaded only when includeVIX is set.
func Sources(cfg Config, ids map[string]string, includeVIX bool) []dataset.SeriesSpec {
	cfg = cfg.WithDefaults()
	id := func(column, fallback string) string {
		if v, ok := ids[column]; ok && v != "" {
			return v
		}
		return fallback
	}

	specs := []dataset.SeriesSpec{{
		ID:     id(cfg.TargetPriceColumn, cfg.TargetPriceColumn),
		Column: cfg.TargetPriceColumn,
		Role:   domain.RolePrimaryPrice,
	}}
	if cfg.VolumeColumn != "" {
		specs = append(specs, dataset.SeriesSpec{
			ID: id(cfg.VolumeColumn, cfg.VolumeColumn), Column: cfg.VolumeColumn, Role: domain.RoleVolume,
		})
	}
	for _, c := range cfg.AuxPriceColumns {
		specs = append(specs, dataset.SeriesSpec{ID: id(c, c), Column: c, Role: domain.RoleAuxiliaryPrice})
	}
	if includeVIX {
		specs = append(specs, dataset.SeriesSpec{
			ID: id(cfg.VIXColumn, cfg.VIXColumn), Column: cfg.VIXColumn, Role: domain.RoleVolatilityIdx,
		})
	}

	names := make([]string, 0, len(cfg.Indicators))
	for name := range cfg.Indicators {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		code := cfg.Indicators[name]
		if code == "" {
			code = name
		}
		specs = append(specs, dataset.SeriesSpec{ID: id(name, code), Column: name, Role: domain.RoleIndicator})
	}
	return specs
}

// NewFeatureRun describes a completed build as a run record.
func NewFeatureRun(runID, dataVersion, configJSON string, cfg Config, res *Result, createdAt time.Time) *domain.FeatureRun {
	run := &domain.FeatureRun{
		RunID:        runID,
		DataVersion:  dataVersion,
		TargetColumn: cfg.TargetPriceColumn,
		ConfigJSON:   configJSON,
		InputRows:    res.InputRows,
		OutputRows:   res.Table.Len(),
		Columns:      res.Table.Columns(),
		CreatedAt:    createdAt.UTC(),
	}
	if n := res.Table.Len(); n > 0 {
		run.FirstDate = res.Table.Date(0)
		run.LastDate = res.Table.Date(n - 1)
	}
	return run
}

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	ObservationStore storage.ObservationStore
	FeatureRunStore  storage.FeatureRunStore
	FeatureStore     storage.FeatureStore

	Config Config
	Logger zerolog.Logger

	// Optional; default to time.Now and random UUIDs.
	Clock func() time.Time
	NewID func() string
}

// Runner builds features from stored observations and persists the result.
type Runner struct {
	observationStore storage.ObservationStore
	featureRunStore  storage.FeatureRunStore
	featureStore     storage.FeatureStore

	builder *Builder
	logger  zerolog.Logger
	clock   func() time.Time
	newID   func() string
}

// NewRunner creates a new Runner.
func NewRunner(opts RunnerOptions) *Runner {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = func() string { return uuid.NewString() }
	}
	return &Runner{
		observationStore: opts.ObservationStore,
		featureRunStore:  opts.FeatureRunStore,
		featureStore:     opts.FeatureStore,
		builder:          NewBuilder(opts.Config, opts.Logger).WithClock(clock),
		logger:           observability.Component(opts.Logger, "runner"),
		clock:            clock,
		newID:            newID,
	}
}

// RunOutput contains the persisted run and the build it describes.
type RunOutput struct {
	Run         *domain.FeatureRun
	Result      *Result
	Sufficiency *SufficiencyResult
}

// Run executes one store-backed build:
//  1. Load observations of every source series
//  2. Assemble them into an aligned input table
//  3. Build the feature table
//  4. Store the feature values, then the run record
//
// Any failure aborts before the run record is written.
func (r *Runner) Run(ctx context.Context, sources []dataset.SeriesSpec) (*RunOutput, error) {
	series := make([]dataset.Series, 0, len(sources))
	for _, spec := range sources {
		points, err := r.observationStore.GetBySeries(ctx, spec.ID)
		if err != nil {
			return nil, fmt.Errorf("load series %s: %w", spec.ID, err)
		}
		if len(points) == 0 {
			return nil, fmt.Errorf("load series %s: %w: no observations", spec.ID, features.ErrDataQuality)
		}
		series = append(series, dataset.Series{Spec: spec, Points: points})
	}

	input, err := dataset.Assemble(series)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	r.logger.Debug().Int("rows", input.Len()).Int("series", len(series)).Msg("input assembled")

	return r.Execute(ctx, input)
}

// Execute builds features over an assembled input table and persists them.
func (r *Runner) Execute(ctx context.Context, input *domain.Table) (*RunOutput, error) {
	cfg := r.builder.Config()

	sufficiency := CheckSufficiency(input, cfg)
	for _, c := range sufficiency.Failed() {
		r.logger.Warn().
			Str("check", c.Name).
			Str("threshold", c.Threshold).
			Str("actual", c.Actual).
			Msg("insufficient history")
	}

	result, err := r.builder.Build(input)
	if err != nil {
		return nil, err
	}

	configJSON, err := idhash.CanonicalJSON(cfg)
	if err != nil {
		return nil, err
	}
	run := NewFeatureRun(r.newID(), idhash.ComputeDataVersion(configJSON, input), configJSON, cfg, result, r.clock())

	values := result.Table.LongFormat(run.RunID)
	if err := r.featureStore.InsertBulk(ctx, values); err != nil {
		return nil, fmt.Errorf("store feature values: %w", err)
	}
	if err := r.featureRunStore.Insert(ctx, run); err != nil {
		return nil, fmt.Errorf("store feature run: %w", err)
	}
	observability.RecordFeatureValues(len(values))

	r.logger.Info().
		Str("run_id", run.RunID).
		Str("data_version", run.DataVersion).
		Int("values", len(values)).
		Msg("feature run stored")

	return &RunOutput{Run: run, Result: result, Sufficiency: sufficiency}, nil
}

// Ingest stores every defined cell of t as an observation, using ids to map
// columns to series ids (unmapped columns use their name).
func Ingest(ctx context.Context, store storage.ObservationStore, t *domain.Table, ids map[string]string) (int, error) {
	observations := dataset.Observations(t)
	for _, o := range observations {
		if id, ok := ids[o.SeriesID]; ok && id != "" {
			o.SeriesID = id
		}
	}
	if err := store.InsertBulk(ctx, observations); err != nil {
		observability.RecordIngestionError("store")
		return 0, fmt.Errorf("store observations: %w", err)
	}
	observability.RecordObservations("table", len(observations))
	return len(observations), nil
}
