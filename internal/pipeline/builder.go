// Package pipeline sequences the feature generators over one input table.
package pipeline

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"price-feature-lab/internal/domain"
	"price-feature-lab/internal/features"
	"price-feature-lab/internal/observability"
)

// StageReport records what one step did to the table.
type StageReport struct {
	Name       string
	Applied    bool
	RowsIn     int
	RowsOut    int
	ColumnsIn  int
	ColumnsOut int
	Duration   time.Duration
}

// RowsDropped returns the number of rows the stage removed.
func (r StageReport) RowsDropped() int {
	return r.RowsIn - r.RowsOut
}

// Result is the output of a successful build.
type Result struct {
	Table     *domain.Table
	InputRows int
	Stages    []StageReport
}

// Builder turns an aligned input table into a dense feature table.
type Builder struct {
	cfg    Config
	steps  []Step
	logger zerolog.Logger
	clock  func() time.Time
}

// NewBuilder creates a builder for cfg. Defaults are applied to cfg; it is
// validated when Build runs.
func NewBuilder(cfg Config, logger zerolog.Logger) *Builder {
	cfg = cfg.WithDefaults()
	return &Builder{
		cfg:    cfg,
		steps:  Steps(cfg),
		logger: observability.Component(logger, "pipeline"),
		clock:  time.Now,
	}
}

// WithClock sets a custom clock for stage timings.
func (b *Builder) WithClock(clock func() time.Time) *Builder {
	b.clock = clock
	return b
}

// Config returns the effective configuration.
func (b *Builder) Config() Config {
	return b.cfg
}

// Steps returns the ordered stage list.
func (b *Builder) Steps() []Step {
	out := make([]Step, len(b.steps))
	copy(out, b.steps)
	return out
}

// Build runs every applicable step in order. The input table is not modified.
// Any failure aborts the build and no table is returned.
func (b *Builder) Build(input *domain.Table) (*Result, error) {
	start := b.clock()
	result, err := b.build(input)
	elapsed := b.clock().Sub(start).Seconds()
	if err != nil {
		observability.RecordPipelineRun(observability.StatusFailure, elapsed, 0, 0)
		b.logger.Error().Err(err).Msg("feature build failed")
		return nil, err
	}

	observability.RecordPipelineRun(observability.StatusSuccess, elapsed,
		result.Table.Len(), len(result.Table.Columns()))
	b.logger.Info().
		Int("rows_in", result.InputRows).
		Int("rows_out", result.Table.Len()).
		Int("rows_dropped", result.InputRows-result.Table.Len()).
		Int("columns", len(result.Table.Columns())).
		Msg("feature build complete")
	return result, nil
}

func (b *Builder) build(input *domain.Table) (*Result, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input table is nil", features.ErrInvalidConfig)
	}
	// configuration errors win over data errors
	if err := b.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("stage %s: %w", StageValidate, err)
	}
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", features.ErrDataQuality, err)
	}

	result := &Result{
		InputRows: input.Len(),
		Stages:    make([]StageReport, 0, len(b.steps)),
	}
	t := input
	for _, step := range b.steps {
		report := StageReport{
			Name:      step.Name,
			RowsIn:    t.Len(),
			ColumnsIn: len(t.Columns()),
		}
		if step.Applies != nil && !step.Applies(t) {
			report.RowsOut, report.ColumnsOut = report.RowsIn, report.ColumnsIn
			result.Stages = append(result.Stages, report)
			observability.RecordStage(step.Name, observability.StatusSkipped, 0, 0)
			b.logger.Debug().Str("stage", step.Name).Msg("stage skipped")
			continue
		}

		stepStart := b.clock()
		out, err := step.Apply(t)
		report.Duration = b.clock().Sub(stepStart)
		if err != nil {
			observability.RecordStage(step.Name, observability.StatusFailure, report.Duration.Seconds(), 0)
			return nil, fmt.Errorf("stage %s: %w", step.Name, err)
		}
		t = out

		report.Applied = true
		report.RowsOut = t.Len()
		report.ColumnsOut = len(t.Columns())
		result.Stages = append(result.Stages, report)
		observability.RecordStage(step.Name, observability.StatusSuccess, report.Duration.Seconds(), report.RowsDropped())
		b.logger.Debug().
			Str("stage", step.Name).
			Int("rows", report.RowsOut).
			Int("columns", report.ColumnsOut).
			Dur("duration", report.Duration).
			Msg("stage applied")
	}

	if n := t.UndefinedCount(); n != 0 {
		return nil, fmt.Errorf("%w: %d undefined values remain after %s", features.ErrDataQuality, n, StageDropIncomplete)
	}
	result.Table = t
	return result, nil
}
