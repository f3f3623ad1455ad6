package reporting

import (
	"context"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"price-feature-lab/internal/domain"
	"price-feature-lab/internal/pipeline"
	"price-feature-lab/internal/storage"
)

// Generator produces reports for feature runs.
type Generator struct {
	featureRunStore storage.FeatureRunStore
	featureStore    storage.FeatureStore
	now             func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator. The stores are only needed by
// FromStore and may be nil otherwise.
func NewGenerator(runStore storage.FeatureRunStore, featureStore storage.FeatureStore) *Generator {
	return &Generator{
		featureRunStore: runStore,
		featureStore:    featureStore,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// FromBuild produces a report from a build that just completed.
// sufficiency may be nil.
func (g *Generator) FromBuild(run *domain.FeatureRun, result *pipeline.Result, sufficiency *pipeline.SufficiencyResult) *Report {
	r := &Report{
		GeneratedAt: g.now(),
		Run:         runSection(run),
		Stages:      stageRows(result.Stages),
		Columns:     SummarizeColumns(result.Table),
	}
	if sufficiency != nil {
		r.DataQuality = dataQuality(sufficiency)
	}
	return r
}

// FromStore rebuilds a report for a stored run. Stage timings and
// sufficiency checks are not persisted and are left empty.
func (g *Generator) FromStore(ctx context.Context, runID string) (*Report, *domain.Table, error) {
	run, err := g.featureRunStore.GetByID(ctx, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	values, err := g.featureStore.GetByRun(ctx, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("load feature values %s: %w", runID, err)
	}
	table, err := domain.TableFromLongFormat(values, run.Columns)
	if err != nil {
		return nil, nil, fmt.Errorf("rebuild table %s: %w", runID, err)
	}

	return &Report{
		GeneratedAt: g.now(),
		Run:         runSection(run),
		Columns:     SummarizeColumns(table),
	}, table, nil
}

func runSection(run *domain.FeatureRun) RunSection {
	return RunSection{
		RunID:        run.RunID,
		DataVersion:  run.DataVersion,
		TargetColumn: run.TargetColumn,
		InputRows:    run.InputRows,
		OutputRows:   run.OutputRows,
		FirstDate:    run.FirstDate,
		LastDate:     run.LastDate,
	}
}

func stageRows(stages []pipeline.StageReport) []StageRow {
	rows := make([]StageRow, len(stages))
	for i, s := range stages {
		rows[i] = StageRow{
			Name:        s.Name,
			Applied:     s.Applied,
			RowsIn:      s.RowsIn,
			RowsOut:     s.RowsOut,
			RowsDropped: s.RowsDropped(),
			ColumnsOut:  s.ColumnsOut,
			Duration:    s.Duration,
		}
	}
	return rows
}

func dataQuality(s *pipeline.SufficiencyResult) DataQualitySection {
	section := DataQualitySection{AllChecksPassed: s.AllPass}
	for _, c := range s.Checks {
		section.SufficiencyChecks = append(section.SufficiencyChecks, SufficiencyCheckRow{
			Name:      c.Name,
			Threshold: c.Threshold,
			Actual:    c.Actual,
			Pass:      c.Pass,
		})
	}
	return section
}

// SummarizeColumns computes per-column statistics over defined values.
func SummarizeColumns(t *domain.Table) []ColumnSummary {
	columns := t.Columns()
	out := make([]ColumnSummary, 0, len(columns))
	for _, name := range columns {
		values, _ := t.Column(name)
		defined := values[:0]
		for _, v := range values {
			if !math.IsNaN(v) {
				defined = append(defined, v)
			}
		}

		s := ColumnSummary{Name: name, Count: len(defined)}
		switch len(defined) {
		case 0:
			s.Min, s.Mean, s.Max, s.Std = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		case 1:
			s.Min, s.Mean, s.Max, s.Std = defined[0], defined[0], defined[0], math.NaN()
		default:
			s.Min = floats.Min(defined)
			s.Max = floats.Max(defined)
			s.Mean, s.Std = stat.MeanStdDev(defined, nil)
		}
		out = append(out, s)
	}
	return out
}
