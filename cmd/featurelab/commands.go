package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"price-feature-lab/internal/pipeline"
	"price-feature-lab/internal/reporting"
	"price-feature-lab/internal/storage/memory"
	"price-feature-lab/internal/storage/migrations"
	pgstore "price-feature-lab/internal/storage/postgres"
)

// outputFlags binds --output and --report to the output section.
func outputFlags(cmd *cobra.Command, csvPath, reportPath *string) {
	cmd.Flags().StringVarP(csvPath, "output", "o", "", "Feature CSV path, overrides output.csv_path")
	cmd.Flags().StringVar(reportPath, "report", "", "Markdown report path, overrides output.report_path")
}

func (a *app) overrideOutputs(csvPath, reportPath string) {
	if csvPath != "" {
		a.cfg.Output.CSVPath = csvPath
	}
	if reportPath != "" {
		a.cfg.Output.ReportPath = reportPath
	}
}

func newBuildCmd(a *app) *cobra.Command {
	var input, csvPath, reportPath string
	var store bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build features from an aligned CSV or XLSX table",
		Long: `Build reads the configured input table, runs every feature stage and
writes the dense feature table and a markdown report. With --store the run
and its feature values are persisted to PostgreSQL and ClickHouse.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input != "" {
				a.cfg.Input.Path = input
			}
			a.overrideOutputs(csvPath, reportPath)

			table, err := readInput(a.cfg.Input)
			if err != nil {
				return err
			}

			opts := pipeline.RunnerOptions{
				ObservationStore: memory.NewObservationStore(),
				FeatureRunStore:  memory.NewFeatureRunStore(),
				FeatureStore:     memory.NewFeatureStore(),
				Config:           a.cfg.Features,
				Logger:           a.logger,
			}
			if store {
				s, cleanup, err := openStores(cmd.Context(), a.cfg.Storage, true)
				if err != nil {
					return err
				}
				defer cleanup()
				opts.FeatureRunStore, opts.FeatureStore = s.runs, s.features
			}

			out, err := pipeline.NewRunner(opts).Execute(cmd.Context(), table)
			if err != nil {
				return err
			}

			report := reporting.NewGenerator(nil, nil).FromBuild(out.Run, out.Result, out.Sufficiency)
			if err := a.writeOutputs(out.Result.Table, report); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "run %s: %d rows x %d columns (data version %s)\n",
				out.Run.RunID, out.Run.OutputRows, len(out.Run.Columns), out.Run.DataVersion)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input table path (.csv or .xlsx), overrides input.path")
	cmd.Flags().BoolVar(&store, "store", false, "Persist the run to the configured databases")
	outputFlags(cmd, &csvPath, &reportPath)
	return cmd
}

func newIngestCmd(a *app) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Store the columns of a CSV or XLSX table as raw observations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input != "" {
				a.cfg.Input.Path = input
			}
			table, err := readInput(a.cfg.Input)
			if err != nil {
				return err
			}

			s, cleanup, err := openStores(cmd.Context(), a.cfg.Storage, false)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := pipeline.Ingest(cmd.Context(), s.observations, table, a.cfg.Sources.IDs)
			if err != nil {
				return err
			}
			a.logger.Info().Int("observations", n).Int("series", len(table.Columns())).Msg("ingestion complete")
			fmt.Fprintf(a.stdout, "stored %d observations across %d series\n", n, len(table.Columns()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input table path (.csv or .xlsx), overrides input.path")
	return cmd
}

func newRunCmd(a *app) *cobra.Command {
	var csvPath, reportPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build features from stored observations and persist the run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.overrideOutputs(csvPath, reportPath)

			s, cleanup, err := openStores(cmd.Context(), a.cfg.Storage, true)
			if err != nil {
				return err
			}
			defer cleanup()

			runner := pipeline.NewRunner(pipeline.RunnerOptions{
				ObservationStore: s.observations,
				FeatureRunStore:  s.runs,
				FeatureStore:     s.features,
				Config:           a.cfg.Features,
				Logger:           a.logger,
			})
			sources := pipeline.Sources(a.cfg.Features, a.cfg.Sources.IDs, a.cfg.Sources.IncludeVIX)
			out, err := runner.Run(cmd.Context(), sources)
			if err != nil {
				return err
			}

			report := reporting.NewGenerator(s.runs, s.features).FromBuild(out.Run, out.Result, out.Sufficiency)
			if err := a.writeOutputs(out.Result.Table, report); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "run %s: %d rows x %d columns (data version %s)\n",
				out.Run.RunID, out.Run.OutputRows, len(out.Run.Columns), out.Run.DataVersion)
			return nil
		},
	}
	outputFlags(cmd, &csvPath, &reportPath)
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var runID, csvPath, reportPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the feature table and report of a stored run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.overrideOutputs(csvPath, reportPath)

			s, cleanup, err := openStores(cmd.Context(), a.cfg.Storage, true)
			if err != nil {
				return err
			}
			defer cleanup()

			report, table, err := reporting.NewGenerator(s.runs, s.features).FromStore(cmd.Context(), runID)
			if err != nil {
				return err
			}
			return a.writeOutputs(table, report)
		},
	}
	cmd.Flags().StringVar(&runID, "run-id", "", "Run to export")
	_ = cmd.MarkFlagRequired("run-id")
	outputFlags(cmd, &csvPath, &reportPath)
	return cmd
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded PostgreSQL and ClickHouse migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if a.cfg.Storage.PostgresDSN == "" {
				return fmt.Errorf("postgres dsn is required (--postgres-dsn or storage.postgres_dsn)")
			}

			pool, err := pgstore.NewPool(ctx, a.cfg.Storage.PostgresDSN)
			if err != nil {
				return fmt.Errorf("connect to postgres: %w", err)
			}
			defer pool.Close()

			if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
				return err
			}
			a.logger.Info().Msg("postgres migrations applied")

			if a.cfg.Storage.ClickhouseDSN == "" {
				a.logger.Warn().Msg("clickhouse dsn not set, skipping clickhouse migrations")
				return nil
			}
			conn, err := migrations.RunClickhouseMigrations(ctx, a.cfg.Storage.ClickhouseDSN)
			if err != nil {
				return err
			}
			defer conn.Close()
			a.logger.Info().Msg("clickhouse migrations applied")
			return nil
		},
	}
}
