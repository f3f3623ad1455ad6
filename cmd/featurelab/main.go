// Package main is the featurelab command: it turns aligned daily price,
// volume and indicator series into a dense feature table.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"price-feature-lab/internal/config"
	"price-feature-lab/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries state shared by every subcommand.
type app struct {
	configPath    string
	logLevel      string
	logFormat     string
	postgresDSN   string
	clickhouseDSN string
	metricsAddr   string

	cfg    *config.Config
	logger zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "featurelab",
		Short:         "Build model-ready feature tables from daily market series",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "featurelab.yaml", "Path to the YAML configuration file")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level (debug|info|warn|error), overrides config")
	pf.StringVar(&a.logFormat, "log-format", "", "Log format (json|console), overrides config")
	pf.StringVar(&a.postgresDSN, "postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string, overrides config")
	pf.StringVar(&a.clickhouseDSN, "clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string, overrides config")
	pf.StringVar(&a.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while the command runs")

	root.AddCommand(
		newBuildCmd(a),
		newIngestCmd(a),
		newRunCmd(a),
		newExportCmd(a),
		newMigrateCmd(a),
	)
	return root
}

// setup loads the configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if a.postgresDSN != "" {
		cfg.Storage.PostgresDSN = a.postgresDSN
	}
	if a.clickhouseDSN != "" {
		cfg.Storage.ClickhouseDSN = a.clickhouseDSN
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = observability.NewLogger(cfg.Log, a.stderr).With().Str("command", cmd.Name()).Logger()

	if a.metricsAddr != "" {
		a.serveMetrics(cmd.Context())
	}
	return nil
}

// serveMetrics exposes /metrics until ctx is done.
func (a *app) serveMetrics(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	srv := &http.Server{Addr: a.metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		a.logger.Info().Str("addr", a.metricsAddr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error().Err(err).Msg("metrics server failed")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
