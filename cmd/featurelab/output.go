package main

import (
	"fmt"
	"os"
	"path/filepath"

	"price-feature-lab/internal/domain"
	"price-feature-lab/internal/observability"
	"price-feature-lab/internal/reporting"
)

// writeOutputs writes the feature CSV and markdown report to the configured
// paths. Empty paths are skipped.
func (a *app) writeOutputs(table *domain.Table, report *reporting.Report) error {
	out := a.cfg.Output

	if out.CSVPath != "" {
		if err := writeFile(out.CSVPath, func(f *os.File) error {
			return reporting.WriteCSV(f, table)
		}); err != nil {
			return fmt.Errorf("write features csv: %w", err)
		}
		a.logger.Info().Str("path", out.CSVPath).Int("rows", table.Len()).Msg("features written")
	}

	if out.ReportPath != "" && report != nil {
		if err := writeFile(out.ReportPath, func(f *os.File) error {
			_, err := f.WriteString(reporting.RenderMarkdown(report))
			return err
		}); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		observability.DefaultMetrics.ReportsGenerated.Inc()
		a.logger.Info().Str("path", out.ReportPath).Msg("report written")
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
