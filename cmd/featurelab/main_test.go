package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeInputCSV writes n rows of a smooth positive price and volume series.
func writeInputCSV(t *testing.T, dir string, n int) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("Date,close,Volume\n")
	start := time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		price := 100 * math.Exp(0.02*math.Sin(float64(i)/3)+0.001*float64(i))
		volume := 1e6 * (1.5 + math.Cos(float64(i)/5))
		fmt.Fprintf(&sb, "%s,%g,%g\n", start.AddDate(0, 0, i).Format("2006-01-02"), price, volume)
	}
	path := filepath.Join(dir, "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o600))
	return path
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "featurelab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestBuildCommand_WritesCSVAndReport(t *testing.T) {
	dir := t.TempDir()
	input := writeInputCSV(t, dir, 200)
	cfgPath := writeConfig(t, dir, `
features:
  target_price_column: close
  volume_column: Volume
input:
  date_column: Date
log:
  level: error
`)
	csvPath := filepath.Join(dir, "out", "features.csv")
	reportPath := filepath.Join(dir, "out", "report.md")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"build", "--config", cfgPath, "--input", input, "--output", csvPath, "--report", reportPath})
	require.NoError(t, cmd.Execute(), stderr.String())

	assert.Contains(t, stdout.String(), "rows x")

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Greater(t, len(records), 1)
	assert.Equal(t, "date", records[0][0])
	assert.Contains(t, records[0], "log_return")
	assert.Contains(t, records[0], "log_volume")
	// 63-row warm-up of the longest window
	assert.Len(t, records, 1+200-63)

	report, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "# Feature Run Report")
	assert.Contains(t, string(report), "| volume_features | yes |")
}

func TestBuildCommand_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	input := writeInputCSV(t, dir, 100)
	cfgPath := writeConfig(t, dir, `
features:
  target_price_column: close
  volume_column: Volume
  aux_price_columns: [Volume]
`)

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"build", "--config", cfgPath, "--input", input})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid feature configuration")
}

func TestBuildCommand_MissingConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"build", "--config", filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, cmd.Execute())
}

func TestIngestCommand_RequiresPostgres(t *testing.T) {
	dir := t.TempDir()
	input := writeInputCSV(t, dir, 10)
	cfgPath := writeConfig(t, dir, "features:\n  target_price_column: close\n")
	t.Setenv("POSTGRES_DSN", "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"ingest", "--config", cfgPath, "--input", input, "--postgres-dsn", ""})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres dsn is required")
}
