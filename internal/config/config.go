// Package config loads the YAML configuration of the feature lab.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"price-feature-lab/internal/dataset"
	"price-feature-lab/internal/observability"
	"price-feature-lab/internal/pipeline"
)

// ErrInvalid is returned when a configuration value is unusable.
var ErrInvalid = errors.New("invalid configuration")

// Config is the top-level configuration file.
type Config struct {
	Features pipeline.Config         `yaml:"features"`
	Input    InputConfig             `yaml:"input"`
	Sources  SourcesConfig           `yaml:"sources"`
	Output   OutputConfig            `yaml:"output"`
	Storage  StorageConfig           `yaml:"storage"`
	Log      observability.LogConfig `yaml:"log"`
}

// InputConfig locates the aligned input table for file-based builds.
type InputConfig struct {
	Path       string `yaml:"path"`        // .csv or .xlsx
	DateColumn string `yaml:"date_column"` // defaults to the first column
	DateLayout string `yaml:"date_layout"` // Go time layout, defaults to YYYY-MM-DD
	Sheet      string `yaml:"sheet"`       // xlsx only, defaults to the first sheet
}

// SourcesConfig maps table columns to stored series for store-backed runs.
type SourcesConfig struct {
	IDs        map[string]string `yaml:"ids"`         // column -> series id
	IncludeVIX bool              `yaml:"include_vix"` // load the volatility index series
}

// OutputConfig locates build outputs. Empty paths disable the output.
type OutputConfig struct {
	CSVPath    string `yaml:"csv_path"`
	ReportPath string `yaml:"report_path"`
}

// StorageConfig holds database connection strings.
type StorageConfig struct {
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"`
}

// Input formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{
		Log: observability.LogConfig{Level: "info", Format: "json"},
	}
	cfg.Features = cfg.Features.WithDefaults()
	return cfg
}

// Load reads, expands and validates a configuration file.
// ${VAR} references are expanded from the environment before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a configuration document, applies defaults and validates it.
// Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	dec := yaml.NewDecoder(strings.NewReader(os.ExpandEnv(string(data))))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills omitted values.
func (c *Config) ApplyDefaults() {
	c.Features = c.Features.WithDefaults()
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// Validate checks the configuration. File paths and DSNs are only checked
// for form; commands that need them check presence.
func (c *Config) Validate() error {
	if err := c.Features.Validate(); err != nil {
		return err
	}
	if c.Input.Path != "" {
		if _, err := c.Input.Format(); err != nil {
			return err
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("%w: log format %q (want json or console)", ErrInvalid, c.Log.Format)
	}
	for col, id := range c.Sources.IDs {
		if col == "" || id == "" {
			return fmt.Errorf("%w: empty source mapping %q -> %q", ErrInvalid, col, id)
		}
	}
	return nil
}

// Format derives the input format from the file extension.
func (i InputConfig) Format() (string, error) {
	switch strings.ToLower(filepath.Ext(i.Path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: input %q must be .csv or .xlsx", ErrInvalid, i.Path)
	}
}

// ReadOptions converts the input section into reader options.
func (i InputConfig) ReadOptions() dataset.ReadOptions {
	return dataset.ReadOptions{
		DateColumn: i.DateColumn,
		DateLayout: i.DateLayout,
		Sheet:      i.Sheet,
	}
}
