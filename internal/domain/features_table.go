package domain

import "time"

// DateLayout is the canonical calendar-date format used for input and output.
const DateLayout = "2006-01-02"

// FeatureRow is one dated row of the final feature table.
type FeatureRow struct {
	Date   time.Time          // row date (explicit column in the output)
	Values map[string]float64 // feature values keyed by column name
}

// FeatureValue is one cell of a feature table in long format.
// Corresponds to feature_values table in ClickHouse.
type FeatureValue struct {
	RunID  string    // feature run identifier
	Date   time.Time // row date
	Column string    // feature column name
	Value  float64   // feature value (never NaN once stored)
}

// FeatureRun describes one completed feature build.
// Corresponds to feature_runs table in PostgreSQL.
type FeatureRun struct {
	RunID        string    // UUID of the run
	DataVersion  string    // SHA256 of (config, input table)
	TargetColumn string    // primary price column
	ConfigJSON   string    // canonical JSON of the feature config
	InputRows    int       // rows in the assembled input table
	OutputRows   int       // rows in the final dense table
	Columns      []string  // feature columns in table order (date excluded)
	FirstDate    time.Time // first output date
	LastDate     time.Time // last output date
	CreatedAt    time.Time // run completion time
}

// Observation is one raw dated value of an external series.
// Corresponds to observations table in PostgreSQL.
type Observation struct {
	SeriesID string    // series identifier (ticker, indicator code)
	Date     time.Time // observation date
	Value    float64   // observed value
}
