package reporting

import "time"

// Report represents one feature run report.
type Report struct {
	GeneratedAt time.Time

	Run RunSection

	// Stages in execution order; empty for reports rebuilt from storage.
	Stages []StageRow

	DataQuality DataQualitySection

	// Per-column summaries in table order.
	Columns []ColumnSummary
}

// RunSection describes the run the report covers.
type RunSection struct {
	RunID        string
	DataVersion  string
	TargetColumn string
	InputRows    int
	OutputRows   int
	FirstDate    time.Time
	LastDate     time.Time
}

// StageRow represents one pipeline stage.
type StageRow struct {
	Name        string
	Applied     bool
	RowsIn      int
	RowsOut     int
	RowsDropped int
	ColumnsOut  int
	Duration    time.Duration
}

// DataQualitySection contains history sufficiency checks.
type DataQualitySection struct {
	SufficiencyChecks []SufficiencyCheckRow
	AllChecksPassed   bool
}

// SufficiencyCheckRow represents one sufficiency criterion.
type SufficiencyCheckRow struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// ColumnSummary holds descriptive statistics of one feature column.
type ColumnSummary struct {
	Name  string
	Count int
	Min   float64
	Mean  float64
	Max   float64
	Std   float64 // sample standard deviation, NaN below 2 values
}
