package reporting

import (
	"fmt"
	"strings"
	"time"

	"price-feature-lab/internal/domain"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Feature Run Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Run
	sb.WriteString("## Run\n\n")
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Run ID | %s |\n", r.Run.RunID))
	sb.WriteString(fmt.Sprintf("| Data Version | %s |\n", r.Run.DataVersion))
	sb.WriteString(fmt.Sprintf("| Target Column | %s |\n", r.Run.TargetColumn))
	sb.WriteString(fmt.Sprintf("| Input Rows | %d |\n", r.Run.InputRows))
	sb.WriteString(fmt.Sprintf("| Output Rows | %d |\n", r.Run.OutputRows))
	sb.WriteString(fmt.Sprintf("| First Date | %s |\n", formatDate(r.Run.FirstDate)))
	sb.WriteString(fmt.Sprintf("| Last Date | %s |\n", formatDate(r.Run.LastDate)))
	sb.WriteString("\n")

	// Stages
	sb.WriteString("## Stages\n\n")
	if len(r.Stages) > 0 {
		sb.WriteString("| Stage | Applied | Rows In | Rows Out | Dropped | Columns | Duration |\n")
		sb.WriteString("|-------|---------|---------|----------|---------|---------|----------|\n")
		for _, s := range r.Stages {
			applied := "no"
			if s.Applied {
				applied = "yes"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %d | %d | %s |\n",
				s.Name, applied, s.RowsIn, s.RowsOut, s.RowsDropped, s.ColumnsOut, s.Duration))
		}
	} else {
		sb.WriteString("No stage information available.\n")
	}
	sb.WriteString("\n")

	// Data Quality
	sb.WriteString("## Data Quality\n\n")
	if len(r.DataQuality.SufficiencyChecks) > 0 {
		sb.WriteString("| Check | Threshold | Actual | Status |\n")
		sb.WriteString("|-------|-----------|--------|--------|\n")
		for _, check := range r.DataQuality.SufficiencyChecks {
			status := "FAIL"
			if check.Pass {
				status = "PASS"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				check.Name, check.Threshold, check.Actual, status))
		}
		sb.WriteString("\n")

		if r.DataQuality.AllChecksPassed {
			sb.WriteString("**All checks passed.**\n\n")
		} else {
			sb.WriteString("**Some checks failed.** Features may be structurally constant or missing.\n\n")
		}
	} else {
		sb.WriteString("No data quality checks performed.\n\n")
	}

	// Columns
	sb.WriteString("## Feature Columns\n\n")
	if len(r.Columns) > 0 {
		sb.WriteString("| Column | Count | Min | Mean | Max | Std |\n")
		sb.WriteString("|--------|-------|-----|------|-----|-----|\n")
		for _, c := range r.Columns {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.6g | %.6g | %.6g | %.6g |\n",
				c.Name, c.Count, c.Min, c.Mean, c.Max, c.Std))
		}
	} else {
		sb.WriteString("No feature columns.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(domain.DateLayout)
}
