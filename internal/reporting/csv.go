package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"price-feature-lab/internal/domain"
)

// WriteCSV writes the table with a leading date column (YYYY-MM-DD) followed
// by every column in table order. Undefined values are written as empty cells.
func WriteCSV(w io.Writer, t *domain.Table) error {
	cw := csv.NewWriter(w)
	columns := t.Columns()

	header := append([]string{"date"}, columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(header))
	for i := 0; i < t.Len(); i++ {
		record[0] = t.Date(i).Format(domain.DateLayout)
		for j, c := range columns {
			record[j+1] = formatValue(t.Value(c, i))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
