package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"price-feature-lab/internal/domain"
)

// ReadOptions controls how a wide table is parsed.
type ReadOptions struct {
	DateColumn string // header of the date column; empty means the first column
	DateLayout string // time layout of the date column; empty means domain.DateLayout
	Sheet      string // worksheet for ReadXLSX; empty means the first sheet
}

func (o ReadOptions) layout() string {
	if o.DateLayout == "" {
		return domain.DateLayout
	}
	return o.DateLayout
}

// ReadCSV parses a wide CSV table: one date column plus numeric columns.
// Empty cells and NaN/null markers are undefined values. Rows are sorted by
// date; a repeated date is an error.
func ReadCSV(r io.Reader, opts ReadOptions) (*domain.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv: %w", ErrMalformedInput, err)
	}
	return parseRecords(records, opts)
}

// ReadXLSX parses a wide worksheet with the same rules as ReadCSV.
func ReadXLSX(r io.Reader, opts ReadOptions) (*domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %w", ErrMalformedInput, err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %w", ErrMalformedInput, sheet, err)
	}
	return parseRecords(rows, opts)
}

type record struct {
	date   time.Time
	values []float64
}

func parseRecords(records [][]string, opts ReadOptions) (*domain.Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrMalformedInput)
	}
	header := records[0]
	dateIdx := 0
	if opts.DateColumn != "" {
		dateIdx = -1
		for i, h := range header {
			if strings.TrimSpace(h) == opts.DateColumn {
				dateIdx = i
				break
			}
		}
		if dateIdx < 0 {
			return nil, fmt.Errorf("%w: date column %q not in header", ErrMalformedInput, opts.DateColumn)
		}
	}

	var names []string
	var idx []int
	seen := make(map[string]struct{}, len(header))
	for i, h := range header {
		if i == dateIdx {
			continue
		}
		name := strings.TrimSpace(h)
		if name == "" {
			return nil, fmt.Errorf("%w: empty header in column %d", ErrMalformedInput, i+1)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrMalformedInput, name)
		}
		seen[name] = struct{}{}
		names = append(names, name)
		idx = append(idx, i)
	}

	rows := make([]record, 0, len(records)-1)
	for line, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		if dateIdx >= len(rec) {
			return nil, fmt.Errorf("%w: line %d has no date", ErrMalformedInput, line+2)
		}
		d, err := time.Parse(opts.layout(), strings.TrimSpace(rec[dateIdx]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedInput, line+2, err)
		}
		values := make([]float64, len(idx))
		for j, i := range idx {
			cell := ""
			if i < len(rec) {
				cell = rec[i]
			}
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %s: %w", ErrMalformedInput, line+2, names[j], err)
			}
			values[j] = v
		}
		rows = append(rows, record{date: day(d), values: values})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })
	dates := make([]time.Time, len(rows))
	for i, r := range rows {
		if i > 0 && r.date.Equal(rows[i-1].date) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDate, r.date.Format(domain.DateLayout))
		}
		dates[i] = r.date
	}

	t := domain.NewTable(dates)
	for j, name := range names {
		col := make([]float64, len(rows))
		for i, r := range rows {
			col[i] = r.values[j]
		}
		t.Set(name, col)
	}
	return t, nil
}

func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "null", "na", "n/a":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// day truncates t to its calendar date in UTC.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
