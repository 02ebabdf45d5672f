// Command validate runs a local dam-levels CSV export through the real
// normalization and derivation stages and reports what the service would
// make of it: header coverage, per-field degradation counts, and the
// summary figures for the latest day. Useful before publishing a reworked
// sheet, since the service itself degrades silently.
//
// Usage:
//
//	go run ./cmd/validate -csv testdata/dam_levels.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/reservoirwatch/dam-levels/internal/domain"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to a dam-levels CSV export")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	phases, err := validate(*csvPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS  %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL  %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("      %s\n", e)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func validate(path string) ([]*phase, error) {
	table, err := loadCSV(path)
	if err != nil {
		return nil, err
	}

	headers := &phase{name: "header coverage"}
	normalized, err := domain.NormalizeTable(table)
	if err != nil {
		headers.errorf("%v", err)
		return []*phase{headers}, nil
	}
	if !normalized.HasColumn(domain.ColDam) {
		headers.errorf("no column mapped to %q", domain.ColDam)
	}
	for _, col := range []string{domain.ColStatus, domain.ColSpillDiff} {
		if !normalized.HasColumn(col) {
			headers.errorf("no column mapped to %q: derived fields will be absent", col)
		}
	}

	derivation := &phase{name: "field derivation"}
	readings, stats := domain.DeriveReadings(normalized)
	if stats.BadDates > 0 {
		derivation.errorf("%d of %d rows have unparseable dates", stats.BadDates, len(readings))
	}
	if stats.BadSpillDiffs > 0 {
		derivation.errorf("%d rows have non-numeric spill differentials", stats.BadSpillDiffs)
	}
	if stats.BadNumerics > 0 {
		derivation.errorf("%d level cells are non-numeric", stats.BadNumerics)
	}
	unknown := 0
	for _, r := range readings {
		if r.Dam == domain.UnknownDam {
			unknown++
		}
	}
	if unknown > 0 {
		derivation.errorf("%d rows have no identifiable dam name", unknown)
	}

	latest := &phase{name: "latest-day summary"}
	if date, ok := domain.LatestDate(readings); !ok {
		latest.errorf("no row carries a parseable date")
	} else {
		view := domain.BuildView(readings, date, domain.AllDams)
		s := view.Summary
		median := "none"
		if s.MedianLiveDepth != nil {
			median = fmt.Sprintf("%.2f ft", *s.MedianLiveDepth)
		}
		fmt.Printf("%s: %d dams reporting, %d overflowing, median live depth %s, %d with no live storage\n",
			date.Format("2006-01-02"), s.ReportingCount, s.OverflowCount, median, s.NoLiveCount)
		if s.ReportingCount == 0 {
			latest.errorf("latest day has no readings")
		}
	}

	return []*phase{headers, derivation, latest}, nil
}

func loadCSV(path string) (domain.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.RawTable{}, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return domain.RawTable{}, fmt.Errorf("%s has no data rows", path)
	}

	columns := make([]string, len(records[0]))
	for i, label := range records[0] {
		columns[i] = strings.TrimSpace(label)
	}
	rows := make([]domain.RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(domain.RawRow, len(columns))
		for i, label := range columns {
			if i < len(record) {
				row[label] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return domain.RawTable{Columns: columns, Rows: rows}, nil
}
