package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// liveDepthRe matches the numeric live depth embedded in status text such
// as "9.80 Ft Live" or "-0.40 Ft Below DSL". The unit is case-sensitive:
// the clerks always write "Ft".
var liveDepthRe = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*Ft`)

// dayFirstLayouts covers the separators and year widths seen in the sheet.
// Tried before the general parser so that purely numeric dates are always
// read day-first.
var dayFirstLayouts = []string{
	"2/1/2006",
	"2/1/06",
	"2-1-2006",
	"2-1-06",
	"2.1.2006",
	"2.1.06",
}

// DeriveStats counts cells that failed coercion during derivation. A
// failure degrades the affected field to absent instead of dropping the
// row, so these tallies are the only signal that source data is dirty.
type DeriveStats struct {
	BadDates      int
	BadSpillDiffs int
	BadNumerics   int
}

// Total returns the combined failure count across all fields.
func (s DeriveStats) Total() int {
	return s.BadDates + s.BadSpillDiffs + s.BadNumerics
}

// DeriveReadings converts a normalized table into typed readings, one per
// row in source order. No input ever makes it fail: unparseable cells
// become absent fields and are tallied in the returned stats.
func DeriveReadings(table RawTable) ([]Reading, DeriveStats) {
	var stats DeriveStats
	readings := make([]Reading, 0, len(table.Rows))
	for _, row := range table.Rows {
		readings = append(readings, deriveReading(row, &stats))
	}
	return readings, stats
}

func deriveReading(row RawRow, stats *DeriveStats) Reading {
	r := Reading{Dam: damName(row[ColDam])}

	if cell := strings.TrimSpace(row[ColDate]); cell != "" {
		if t, ok := parseSheetDate(cell); ok {
			r.Date = &t
		} else {
			stats.BadDates++
		}
	}

	r.TopFt = numericCell(row, ColTopFt, &stats.BadNumerics)
	r.HFLFt = numericCell(row, ColHFLFt, &stats.BadNumerics)
	r.DSLFt = numericCell(row, ColDSLFt, &stats.BadNumerics)
	r.NPLFt = numericCell(row, ColNPLFt, &stats.BadNumerics)
	r.PPLFt = numericCell(row, ColPPLFt, &stats.BadNumerics)
	r.LiveStorage = numericCell(row, ColLiveStorage, &stats.BadNumerics)

	// Overflow requires a numeric spill margin strictly below zero.
	r.SpillDiff = numericCell(row, ColSpillDiff, &stats.BadSpillDiffs)
	r.Overflowing = r.SpillDiff != nil && *r.SpillDiff < 0

	r.Status = row[ColStatus]
	if depth, ok := ExtractLiveDepth(r.Status); ok {
		r.LiveDepthFt = &depth
	}

	r.Extra = extraColumns(row)
	return r
}

// ExtractLiveDepth pulls the numeric live depth out of free-text status,
// matching the first "<n> Ft" occurrence. The second result is false for
// text with no embedded depth, e.g. "Dead".
func ExtractLiveDepth(status string) (float64, bool) {
	m := liveDepthRe.FindStringSubmatch(status)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseSheetDate reads a cell as a day-first calendar date, normalized to
// midnight UTC. Explicit layouts run first; anything else falls through to
// the general parser with day-first preference, which also accepts
// unambiguous forms like ISO 8601.
func parseSheetDate(cell string) (time.Time, bool) {
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return dateOnly(t), true
		}
	}
	t, err := dateparse.ParseAny(cell, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, false
	}
	return dateOnly(t), true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func damName(cell string) string {
	name := strings.TrimSpace(cell)
	if name == "" {
		return UnknownDam
	}
	return name
}

// numericCell parses a float-valued cell, returning nil for absent or
// blank cells. Non-numeric text also yields nil but bumps the counter.
func numericCell(row RawRow, label string, bad *int) *float64 {
	cell, ok := row[label]
	if !ok {
		return nil
	}
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*bad++
		return nil
	}
	return &v
}

// typedColumns are consumed into Reading fields; all other columns ride
// along in Reading.Extra.
var typedColumns = map[string]bool{
	ColDam:         true,
	ColDate:        true,
	ColTopFt:       true,
	ColHFLFt:       true,
	ColDSLFt:       true,
	ColNPLFt:       true,
	ColPPLFt:       true,
	ColSpillDiff:   true,
	ColLiveStorage: true,
	ColStatus:      true,
}

func extraColumns(row RawRow) map[string]string {
	var extra map[string]string
	for label, cell := range row {
		if typedColumns[label] {
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[label] = cell
	}
	return extra
}
