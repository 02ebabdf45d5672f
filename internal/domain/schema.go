package domain

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// ErrSchema marks a table whose headers cannot support derivation, such as
// a sheet with no recognizable date column.
var ErrSchema = errors.New("sheet schema mismatch")

// UnknownDam is the placeholder entity name for rows whose dam cannot be
// identified. It keeps the dam column total, so grouping and counting
// never have to special-case missing names.
const UnknownDam = "Unknown"

// Canonical column labels produced by NormalizeTable.
const (
	ColSrNo        = "sr_no"
	ColDam         = "dam"
	ColTopFt       = "top_ft"
	ColHFLFt       = "hfl_ft"
	ColDSLFt       = "dsl_ft"
	ColNPLFt       = "npl_ft"
	ColPPLFt       = "ppl_ft"
	ColSpillDiff   = "spill_diff"
	ColLiveStorage = "live_storage"
	ColStatus      = "status"
	ColDate        = "date"
)

// renameMap translates the clerks' header labels to canonical names.
// Matching is exact; header whitespace was already trimmed at load time.
var renameMap = map[string]string{
	"SR. No":             ColSrNo,
	"Name Of Dam":        ColDam,
	"Top of Dam FT":      ColTopFt,
	"H.F.L Ft":           ColHFLFt,
	"D.S.L Ft":           ColDSLFt,
	"N.P.L Ft":           ColNPLFt,
	"P.P.L Ft":           ColPPLFt,
	"Spill_Diff":         ColSpillDiff,
	"Total Live Storage": ColLiveStorage,
	"Status":             ColStatus,
	"Date":               ColDate,
}

// NormalizeTable renames known header labels to canonical form and
// guarantees the column later stages group by: "dam". When no label maps
// to it, the first header containing both "name" and "dam"
// (case-insensitive) is adopted; failing that, a dam column filled with
// [UnknownDam] is synthesized. A table that still lacks a "date" column
// after renaming is unusable and yields [ErrSchema]. Unrecognized columns
// pass through untouched, and the input table is never mutated.
func NormalizeTable(table RawTable) (RawTable, error) {
	out := table.clone()
	for from, to := range renameMap {
		out.renameColumn(from, to)
	}

	if !out.HasColumn(ColDam) {
		if label, ok := findDamLabel(out.Columns); ok {
			out.renameColumn(label, ColDam)
		} else {
			out.addColumn(ColDam, UnknownDam)
		}
	}

	if !out.HasColumn(ColDate) {
		return RawTable{}, fmt.Errorf("%w: no %q column in headers %q", ErrSchema, ColDate, out.Columns)
	}
	return out, nil
}

// findDamLabel locates a header that plausibly names the dam column when
// the exact "Name Of Dam" label is absent.
func findDamLabel(columns []string) (string, bool) {
	for _, c := range columns {
		lc := strings.ToLower(c)
		if strings.Contains(lc, "name") && strings.Contains(lc, "dam") {
			return c, true
		}
	}
	return "", false
}

func (t RawTable) clone() RawTable {
	out := RawTable{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]RawRow, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = maps.Clone(row)
	}
	return out
}

// renameColumn relabels a column and re-keys every row. It is a no-op when
// the source label is absent or the target label is already taken, so a
// pathological sheet cannot collapse two columns into one.
func (t *RawTable) renameColumn(from, to string) {
	if from == to || t.HasColumn(to) {
		return
	}
	renamed := false
	for i, c := range t.Columns {
		if c == from {
			t.Columns[i] = to
			renamed = true
			break
		}
	}
	if !renamed {
		return
	}
	for _, row := range t.Rows {
		if v, ok := row[from]; ok {
			delete(row, from)
			row[to] = v
		}
	}
}

func (t *RawTable) addColumn(label, fill string) {
	t.Columns = append(t.Columns, label)
	for _, row := range t.Rows {
		row[label] = fill
	}
}
