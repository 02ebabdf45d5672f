package domain

import "time"

// RawRow maps trimmed column labels to raw cell text for one sheet row.
// A label absent from the map means the cell was missing in the source.
type RawRow map[string]string

// RawTable is the untyped result of loading the published CSV: column
// labels in source order plus one RawRow per data row. Labels are
// whitespace-trimmed at load time; cell values are verbatim.
type RawTable struct {
	Columns []string
	Rows    []RawRow
}

// HasColumn reports whether the table carries a column with the given label.
func (t RawTable) HasColumn(label string) bool {
	for _, c := range t.Columns {
		if c == label {
			return true
		}
	}
	return false
}

// Reading is one dam's report for one day after normalization and
// derivation. Pointer fields distinguish absent-or-unparseable (nil)
// from a genuine zero measurement.
type Reading struct {
	Dam         string     `json:"dam"`
	Date        *time.Time `json:"date,omitempty"`
	TopFt       *float64   `json:"top_ft,omitempty"`
	HFLFt       *float64   `json:"hfl_ft,omitempty"`
	DSLFt       *float64   `json:"dsl_ft,omitempty"`
	NPLFt       *float64   `json:"npl_ft,omitempty"`
	PPLFt       *float64   `json:"ppl_ft,omitempty"`
	SpillDiff   *float64   `json:"spill_diff,omitempty"`
	LiveStorage *float64   `json:"live_storage,omitempty"`
	Status      string     `json:"status,omitempty"`

	// Derived fields.
	LiveDepthFt *float64 `json:"live_depth_ft,omitempty"`
	Overflowing bool     `json:"overflowing"`

	// Extra carries canonical-but-untyped columns (sr_no) and any source
	// columns outside the known schema, keyed by post-rename label.
	Extra map[string]string `json:"extra,omitempty"`
}

// Snapshot is the outcome of one complete fetch-normalize-derive pass.
type Snapshot struct {
	Source    string    `json:"source"`
	FetchID   string    `json:"fetch_id"`
	FetchedAt time.Time `json:"fetched_at"`
	Readings  []Reading `json:"readings"`
}

// Summary holds the headline figures for one day's readings.
type Summary struct {
	ReportingCount  int      `json:"reporting_count"`
	OverflowCount   int      `json:"overflow_count"`
	MedianLiveDepth *float64 `json:"median_live_depth,omitempty"`
	NoLiveCount     int      `json:"no_live_count"`
}

// View is the dashboard-shaped slice of a snapshot: the rows for one
// selected day, the series for one dam (or all), and the day's summary.
type View struct {
	Date      *time.Time `json:"date,omitempty"`
	Dam       string     `json:"dam"`
	DaySubset []Reading  `json:"day_subset"`
	DamSeries []Reading  `json:"dam_series"`
	Summary   Summary    `json:"summary"`
}
