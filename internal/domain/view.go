package domain

import (
	"sort"
	"strings"
	"time"
)

// AllDams is the selector that builds a view across every dam.
const AllDams = "all"

// Dates returns the distinct dates present across readings, ascending.
// Dateless readings are skipped.
func Dates(readings []Reading) []time.Time {
	seen := make(map[time.Time]bool)
	var out []time.Time
	for _, r := range readings {
		if r.Date == nil || seen[*r.Date] {
			continue
		}
		seen[*r.Date] = true
		out = append(out, *r.Date)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// LatestDate returns the most recent date present, if any.
func LatestDate(readings []Reading) (time.Time, bool) {
	dates := Dates(readings)
	if len(dates) == 0 {
		return time.Time{}, false
	}
	return dates[len(dates)-1], true
}

// DamNames returns the distinct dam names across readings, sorted.
func DamNames(readings []Reading) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range readings {
		if seen[r.Dam] {
			continue
		}
		seen[r.Dam] = true
		out = append(out, r.Dam)
	}
	sort.Strings(out)
	return out
}

// BuildView assembles the dashboard slice for one selected date and dam.
// A zero date selects the latest date present. Dam "" or "all"
// (case-insensitive) selects every dam: the series then mirrors the day
// subset. A named dam gets its full history, ordered by date, with
// dateless rows excluded. The day subset is ordered by dam name.
func BuildView(readings []Reading, date time.Time, dam string) View {
	v := View{Dam: dam}

	if date.IsZero() {
		if latest, ok := LatestDate(readings); ok {
			date = latest
		}
	}
	if !date.IsZero() {
		d := date
		v.Date = &d
	}

	for _, r := range readings {
		if r.Date != nil && r.Date.Equal(date) {
			v.DaySubset = append(v.DaySubset, r)
		}
	}
	sort.SliceStable(v.DaySubset, func(i, j int) bool {
		return v.DaySubset[i].Dam < v.DaySubset[j].Dam
	})

	if isAllDams(dam) {
		v.Dam = AllDams
		v.DamSeries = append([]Reading(nil), v.DaySubset...)
	} else {
		for _, r := range readings {
			if r.Dam == dam && r.Date != nil {
				v.DamSeries = append(v.DamSeries, r)
			}
		}
		sort.SliceStable(v.DamSeries, func(i, j int) bool {
			return v.DamSeries[i].Date.Before(*v.DamSeries[j].Date)
		})
	}

	v.Summary = Summarize(v.DaySubset)
	return v
}

func isAllDams(dam string) bool {
	return dam == "" || strings.EqualFold(dam, AllDams)
}

// Summarize computes the headline figures for one day's readings: how many
// distinct dams reported, how many are overflowing, the median live depth
// across dams that have one, and how many have none.
func Summarize(day []Reading) Summary {
	var s Summary
	dams := make(map[string]bool)
	var depths []float64
	for _, r := range day {
		dams[r.Dam] = true
		if r.Overflowing {
			s.OverflowCount++
		}
		if r.LiveDepthFt != nil {
			depths = append(depths, *r.LiveDepthFt)
		} else {
			s.NoLiveCount++
		}
	}
	s.ReportingCount = len(dams)
	if m, ok := median(depths); ok {
		s.MedianLiveDepth = &m
	}
	return s
}

// median uses the midpoint convention for even counts: {4, 6} reports 5,
// never a sample point.
func median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}
