package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func dptr(t time.Time) *time.Time { return &t }

func TestSummarize(t *testing.T) {
	t.Run("median splits the difference on even counts", func(t *testing.T) {
		s := Summarize([]Reading{
			{Dam: "A", LiveDepthFt: fptr(4.0)},
			{Dam: "B"},
			{Dam: "C", LiveDepthFt: fptr(6.0)},
		})

		assert.Equal(t, 3, s.ReportingCount)
		require.NotNil(t, s.MedianLiveDepth)
		assert.Equal(t, 5.0, *s.MedianLiveDepth)
		assert.Equal(t, 1, s.NoLiveCount)
		assert.Equal(t, 0, s.OverflowCount)
	})

	t.Run("odd count takes the middle value", func(t *testing.T) {
		s := Summarize([]Reading{
			{Dam: "A", LiveDepthFt: fptr(9.0)},
			{Dam: "B", LiveDepthFt: fptr(1.0)},
			{Dam: "C", LiveDepthFt: fptr(3.0)},
		})

		require.NotNil(t, s.MedianLiveDepth)
		assert.Equal(t, 3.0, *s.MedianLiveDepth)
	})

	t.Run("counts overflowing dams", func(t *testing.T) {
		s := Summarize([]Reading{
			{Dam: "A", Overflowing: true},
			{Dam: "B", Overflowing: true},
			{Dam: "C"},
		})

		assert.Equal(t, 2, s.OverflowCount)
	})

	t.Run("duplicate dam names report once", func(t *testing.T) {
		s := Summarize([]Reading{
			{Dam: "A", LiveDepthFt: fptr(2.0)},
			{Dam: "A", LiveDepthFt: fptr(2.5)},
			{Dam: "B"},
		})

		assert.Equal(t, 2, s.ReportingCount)
	})

	t.Run("no live depths means no median", func(t *testing.T) {
		s := Summarize([]Reading{{Dam: "A"}, {Dam: "B"}})

		assert.Nil(t, s.MedianLiveDepth)
		assert.Equal(t, 2, s.NoLiveCount)
	})

	t.Run("empty day", func(t *testing.T) {
		s := Summarize(nil)

		assert.Zero(t, s.ReportingCount)
		assert.Zero(t, s.OverflowCount)
		assert.Zero(t, s.NoLiveCount)
		assert.Nil(t, s.MedianLiveDepth)
	})
}

func TestDatesAndDamNames(t *testing.T) {
	readings := []Reading{
		{Dam: "Misriot", Date: dptr(day(2024, 1, 5))},
		{Dam: "Khari", Date: dptr(day(2024, 1, 4))},
		{Dam: "Khari", Date: dptr(day(2024, 1, 5))},
		{Dam: "Jabba"},
	}

	t.Run("dates are distinct and ascending", func(t *testing.T) {
		assert.Equal(t, []time.Time{day(2024, 1, 4), day(2024, 1, 5)}, Dates(readings))
	})

	t.Run("latest date", func(t *testing.T) {
		latest, ok := LatestDate(readings)
		require.True(t, ok)
		assert.Equal(t, day(2024, 1, 5), latest)
	})

	t.Run("no dates anywhere", func(t *testing.T) {
		_, ok := LatestDate([]Reading{{Dam: "Jabba"}})
		assert.False(t, ok)
	})

	t.Run("dam names are distinct and sorted", func(t *testing.T) {
		assert.Equal(t, []string{"Jabba", "Khari", "Misriot"}, DamNames(readings))
	})
}

func TestBuildView(t *testing.T) {
	d4, d5 := day(2024, 1, 4), day(2024, 1, 5)
	readings := []Reading{
		{Dam: "Misriot", Date: dptr(d4), Overflowing: true},
		{Dam: "Khari", Date: dptr(d4), LiveDepthFt: fptr(9.8)},
		{Dam: "Misriot", Date: dptr(d5), LiveDepthFt: fptr(0.2)},
		{Dam: "Khari", Date: dptr(d5), LiveDepthFt: fptr(9.6)},
		{Dam: "Jabba"},
	}

	t.Run("defaults to the latest date across all dams", func(t *testing.T) {
		v := BuildView(readings, time.Time{}, "")

		require.NotNil(t, v.Date)
		assert.Equal(t, d5, *v.Date)
		assert.Equal(t, AllDams, v.Dam)
		require.Len(t, v.DaySubset, 2)
		assert.Equal(t, "Khari", v.DaySubset[0].Dam)
		assert.Equal(t, "Misriot", v.DaySubset[1].Dam)
		assert.Equal(t, v.DaySubset, v.DamSeries)
		assert.Equal(t, 2, v.Summary.ReportingCount)
	})

	t.Run("explicit date picks that day", func(t *testing.T) {
		v := BuildView(readings, d4, "")

		require.NotNil(t, v.Date)
		assert.Equal(t, d4, *v.Date)
		require.Len(t, v.DaySubset, 2)
		assert.Equal(t, 1, v.Summary.OverflowCount)
	})

	t.Run("named dam gets its history in date order", func(t *testing.T) {
		v := BuildView(readings, time.Time{}, "Khari")

		assert.Equal(t, "Khari", v.Dam)
		require.Len(t, v.DamSeries, 2)
		assert.Equal(t, d4, *v.DamSeries[0].Date)
		assert.Equal(t, d5, *v.DamSeries[1].Date)
		// Day subset stays dam-independent.
		assert.Len(t, v.DaySubset, 2)
	})

	t.Run("dateless rows never enter a series", func(t *testing.T) {
		v := BuildView(readings, time.Time{}, "Jabba")
		assert.Empty(t, v.DamSeries)
	})

	t.Run("all sentinel is case-insensitive", func(t *testing.T) {
		v := BuildView(readings, time.Time{}, "All")
		assert.Equal(t, AllDams, v.Dam)
		assert.Equal(t, v.DaySubset, v.DamSeries)
	})

	t.Run("table with no dates yields an empty view", func(t *testing.T) {
		v := BuildView([]Reading{{Dam: "Jabba"}}, time.Time{}, "")

		assert.Nil(t, v.Date)
		assert.Empty(t, v.DaySubset)
		assert.Empty(t, v.DamSeries)
		assert.Zero(t, v.Summary.ReportingCount)
	})
}
