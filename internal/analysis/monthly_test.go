package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func TestMonthlyPeaks(t *testing.T) {
	months := MonthlyPeaks([]PeakSample{
		{Timestamp: at(2024, 1, 3), BeforeKW: 100, AfterKW: 60},
		{Timestamp: at(2024, 1, 20), BeforeKW: 80, AfterKW: 60},
		{Timestamp: at(2024, 2, 1), BeforeKW: 50, AfterKW: 70},
	}, 10)

	require.Len(t, months, 2)
	assert.Equal(t, MonthPeak{Year: 2024, Month: time.January, BeforeKW: 100, AfterKW: 60, SavedKW: 40, SavedCost: 400}, months[0])
	assert.Equal(t, MonthPeak{Year: 2024, Month: time.February, BeforeKW: 50, AfterKW: 70}, months[1])
	assert.InDelta(t, 400, TotalSavings(months), 1e-9)
}

func TestMonthlyPeaks_SameMonthDifferentYear(t *testing.T) {
	months := MonthlyPeaks([]PeakSample{
		{Timestamp: at(2023, 5, 1), BeforeKW: 10, AfterKW: 5},
		{Timestamp: at(2024, 5, 1), BeforeKW: 20, AfterKW: 5},
	}, 1)
	require.Len(t, months, 2)
	assert.Equal(t, 2023, months[0].Year)
	assert.Equal(t, 2024, months[1].Year)
	assert.InDelta(t, 20, TotalSavings(months), 1e-9)
}

func TestMonthlyPeaks_NegativeValuesKeepFirstSeen(t *testing.T) {
	// An all-export month must not report a 0 kW peak.
	months := MonthlyPeaks([]PeakSample{
		{Timestamp: at(2024, 6, 1), BeforeKW: -30, AfterKW: -10},
		{Timestamp: at(2024, 6, 2), BeforeKW: -20, AfterKW: -40},
	}, 10)
	require.Len(t, months, 1)
	assert.InDelta(t, -20, months[0].BeforeKW, 1e-9)
	assert.InDelta(t, -10, months[0].AfterKW, 1e-9)
	assert.Zero(t, months[0].SavedKW)
}

func TestMonthlyPeaks_Empty(t *testing.T) {
	assert.Empty(t, MonthlyPeaks(nil, 10))
	assert.Zero(t, TotalSavings(nil))
}
