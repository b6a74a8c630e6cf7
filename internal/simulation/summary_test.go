package simulation

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srl-backtest/internal/model"
)

func runTicks(t *testing.T, cfg model.SimulationConfig, ticks ...model.MergedTick) []model.TickResult {
	t.Helper()
	res, err := New(nil).Run(ticks, cfg)
	require.NoError(t, err)
	return res.Ticks
}

func TestSummarize_SingleShavedTick(t *testing.T) {
	cfg := hourlyConfig()
	s := Summarize(runTicks(t, cfg, model.MergedTick{Timestamp: start, PowerKW: 50}), cfg)

	assert.Equal(t, 1, s.TotalTicks)
	assert.Equal(t, start, s.PeriodStart)
	assert.Equal(t, start, s.PeriodEnd)
	assert.InDelta(t, 50, s.TotalPSOutKWh, 1e-9)
	assert.Zero(t, s.TotalPSInKWh)
	assert.Zero(t, s.TotalSRLRevenue)
	require.Len(t, s.Months, 1)
	assert.InDelta(t, 50, s.Months[0].SavedKW, 1e-9)
	assert.InDelta(t, 500, s.PeakShavingSavings, 1e-9)
	assert.InDelta(t, 40000, s.Investment, 1e-9)
	assert.InDelta(t, 400, s.OperatingCost, 1e-9)
	assert.InDelta(t, 500, s.TotalRevenue, 1e-9)
	require.NotNil(t, s.AmortizationYears)
	assert.InDelta(t, 80.8, *s.AmortizationYears, 1e-9)

	// SoC never moved within the run, so the cycle count has no range to divide by.
	assert.Zero(t, s.BatteryCycles)
}

func TestSummarize_NoRevenueHasNoAmortization(t *testing.T) {
	cfg := hourlyConfig()
	results := runTicks(t, cfg,
		model.MergedTick{Timestamp: start},
		model.MergedTick{Timestamp: start.Add(time.Hour)},
	)
	s := Summarize(results, cfg)

	assert.Zero(t, s.TotalRevenue)
	assert.Nil(t, s.AmortizationYears)

	var buf bytes.Buffer
	require.NoError(t, s.Render(&buf))
	assert.Contains(t, buf.String(), "not achievable")
}

func TestSummarize_MonthlyPeaks(t *testing.T) {
	cfg := hourlyConfig()
	results := []model.TickResult{
		{Timestamp: start, OriginalGridKW: 100, FinalGridKW: 60},
		{Timestamp: start.Add(time.Hour), OriginalGridKW: 80, FinalGridKW: 60},
		{Timestamp: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC), OriginalGridKW: 30, FinalGridKW: 40},
	}
	s := Summarize(results, cfg)

	require.Len(t, s.Months, 2)
	assert.Equal(t, time.March, s.Months[0].Month)
	assert.InDelta(t, 100, s.Months[0].BeforeKW, 1e-9)
	assert.InDelta(t, 60, s.Months[0].AfterKW, 1e-9)
	assert.InDelta(t, 40, s.Months[0].SavedKW, 1e-9)
	assert.InDelta(t, 400, s.Months[0].SavedCost, 1e-9)
	assert.Equal(t, time.April, s.Months[1].Month)
	assert.Zero(t, s.Months[1].SavedKW)
	assert.InDelta(t, 400, s.PeakShavingSavings, 1e-9)
}

func TestSummarize_Cycles(t *testing.T) {
	cfg := hourlyConfig()
	s := Summarize(runTicks(t, cfg,
		model.MergedTick{Timestamp: start, PowerKW: 50},
		model.MergedTick{Timestamp: start.Add(time.Hour), PowerKW: -30},
	), cfg)

	assert.InDelta(t, 0, s.MinSoCKWh, 1e-9)
	assert.InDelta(t, 30, s.MaxSoCKWh, 1e-9)
	assert.InDelta(t, 80.0/60.0, s.BatteryCycles, 1e-9)
}

func TestSummarize_BalancingTotals(t *testing.T) {
	cfg := hourlyConfig()
	s := Summarize(runTicks(t, cfg,
		model.MergedTick{Timestamp: start, SRLPosKWh: 10, SRLPosPriceEURPerMWh: 200},
		model.MergedTick{Timestamp: start.Add(time.Hour), SRLNegKWh: -4, SRLNegPriceEURPerMWh: -100},
	), cfg)

	assert.InDelta(t, 10, s.TotalSRLOutKWh, 1e-9)
	assert.InDelta(t, 4, s.TotalSRLInKWh, 1e-9)
	assert.InDelta(t, 2+0.4, s.TotalSRLRevenue, 1e-9)
	assert.InDelta(t, 40, s.MinSoCKWh, 1e-9)
	assert.InDelta(t, 44, s.MaxSoCKWh, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, hourlyConfig())
	assert.Zero(t, s.TotalTicks)
	assert.Zero(t, s.MinSoCKWh)
	assert.Zero(t, s.MaxSoCKWh)
	assert.Zero(t, s.BatteryCycles)
	assert.Empty(t, s.Months)
	assert.Nil(t, s.AmortizationYears)
}

func TestRender(t *testing.T) {
	cfg := hourlyConfig()
	s := Summarize(runTicks(t, cfg, model.MergedTick{Timestamp: start, PowerKW: 50}), cfg)

	var buf bytes.Buffer
	require.NoError(t, s.Render(&buf))
	out := buf.String()
	assert.Contains(t, out, "Simulation Summary")
	assert.Contains(t, out, "2024-03 peak")
	assert.Contains(t, out, "80.80 years")
}
