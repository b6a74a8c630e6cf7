package series

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"srl-backtest/internal/model"
)

func TestResampler_AlignSpansLoadSeries(t *testing.T) {
	in := model.SimulationInputs{
		Load: quarterHourLoad(0, 15, 30),
		Balancing: []model.BalancingSample{
			{Timestamp: t0.Add(-15 * time.Minute), PosEnergyKWh: 0},
			{Timestamp: t0.Add(45 * time.Minute), PosEnergyKWh: 60},
		},
	}
	r := NewResampler(zaptest.NewLogger(t))

	a, err := r.Align(context.Background(), in, time.Minute)
	require.NoError(t, err)
	assert.Len(t, a.Grid, 31)
	assert.Len(t, a.Load, 31)
	assert.Len(t, a.Balancing, 31)
	require.Len(t, a.Merged, 31)

	assert.InDelta(t, 1, a.Merged[1].PowerKW, 1e-9)
	// balancing bracket is [-15min, 45min] -> 1 kWh per minute from 15 at t0
	assert.InDelta(t, 15, a.Merged[0].SRLPosKWh, 1e-9)
	assert.InDelta(t, 25, a.Merged[10].SRLPosKWh, 1e-9)
	assert.True(t, a.Merged[30].Timestamp.Equal(t0.Add(30*time.Minute)))
}

func TestResampler_ResampleAndMergeEmptyLoad(t *testing.T) {
	r := NewResampler(nil)
	_, err := r.ResampleAndMerge(context.Background(), model.SimulationInputs{}, time.Minute)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestResampler_PropagatesInputErrors(t *testing.T) {
	in := model.SimulationInputs{
		Load: quarterHourLoad(1, 2),
		Balancing: []model.BalancingSample{
			{Timestamp: t0.Add(time.Minute)},
			{Timestamp: t0},
		},
	}
	_, err := NewResampler(nil).ResampleAndMerge(context.Background(), in, time.Minute)
	assert.ErrorIs(t, err, ErrUnorderedSeries)
}

func TestResampler_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewResampler(nil).ResampleAndMerge(ctx, model.SimulationInputs{Load: quarterHourLoad(1, 2)}, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
