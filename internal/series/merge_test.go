package series

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"srl-backtest/internal/model"
)

func balancingAt(n int, step time.Duration) []model.BalancingSample {
	out := make([]model.BalancingSample, n)
	for i := range out {
		out[i] = model.BalancingSample{
			Timestamp:         t0.Add(time.Duration(i) * step),
			PosEnergyKWh:      float64(i),
			NegEnergyKWh:      -float64(i),
			PosPriceEURPerMWh: 100,
			NegPriceEURPerMWh: -50,
		}
	}
	return out
}

func TestMerge_ZipsByPosition(t *testing.T) {
	load := quarterHourLoad(10, 20, 30)
	bal := balancingAt(3, 15*time.Minute)

	ticks, err := Merge(load, bal, nil)
	require.NoError(t, err)
	require.Len(t, ticks, 3)
	assert.Equal(t, model.MergedTick{
		Timestamp:            load[2].Timestamp,
		PowerKW:              30,
		SRLPosKWh:            2,
		SRLNegKWh:            -2,
		SRLPosPriceEURPerMWh: 100,
		SRLNegPriceEURPerMWh: -50,
	}, ticks[2])
}

func TestMerge_TruncatesAndWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	load := quarterHourLoad(1, 2, 3, 4, 5)
	bal := balancingAt(3, 15*time.Minute)

	ticks, err := Merge(load, bal, zap.New(core))
	require.NoError(t, err)
	assert.Len(t, ticks, 3)

	entries := logs.FilterMessageSnippet("different length").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["dropped"])
}

func TestMerge_WarnsOnMisalignedGrid(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	load := quarterHourLoad(1, 2)
	bal := balancingAt(2, time.Minute)

	ticks, err := Merge(load, bal, zap.New(core))
	require.NoError(t, err)
	require.Len(t, ticks, 2)
	assert.True(t, ticks[1].Timestamp.Equal(load[1].Timestamp))
	assert.Equal(t, 1, logs.FilterMessageSnippet("not on the same grid").Len())
}

func TestMerge_RejectsNonFinite(t *testing.T) {
	load := quarterHourLoad(1)
	bal := balancingAt(1, time.Minute)
	bal[0].PosPriceEURPerMWh = math.Inf(-1)

	_, err := Merge(load, bal, nil)
	assert.ErrorIs(t, err, ErrNonFiniteValue)
}

func TestCheckFinite(t *testing.T) {
	ticks := []model.MergedTick{{Timestamp: t0, PowerKW: 1}, {Timestamp: t0.Add(time.Minute), PowerKW: math.NaN()}}
	assert.NoError(t, CheckFinite(ticks[:1]))
	assert.NoError(t, CheckFinite(nil))

	err := CheckFinite(ticks)
	require.ErrorIs(t, err, ErrNonFiniteValue)
	assert.Contains(t, err.Error(), "power_kw at tick 1")
}
