package series

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srl-backtest/internal/model"
)

func quarterHourLoad(values ...float64) []model.LoadSample {
	out := make([]model.LoadSample, len(values))
	for i, v := range values {
		out[i] = model.LoadSample{Timestamp: t0.Add(time.Duration(i) * 15 * time.Minute), PowerKW: v}
	}
	return out
}

// naiveResampleLoad rescans the whole input for every target.
func naiveResampleLoad(input []model.LoadSample, grid []time.Time) []model.LoadSample {
	out := make([]model.LoadSample, 0, len(grid))
	for _, ts := range grid {
		var prev, next *model.LoadSample
		for i := range input {
			if !input[i].Timestamp.After(ts) {
				prev = &input[i]
			} else {
				next = &input[i]
				break
			}
		}
		v := 0.0
		if prev != nil && next != nil {
			v = Interpolate(prev.Timestamp, next.Timestamp, prev.PowerKW, next.PowerKW, ts)
		}
		out = append(out, model.LoadSample{Timestamp: ts, PowerKW: v})
	}
	return out
}

func TestResampleLoad_LinearBetweenSamples(t *testing.T) {
	in := quarterHourLoad(0, 150, 300)
	grid, err := GenerateGrid(t0, t0.Add(30*time.Minute), 5*time.Minute)
	require.NoError(t, err)

	out, err := ResampleLoad(in, grid)
	require.NoError(t, err)
	require.Len(t, out, 7)

	want := []float64{0, 50, 100, 150, 200, 250}
	for i, w := range want {
		assert.InDelta(t, w, out[i].PowerKW, 1e-9, "grid point %d", i)
		assert.True(t, out[i].Timestamp.Equal(grid[i]))
	}
	// The last sample has no successor, so it falls back to zero.
	assert.Equal(t, 0.0, out[6].PowerKW)
}

func TestResampleLoad_OwnTimestampsReturnOriginals(t *testing.T) {
	in := quarterHourLoad(12.5, -3, 40, 7)
	grid := make([]time.Time, len(in))
	for i, s := range in {
		grid[i] = s.Timestamp
	}

	out, err := ResampleLoad(in, grid)
	require.NoError(t, err)
	for i := 0; i < len(in)-1; i++ {
		assert.Equal(t, in[i].PowerKW, out[i].PowerKW)
	}
	assert.Equal(t, 0.0, out[len(in)-1].PowerKW)
}

func TestResampleLoad_OutOfRangeIsZeroFilled(t *testing.T) {
	in := []model.LoadSample{
		{Timestamp: t0.Add(10 * time.Minute), PowerKW: 100},
		{Timestamp: t0.Add(20 * time.Minute), PowerKW: 200},
	}
	grid, err := GenerateGrid(t0, t0.Add(30*time.Minute), 5*time.Minute)
	require.NoError(t, err)

	out, err := ResampleLoad(in, grid)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out[0].PowerKW)
	assert.Equal(t, 0.0, out[1].PowerKW)
	assert.InDelta(t, 100, out[2].PowerKW, 1e-9)
	assert.InDelta(t, 150, out[3].PowerKW, 1e-9)
	assert.Equal(t, 0.0, out[4].PowerKW)
	assert.Equal(t, 0.0, out[6].PowerKW)
}

func TestResampleLoad_MatchesNaiveScan(t *testing.T) {
	in := []model.LoadSample{
		{Timestamp: t0.Add(3 * time.Minute), PowerKW: 10},
		{Timestamp: t0.Add(3 * time.Minute), PowerKW: 20},
		{Timestamp: t0.Add(11 * time.Minute), PowerKW: -5},
		{Timestamp: t0.Add(12*time.Minute + 30*time.Second), PowerKW: 80},
		{Timestamp: t0.Add(40 * time.Minute), PowerKW: 1},
	}
	grid, err := GenerateGrid(t0, t0.Add(45*time.Minute), time.Minute)
	require.NoError(t, err)

	got, err := ResampleLoad(in, grid)
	require.NoError(t, err)
	assert.Equal(t, naiveResampleLoad(in, grid), got)
}

func TestResampleBalancing_AllFieldsShareBracket(t *testing.T) {
	in := []model.BalancingSample{
		{Timestamp: t0, PosEnergyKWh: 0, NegEnergyKWh: -40, PosPriceEURPerMWh: 100, NegPriceEURPerMWh: -20},
		{Timestamp: t0.Add(15 * time.Minute), PosEnergyKWh: 30, NegEnergyKWh: 0, PosPriceEURPerMWh: 160, NegPriceEURPerMWh: 10},
	}
	out, err := ResampleBalancing(in, []time.Time{t0.Add(5 * time.Minute)})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.InDelta(t, 10, out[0].PosEnergyKWh, 1e-9)
	assert.InDelta(t, -80.0/3, out[0].NegEnergyKWh, 1e-9)
	assert.InDelta(t, 120, out[0].PosPriceEURPerMWh, 1e-9)
	assert.InDelta(t, -10, out[0].NegPriceEURPerMWh, 1e-9)
}

func TestResample_RejectsNonFinite(t *testing.T) {
	in := quarterHourLoad(1, math.NaN(), 3)
	_, err := ResampleLoad(in, []time.Time{t0})
	assert.ErrorIs(t, err, ErrNonFiniteValue)

	bal := []model.BalancingSample{{Timestamp: t0, NegPriceEURPerMWh: math.Inf(1)}}
	_, err = ResampleBalancing(bal, []time.Time{t0})
	assert.ErrorIs(t, err, ErrNonFiniteValue)
}

func TestResample_RejectsUnorderedInput(t *testing.T) {
	in := []model.LoadSample{
		{Timestamp: t0.Add(time.Minute), PowerKW: 1},
		{Timestamp: t0, PowerKW: 2},
	}
	_, err := ResampleLoad(in, []time.Time{t0})
	assert.ErrorIs(t, err, ErrUnorderedSeries)

	_, err = ResampleLoad(quarterHourLoad(1, 2), []time.Time{t0.Add(time.Minute), t0})
	assert.ErrorIs(t, err, ErrUnorderedSeries)
}

func TestResample_EmptyInputZeroFills(t *testing.T) {
	out, err := ResampleBalancing(nil, []time.Time{t0, t0.Add(time.Minute)})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, model.BalancingSample{Timestamp: t0}, out[0])
}
