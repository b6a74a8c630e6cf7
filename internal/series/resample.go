package series

import (
	"fmt"
	"math"
	"time"

	"srl-backtest/internal/model"
)

// fieldSet describes how to read and rebuild the numeric fields of a sample type.
type fieldSet[T any] struct {
	names     []string
	timestamp func(T) time.Time
	values    func(T) []float64
	build     func(time.Time, []float64) T
}

var loadFields = fieldSet[model.LoadSample]{
	names:     []string{"power_kw"},
	timestamp: func(s model.LoadSample) time.Time { return s.Timestamp },
	values:    func(s model.LoadSample) []float64 { return []float64{s.PowerKW} },
	build: func(t time.Time, v []float64) model.LoadSample {
		return model.LoadSample{Timestamp: t, PowerKW: v[0]}
	},
}

var balancingFields = fieldSet[model.BalancingSample]{
	names:     []string{"pos_energy_kwh", "neg_energy_kwh", "pos_price_eur_per_mwh", "neg_price_eur_per_mwh"},
	timestamp: func(s model.BalancingSample) time.Time { return s.Timestamp },
	values: func(s model.BalancingSample) []float64 {
		return []float64{s.PosEnergyKWh, s.NegEnergyKWh, s.PosPriceEURPerMWh, s.NegPriceEURPerMWh}
	},
	build: func(t time.Time, v []float64) model.BalancingSample {
		return model.BalancingSample{
			Timestamp:         t,
			PosEnergyKWh:      v[0],
			NegEnergyKWh:      v[1],
			PosPriceEURPerMWh: v[2],
			NegPriceEURPerMWh: v[3],
		}
	},
}

// ResampleLoad projects a load series onto grid. See resample for the rules.
func ResampleLoad(input []model.LoadSample, grid []time.Time) ([]model.LoadSample, error) {
	return resample(input, grid, loadFields)
}

// ResampleBalancing projects a balancing-energy series onto grid, all four
// fields against the same bracket.
func ResampleBalancing(input []model.BalancingSample, grid []time.Time) ([]model.BalancingSample, error) {
	return resample(input, grid, balancingFields)
}

// resample emits one record per grid point. For target t, prev is the last
// input sample with timestamp <= t and next the first with timestamp > t.
// With both present every field is interpolated on (prev, next, t); otherwise
// the record is zero-filled. No extrapolation, no clamping to the nearest sample.
//
// Both input and grid are time-ordered, so a single forward cursor replaces
// the per-target rescan while selecting the same bracket.
func resample[T any](input []T, grid []time.Time, fs fieldSet[T]) ([]T, error) {
	if err := validateInput(input, fs); err != nil {
		return nil, err
	}
	if err := validateGrid(grid); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(grid))
	zero := make([]float64, len(fs.names))
	idx := 0 // count of input samples with timestamp <= current target
	for _, ts := range grid {
		for idx < len(input) && !fs.timestamp(input[idx]).After(ts) {
			idx++
		}
		if idx == 0 || idx == len(input) {
			out = append(out, fs.build(ts, zero))
			continue
		}

		prev, next := input[idx-1], input[idx]
		t0, t1 := fs.timestamp(prev), fs.timestamp(next)
		pv, nv := fs.values(prev), fs.values(next)
		vals := make([]float64, len(pv))
		for i := range pv {
			vals[i] = Interpolate(t0, t1, pv[i], nv[i], ts)
		}
		out = append(out, fs.build(ts, vals))
	}
	return out, nil
}

func validateInput[T any](input []T, fs fieldSet[T]) error {
	for i, s := range input {
		if i > 0 && fs.timestamp(s).Before(fs.timestamp(input[i-1])) {
			return fmt.Errorf("%w: input timestamp at index %d precedes index %d", ErrUnorderedSeries, i, i-1)
		}
		for j, v := range fs.values(s) {
			if !isFinite(v) {
				return fmt.Errorf("%w: %s at index %d", ErrNonFiniteValue, fs.names[j], i)
			}
		}
	}
	return nil
}

func validateGrid(grid []time.Time) error {
	for i := 1; i < len(grid); i++ {
		if !grid[i].After(grid[i-1]) {
			return fmt.Errorf("%w: grid point %d is not after %d", ErrUnorderedSeries, i, i-1)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
