package series

import (
	"fmt"

	"go.uber.org/zap"

	"srl-backtest/internal/model"
)

// Merge zips two resampled series by position into MergedTicks, taking the
// timestamp from the load series. Inputs of different length are truncated
// to the shorter one; that and any timestamp misalignment are logged as
// warnings, not returned as errors.
func Merge(load []model.LoadSample, balancing []model.BalancingSample, logger *zap.Logger) ([]model.MergedTick, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	n := len(load)
	if len(balancing) < n {
		n = len(balancing)
	}
	if len(load) != len(balancing) {
		logger.Warn("merging series of different length, truncating to the shorter",
			zap.Int("load_len", len(load)),
			zap.Int("balancing_len", len(balancing)),
			zap.Int("dropped", abs(len(load)-len(balancing))),
		)
	}

	out := make([]model.MergedTick, 0, n)
	misaligned := 0
	for i := 0; i < n; i++ {
		l, b := load[i], balancing[i]
		if !l.Timestamp.Equal(b.Timestamp) {
			misaligned++
		}
		tick := model.MergedTick{
			Timestamp:            l.Timestamp,
			PowerKW:              l.PowerKW,
			SRLPosKWh:            b.PosEnergyKWh,
			SRLNegKWh:            b.NegEnergyKWh,
			SRLPosPriceEURPerMWh: b.PosPriceEURPerMWh,
			SRLNegPriceEURPerMWh: b.NegPriceEURPerMWh,
		}
		if err := validateTick(i, tick); err != nil {
			return nil, err
		}
		out = append(out, tick)
	}
	if misaligned > 0 {
		logger.Warn("merged series are not on the same grid",
			zap.Int("misaligned_ticks", misaligned),
			zap.Int("ticks", n),
		)
	}
	return out, nil
}

// CheckFinite reports the first tick carrying a NaN or Inf field.
func CheckFinite(ticks []model.MergedTick) error {
	for i, t := range ticks {
		if err := validateTick(i, t); err != nil {
			return err
		}
	}
	return nil
}

func validateTick(i int, t model.MergedTick) error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"power_kw", t.PowerKW},
		{"srl_pos_kwh", t.SRLPosKWh},
		{"srl_neg_kwh", t.SRLNegKWh},
		{"srl_pos_price_eur_mwh", t.SRLPosPriceEURPerMWh},
		{"srl_neg_price_eur_mwh", t.SRLNegPriceEURPerMWh},
	} {
		if !isFinite(f.v) {
			return fmt.Errorf("%w: %s at tick %d", ErrNonFiniteValue, f.name, i)
		}
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
