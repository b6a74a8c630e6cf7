package simulation

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"srl-backtest/internal/model"
	"srl-backtest/internal/series"
)

type Engine struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger.Named("engine")}
}

// Run folds the merged ticks through one battery, in order. Balancing energy
// is served first, peak shaving second against the remaining headroom.
// It fails on an invalid config or a non-finite tick field; an empty tick
// slice yields an empty result.
func (e *Engine) Run(ticks []model.MergedTick, cfg model.SimulationConfig) (*Result, error) {
	batt, err := model.NewBattery(cfg)
	if err != nil {
		return nil, fmt.Errorf("battery config: %w", err)
	}
	if err := series.CheckFinite(ticks); err != nil {
		return nil, err
	}
	initial := batt.State.SoCKWh

	results := make([]model.TickResult, 0, len(ticks))
	revenue := 0.0
	violations := 0

	for _, tick := range ticks {
		res := step(batt, tick, cfg.TransformerLimitKW)
		revenue += res.Revenue()
		if res.TransformerViolation {
			violations++
		}
		results = append(results, res)
	}

	e.logger.Info("simulation finished",
		zap.Int("ticks", len(results)),
		zap.Float64("initial_soc_kwh", initial),
		zap.Float64("final_soc_kwh", batt.State.SoCKWh),
		zap.Float64("srl_revenue", revenue),
		zap.Int("transformer_violations", violations),
	)

	return &Result{
		Ticks:         results,
		InitialSoCKWh: initial,
		FinalSoCKWh:   batt.State.SoCKWh,
		SRLRevenue:    revenue,
	}, nil
}

// step applies one tick to batt and returns the immutable record of it.
func step(batt *model.Battery, tick model.MergedTick, limitKW float64) model.TickResult {
	res := model.TickResult{
		Timestamp:       tick.Timestamp,
		OriginalPowerKW: tick.PowerKW,
		SRLPosKWh:       tick.SRLPosKWh,
		SRLNegKWh:       tick.SRLNegKWh,
		OriginalGridKW:  tick.PowerKW,
	}

	// 1. Balancing energy: at most one direction per tick.
	if tick.SRLPosKWh > 0 {
		out := batt.DischargeBalancing(tick.SRLPosKWh)
		res.SRLEnergyOutKWh = out
		res.SRLRevenuePos = out * (tick.SRLPosPriceEURPerMWh / 1000)
	} else if tick.SRLNegKWh < 0 {
		in := batt.ChargeBalancing(-tick.SRLNegKWh)
		res.SRLEnergyInKWh = in
		res.SRLRevenueNeg = -in * (tick.SRLNegPriceEURPerMWh / 1000)
	}

	// 2. Peak shaving on the post-balancing state.
	if tick.PowerKW > 0 {
		res.BatteryOutKW = batt.ShavePeak(tick.PowerKW)
	} else if tick.PowerKW < 0 {
		res.BatteryInKW = batt.AbsorbExport(-tick.PowerKW)
	}
	res.Action = model.ActionFromFlows(res.BatteryInKW, res.BatteryOutKW)

	// 3. Safety net against drift.
	batt.Clamp()

	// 4. Grid outcome: flagged, never curtailed.
	res.FinalGridKW = tick.PowerKW + res.BatteryInKW - res.BatteryOutKW
	res.TransformerViolation = math.Abs(res.FinalGridKW) > limitKW

	res.SoCKWh = batt.State.SoCKWh
	res.SoCPercent = batt.SoCPercent()
	return res
}
