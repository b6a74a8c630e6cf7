package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every SimulationConfig validation failure.
var ErrInvalidConfig = errors.New("invalid simulation config")

// SimulationConfig defines the physical and economic parameters of one run.
// Units:
// - CapacityKWh: kWh
// - CRate: max charge/discharge power as a multiple of capacity (1/h)
// - Efficiency: 0..1, applied on the balancing-energy path only
// - fractions: 0..1 of capacity (MinSoCFrac, InitialSoCFrac) or of usable capacity (ReserveFraction)
// - BatteryPricePerKWh: currency per kWh installed
// - DemandTariffPerKWMonth: currency per kW of monthly peak
type SimulationConfig struct {
	CapacityKWh            float64 `json:"capacity_kwh" yaml:"capacity_kwh"`
	CRate                  float64 `json:"c_rate" yaml:"c_rate"`
	Efficiency             float64 `json:"efficiency" yaml:"efficiency"`
	MinSoCFrac             float64 `json:"min_soc_frac" yaml:"min_soc_frac"`
	InitialSoCFrac         float64 `json:"initial_soc_frac" yaml:"initial_soc_frac"`
	ReserveFraction        float64 `json:"reserve_fraction" yaml:"reserve_fraction"`
	TransformerLimitKW     float64 `json:"transformer_limit_kw" yaml:"transformer_limit_kw"`
	TimestepMinutes        float64 `json:"timestep_minutes" yaml:"timestep_minutes"`
	BatteryPricePerKWh     float64 `json:"battery_price_per_kwh" yaml:"battery_price_per_kwh"`
	OperatingCostRate      float64 `json:"operating_cost_rate" yaml:"operating_cost_rate"`
	DemandTariffPerKWMonth float64 `json:"demand_tariff_per_kw_month" yaml:"demand_tariff_per_kw_month"`

	// ReserveBlocksBalancing also subtracts the reserve from the headroom
	// available to balancing energy. Off by default: the reserve only
	// walls capacity off from peak shaving.
	ReserveBlocksBalancing bool `json:"reserve_blocks_balancing" yaml:"reserve_blocks_balancing"`
}

// DefaultSimulationConfig returns the reference site configuration.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		CapacityKWh:            1000,
		CRate:                  1.0,
		Efficiency:             0.95,
		MinSoCFrac:             0.1,
		InitialSoCFrac:         0.5,
		ReserveFraction:        0.5,
		TransformerLimitKW:     240,
		TimestepMinutes:        1,
		BatteryPricePerKWh:     400,
		OperatingCostRate:      0.01,
		DemandTariffPerKWMonth: 10,
	}
}

// TimestepHours is the tick length in hours.
func (c SimulationConfig) TimestepHours() float64 {
	return c.TimestepMinutes / 60.0
}

// Investment is the up-front battery cost.
func (c SimulationConfig) Investment() float64 {
	return c.CapacityKWh * c.BatteryPricePerKWh
}

func (c SimulationConfig) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"capacity_kwh", c.CapacityKWh},
		{"c_rate", c.CRate},
		{"efficiency", c.Efficiency},
		{"min_soc_frac", c.MinSoCFrac},
		{"initial_soc_frac", c.InitialSoCFrac},
		{"reserve_fraction", c.ReserveFraction},
		{"transformer_limit_kw", c.TransformerLimitKW},
		{"timestep_minutes", c.TimestepMinutes},
		{"battery_price_per_kwh", c.BatteryPricePerKWh},
		{"operating_cost_rate", c.OperatingCostRate},
		{"demand_tariff_per_kw_month", c.DemandTariffPerKWMonth},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidConfig, f.name)
		}
	}
	if c.CapacityKWh < 0 {
		return fmt.Errorf("%w: capacity_kwh must be >= 0", ErrInvalidConfig)
	}
	if c.CRate < 0 {
		return fmt.Errorf("%w: c_rate must be >= 0", ErrInvalidConfig)
	}
	if c.Efficiency <= 0 || c.Efficiency > 1 {
		return fmt.Errorf("%w: efficiency must be in (0, 1]", ErrInvalidConfig)
	}
	if c.MinSoCFrac < 0 || c.MinSoCFrac > 1 {
		return fmt.Errorf("%w: min_soc_frac must be in [0, 1]", ErrInvalidConfig)
	}
	if c.InitialSoCFrac < c.MinSoCFrac || c.InitialSoCFrac > 1 {
		return fmt.Errorf("%w: initial_soc_frac must be in [min_soc_frac, 1]", ErrInvalidConfig)
	}
	if c.ReserveFraction < 0 || c.ReserveFraction > 1 {
		return fmt.Errorf("%w: reserve_fraction must be in [0, 1]", ErrInvalidConfig)
	}
	if c.TransformerLimitKW < 0 {
		return fmt.Errorf("%w: transformer_limit_kw must be >= 0", ErrInvalidConfig)
	}
	if c.TimestepMinutes <= 0 {
		return fmt.Errorf("%w: timestep_minutes must be > 0", ErrInvalidConfig)
	}
	if c.BatteryPricePerKWh < 0 || c.OperatingCostRate < 0 || c.DemandTariffPerKWMonth < 0 {
		return fmt.Errorf("%w: prices and rates must be >= 0", ErrInvalidConfig)
	}
	return nil
}
