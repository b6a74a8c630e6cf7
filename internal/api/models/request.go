package models

import "srl-backtest/internal/model"

// SimulationRequest represents the request body for running a simulation
type SimulationRequest struct {
	Inputs  model.SimulationInputs `json:"inputs"`
	Config  SimulationConfig       `json:"config"`
	Options SimulationOptions      `json:"options,omitempty"`
}

// SimulationConfig overrides the default site configuration. Omitted fields
// keep their defaults; pointers let an explicit 0 through.
type SimulationConfig struct {
	// BatteryFile names a preset in the battery directory, without ".yaml".
	BatteryFile string        `json:"battery_file,omitempty"`
	Battery     BatteryConfig `json:"battery,omitempty"`

	OperatingCostRate      *float64 `json:"operating_cost_rate,omitempty"`
	DemandTariffPerKWMonth *float64 `json:"demand_tariff_per_kw_month,omitempty"`
	TimestepMinutes        *float64 `json:"timestep_minutes,omitempty"`
	TransformerLimitKW     *float64 `json:"transformer_limit_kw,omitempty"`
	ReserveBlocksBalancing *bool    `json:"reserve_blocks_balancing,omitempty"`
}

// BatteryConfig defines battery parameters
type BatteryConfig struct {
	Name            string   `json:"name,omitempty"`
	CapacityKWh     *float64 `json:"capacity_kwh,omitempty"`
	CRate           *float64 `json:"c_rate,omitempty"`
	Efficiency      *float64 `json:"efficiency,omitempty"`
	MinSoC          *float64 `json:"min_soc,omitempty"`
	InitialSoC      *float64 `json:"initial_soc,omitempty"`
	ReserveFraction *float64 `json:"reserve_fraction,omitempty"`
	PricePerKWh     *float64 `json:"price_per_kwh,omitempty"`
}

// SimulationOptions contains optional run parameters
type SimulationOptions struct {
	LimitTicks    int  `json:"limit_ticks,omitempty"`    // 0 = all
	IncludeLedger bool `json:"include_ledger,omitempty"` // default: false
}

// CompareRequest runs several configurations over the same inputs
type CompareRequest struct {
	Inputs     model.SimulationInputs `json:"inputs"`
	BaseConfig SimulationConfig       `json:"base_config"`
	Variations []Variation            `json:"variations" binding:"required,min=1,dive"`
}

// Variation defines a configuration to compare against the others
type Variation struct {
	Name   string           `json:"name" binding:"required"`
	Config SimulationConfig `json:"config"`
}
