package models

import (
	"srl-backtest/internal/model"
	"srl-backtest/internal/simulation"
)

// SimulationResponse represents the response from a simulation run
type SimulationResponse struct {
	ID      string                 `json:"id,omitempty"`
	Status  string                 `json:"status"`
	Config  model.SimulationConfig `json:"config"`
	Summary simulation.Summary     `json:"summary"`
	Ledger  []model.TickResult     `json:"ledger,omitempty"`
}

// LedgerResponse carries the per-tick trace of a cached run
type LedgerResponse struct {
	ID     string             `json:"id"`
	Ticks  int                `json:"ticks"`
	Ledger []model.TickResult `json:"ledger"`
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Ticks      int                `json:"ticks"`
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation. Error is set instead
// of Summary when the variation's config is invalid.
type ComparisonResult struct {
	Name    string                  `json:"name"`
	Config  *model.SimulationConfig `json:"config,omitempty"`
	Summary *simulation.Summary     `json:"summary,omitempty"`
	Error   *ErrorDetail            `json:"error,omitempty"`
}

// BatteryInfo represents information about a battery preset
type BatteryInfo struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	File  string       `json:"file"`
	Specs BatterySpecs `json:"specs"`
}

// BatterySpecs contains battery specifications, with defaults filled in
type BatterySpecs struct {
	CapacityKWh     float64 `json:"capacity_kwh"`
	CRate           float64 `json:"c_rate"`
	PowerKW         float64 `json:"power_kw"`
	Efficiency      float64 `json:"efficiency"`
	MinSoC          float64 `json:"min_soc"`
	ReserveFraction float64 `json:"reserve_fraction"`
	PricePerKWh     float64 `json:"price_per_kwh"`
}

// DefaultsResponse describes the configuration used when a request omits fields
type DefaultsResponse struct {
	Config model.SimulationConfig `json:"config"`
	// Derived limits of the default battery
	SoCMinKWh     float64 `json:"soc_min_kwh"`
	SoCReserveKWh float64 `json:"soc_reserve_kwh"`
	PMaxKW        float64 `json:"p_max_kw"`
	EMaxKWh       float64 `json:"e_max_kwh"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
