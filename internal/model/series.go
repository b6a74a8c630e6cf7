package model

import "time"

// LoadSample is one reading of the site's power demand.
// PowerKW is signed: positive = drawing from the grid, negative = exporting.
type LoadSample struct {
	Timestamp time.Time `json:"timestamp"`
	PowerKW   float64   `json:"power_kw"`
}

// BalancingSample is one row of the balancing-energy (SRL) series.
//
// Units:
// - PosEnergyKWh: discharge-response energy available, >= 0 by convention
// - NegEnergyKWh: charge-response energy available, <= 0 by convention
// - prices: EUR/MWh
type BalancingSample struct {
	Timestamp         time.Time `json:"timestamp"`
	PosEnergyKWh      float64   `json:"pos_energy_kwh"`
	NegEnergyKWh      float64   `json:"neg_energy_kwh"`
	PosPriceEURPerMWh float64   `json:"pos_price_eur_per_mwh"`
	NegPriceEURPerMWh float64   `json:"neg_price_eur_per_mwh"`
}

// MergedTick is the per-grid-point input to the dispatch engine.
type MergedTick struct {
	Timestamp            time.Time `json:"timestamp"`
	PowerKW              float64   `json:"power_kw"`
	SRLPosKWh            float64   `json:"srl_pos_kwh"`
	SRLNegKWh            float64   `json:"srl_neg_kwh"`
	SRLPosPriceEURPerMWh float64   `json:"srl_pos_price_eur_mwh"`
	SRLNegPriceEURPerMWh float64   `json:"srl_neg_price_eur_mwh"`
}

// TickResult captures what happened in one tick. It is the primary artifact
// of a simulation run.
type TickResult struct {
	Timestamp time.Time `json:"timestamp"`

	// Inputs
	OriginalPowerKW float64 `json:"original_power_kw"`
	SRLPosKWh       float64 `json:"srl_pos_kwh"`
	SRLNegKWh       float64 `json:"srl_neg_kwh"`

	// Peak shaving
	BatteryInKW  float64 `json:"battery_in_kw"`
	BatteryOutKW float64 `json:"battery_out_kw"`
	Action       Action  `json:"action"`

	// Balancing energy fulfilled
	SRLEnergyInKWh  float64 `json:"srl_energy_in_kwh"`
	SRLEnergyOutKWh float64 `json:"srl_energy_out_kwh"`

	SoCKWh     float64 `json:"soc_kwh"`
	SoCPercent float64 `json:"soc_percent"`

	OriginalGridKW       float64 `json:"original_grid_kw"`
	FinalGridKW          float64 `json:"final_grid_kw"`
	TransformerViolation bool    `json:"transformer_violation"`

	SRLRevenuePos float64 `json:"srl_revenue_pos"`
	SRLRevenueNeg float64 `json:"srl_revenue_neg"`
}

// GridNetKW is the net grid power after peak shaving.
func (r TickResult) GridNetKW() float64 {
	return r.FinalGridKW
}

// Revenue is the balancing-energy revenue of this tick.
func (r TickResult) Revenue() float64 {
	return r.SRLRevenuePos + r.SRLRevenueNeg
}
