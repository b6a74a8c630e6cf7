package model

import (
	"math"
)

// BatteryLimits are the per-run constants derived from a SimulationConfig.
// Units:
// - SoC bounds and reserve: kWh
// - PMaxKW: kW
// - EMaxKWh: max energy transferable in one tick, kWh
type BatteryLimits struct {
	SoCMinKWh     float64
	SoCMaxKWh     float64
	SoCReserveKWh float64
	PMaxKW        float64
	TimestepHours float64
	EMaxKWh       float64
	Efficiency    float64

	ReserveBlocksBalancing bool
}

// BatteryState captures mutable state.
type BatteryState struct {
	SoCKWh float64
}

// Battery bundles the derived limits with the state of charge of one run.
// It is not safe for concurrent use; the dispatch engine owns it exclusively.
type Battery struct {
	Limits BatteryLimits
	State  BatteryState
}

func NewBattery(cfg SimulationConfig) (*Battery, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	socMin := cfg.CapacityKWh * cfg.MinSoCFrac
	socMax := cfg.CapacityKWh
	pMax := cfg.CapacityKWh * cfg.CRate
	dtH := cfg.TimestepHours()
	return &Battery{
		Limits: BatteryLimits{
			SoCMinKWh:              socMin,
			SoCMaxKWh:              socMax,
			SoCReserveKWh:          (socMax - socMin) * cfg.ReserveFraction,
			PMaxKW:                 pMax,
			TimestepHours:          dtH,
			EMaxKWh:                pMax * dtH,
			Efficiency:             cfg.Efficiency,
			ReserveBlocksBalancing: cfg.ReserveBlocksBalancing,
		},
		State: BatteryState{SoCKWh: cfg.CapacityKWh * cfg.InitialSoCFrac},
	}, nil
}

// UsableKWh is the span between the SoC floor and ceiling.
func (b *Battery) UsableKWh() float64 {
	return b.Limits.SoCMaxKWh - b.Limits.SoCMinKWh
}

// DischargeBalancing serves a positive balancing request and returns the
// energy delivered to the grid (kWh). The battery withdraws fulfilled/efficiency.
func (b *Battery) DischargeBalancing(requestedKWh float64) float64 {
	if requestedKWh <= 0 {
		return 0
	}
	avail := math.Max(b.State.SoCKWh-b.Limits.SoCMinKWh-b.balancingReserve(), 0)
	limit := math.Min(avail*b.Limits.Efficiency, b.Limits.EMaxKWh)
	fulfilled := math.Min(requestedKWh, limit)
	b.State.SoCKWh -= fulfilled / b.Limits.Efficiency
	return fulfilled
}

// ChargeBalancing absorbs a negative balancing request. requestedKWh is the
// magnitude pulled from the grid; the battery stores fulfilled*efficiency.
func (b *Battery) ChargeBalancing(requestedKWh float64) float64 {
	if requestedKWh <= 0 {
		return 0
	}
	room := math.Max(b.Limits.SoCMaxKWh-b.State.SoCKWh-b.balancingReserve(), 0)
	limit := math.Min(room/b.Limits.Efficiency, b.Limits.EMaxKWh)
	fulfilled := math.Min(requestedKWh, limit)
	b.State.SoCKWh += fulfilled * b.Limits.Efficiency
	return fulfilled
}

// ShavePeak discharges against a site draw of drawKW and returns the
// discharge power (kW). Peak shaving is modelled without conversion losses
// and never touches the reserve.
func (b *Battery) ShavePeak(drawKW float64) float64 {
	if drawKW <= 0 || b.Limits.TimestepHours <= 0 {
		return 0
	}
	desired := math.Min(drawKW, b.Limits.PMaxKW) * b.Limits.TimestepHours
	limit := math.Max(b.State.SoCKWh-b.Limits.SoCMinKWh-b.Limits.SoCReserveKWh, 0)
	fulfilled := math.Min(desired, limit)
	b.State.SoCKWh -= fulfilled
	return fulfilled / b.Limits.TimestepHours
}

// AbsorbExport charges from a site export of exportKW and returns the
// charge power (kW).
func (b *Battery) AbsorbExport(exportKW float64) float64 {
	if exportKW <= 0 || b.Limits.TimestepHours <= 0 {
		return 0
	}
	desired := math.Min(exportKW, b.Limits.PMaxKW) * b.Limits.TimestepHours
	limit := math.Max(b.Limits.SoCMaxKWh-b.State.SoCKWh-b.Limits.SoCReserveKWh, 0)
	fulfilled := math.Min(desired, limit)
	b.State.SoCKWh += fulfilled
	return fulfilled / b.Limits.TimestepHours
}

// Clamp forces SoC back into [SoCMinKWh, SoCMaxKWh] after floating-point drift.
func (b *Battery) Clamp() {
	if b.State.SoCKWh < b.Limits.SoCMinKWh {
		b.State.SoCKWh = b.Limits.SoCMinKWh
	}
	if b.State.SoCKWh > b.Limits.SoCMaxKWh {
		b.State.SoCKWh = b.Limits.SoCMaxKWh
	}
}

// SoCPercent is the position within the usable window, 0 when the window is empty.
func (b *Battery) SoCPercent() float64 {
	usable := b.UsableKWh()
	if usable <= 0 {
		return 0
	}
	return 100 * (b.State.SoCKWh - b.Limits.SoCMinKWh) / usable
}

func (b *Battery) balancingReserve() float64 {
	if b.Limits.ReserveBlocksBalancing {
		return b.Limits.SoCReserveKWh
	}
	return 0
}
