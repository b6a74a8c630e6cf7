package simulation

import "srl-backtest/internal/model"

// Result is the trace of one run: the tick records plus the battery state
// at both ends.
type Result struct {
	Ticks         []model.TickResult
	InitialSoCKWh float64
	FinalSoCKWh   float64
	SRLRevenue    float64
}
