package simulation

import (
	"math"
	"time"

	"srl-backtest/internal/analysis"
	"srl-backtest/internal/model"
)

// Summary is the aggregate report of one run. It is built once by Summarize.
type Summary struct {
	TotalTicks  int       `json:"total_ticks"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	// Energy flows (kWh)
	TotalSRLOutKWh float64 `json:"total_srl_out_kwh"`
	TotalSRLInKWh  float64 `json:"total_srl_in_kwh"`
	TotalPSOutKWh  float64 `json:"total_ps_out_kwh"`
	TotalPSInKWh   float64 `json:"total_ps_in_kwh"`

	MinSoCKWh float64 `json:"min_soc_kwh"`
	MaxSoCKWh float64 `json:"max_soc_kwh"`

	TransformerViolations int `json:"transformer_violations"`

	TotalSRLRevenue    float64              `json:"total_srl_revenue"`
	PeakShavingSavings float64              `json:"peak_shaving_savings"`
	Months             []analysis.MonthPeak `json:"months"`

	// BatteryCycles uses the observed SoC range as capacity proxy.
	BatteryCycles float64 `json:"battery_cycles"`

	Investment    float64 `json:"investment"`
	OperatingCost float64 `json:"operating_cost"`
	TotalRevenue  float64 `json:"total_revenue"`

	// AmortizationYears is nil when total revenue is not positive.
	AmortizationYears *float64 `json:"amortization_years,omitempty"`

	GridProfile analysis.GridProfile `json:"grid_profile"`
}

// Summarize reduces the tick sequence of a run into a Summary.
func Summarize(results []model.TickResult, cfg model.SimulationConfig) Summary {
	s := Summary{TotalTicks: len(results)}
	dtH := cfg.TimestepHours()

	peaks := make([]analysis.PeakSample, 0, len(results))
	before := make([]float64, 0, len(results))
	after := make([]float64, 0, len(results))

	for i, r := range results {
		s.TotalSRLOutKWh += r.SRLEnergyOutKWh
		s.TotalSRLInKWh += r.SRLEnergyInKWh
		s.TotalPSOutKWh += r.BatteryOutKW * dtH
		s.TotalPSInKWh += r.BatteryInKW * dtH

		if i == 0 {
			s.MinSoCKWh, s.MaxSoCKWh = r.SoCKWh, r.SoCKWh
		} else {
			s.MinSoCKWh = math.Min(s.MinSoCKWh, r.SoCKWh)
			s.MaxSoCKWh = math.Max(s.MaxSoCKWh, r.SoCKWh)
		}

		if r.TransformerViolation {
			s.TransformerViolations++
		}
		s.TotalSRLRevenue += r.SRLRevenuePos + r.SRLRevenueNeg

		peaks = append(peaks, analysis.PeakSample{
			Timestamp: r.Timestamp,
			BeforeKW:  r.OriginalGridKW,
			AfterKW:   r.FinalGridKW,
		})
		before = append(before, r.OriginalGridKW)
		after = append(after, r.FinalGridKW)
	}
	if len(results) > 0 {
		s.PeriodStart = results[0].Timestamp
		s.PeriodEnd = results[len(results)-1].Timestamp
	}

	s.Months = analysis.MonthlyPeaks(peaks, cfg.DemandTariffPerKWMonth)
	s.PeakShavingSavings = analysis.TotalSavings(s.Months)
	s.GridProfile = analysis.ComputeGridProfile(before, after)

	usable := s.MaxSoCKWh - s.MinSoCKWh
	if usable > 0 {
		throughput := s.TotalPSOutKWh + s.TotalPSInKWh + s.TotalSRLOutKWh + s.TotalSRLInKWh
		s.BatteryCycles = throughput / (2 * usable)
	}

	s.Investment = cfg.Investment()
	s.OperatingCost = s.Investment * cfg.OperatingCostRate
	s.TotalRevenue = s.TotalSRLRevenue + s.PeakShavingSavings
	if s.TotalRevenue > 0 {
		years := (s.Investment + s.OperatingCost) / s.TotalRevenue
		s.AmortizationYears = &years
	}
	return s
}
