package simulation

import (
	"fmt"
	"io"
	"strings"
)

// Render writes the human-readable run report.
func (s Summary) Render(w io.Writer) error {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line("")
	line("===== Simulation Summary =====")
	line("")
	line("Total ticks:               %d", s.TotalTicks)
	if s.TotalTicks > 0 {
		line("Period:                    %s .. %s", s.PeriodStart.Format("2006-01-02 15:04"), s.PeriodEnd.Format("2006-01-02 15:04"))
	}
	line("-------------------------------")
	line("SRL delivered (discharge): %10.2f kWh", s.TotalSRLOutKWh)
	line("SRL absorbed  (charge):    %10.2f kWh", s.TotalSRLInKWh)
	line("PS discharge  (out):       %10.2f kWh", s.TotalPSOutKWh)
	line("PS charge     (in):        %10.2f kWh", s.TotalPSInKWh)
	line("-------------------------------")
	line("Min SoC: %8.1f kWh     Max SoC: %8.1f kWh", s.MinSoCKWh, s.MaxSoCKWh)
	line("Battery cycles:            %10.2f", s.BatteryCycles)
	line("Transformer violations:    %d", s.TransformerViolations)
	line("-------------------------------")
	for _, m := range s.Months {
		line("%04d-%02d peak %8.1f -> %8.1f kW  saved %8.1f kW  %10.2f",
			m.Year, int(m.Month), m.BeforeKW, m.AfterKW, m.SavedKW, m.SavedCost)
	}
	line("SRL revenue:               %12.2f", s.TotalSRLRevenue)
	line("Peak shaving savings:      %12.2f", s.PeakShavingSavings)
	line("Total revenue:             %12.2f", s.TotalRevenue)
	line("Investment:                %12.2f", s.Investment)
	line("Operating cost:            %12.2f", s.OperatingCost)
	if s.AmortizationYears != nil {
		line("Amortization:              %12.2f years", *s.AmortizationYears)
	} else {
		line("Amortization:              not achievable")
	}
	line("===============================")
	line("")

	_, err := io.WriteString(w, b.String())
	return err
}
