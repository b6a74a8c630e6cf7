package simulation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"srl-backtest/internal/model"
	"srl-backtest/internal/series"
)

// ErrMalformedCSV is wrapped by ReadMergedCSV for header or field errors.
// A NaN or Inf cell wraps series.ErrNonFiniteValue as well.
var ErrMalformedCSV = errors.New("malformed csv")

var (
	loadHeader = []string{"timestamp", "power_kw"}

	balancingHeader = []string{
		"timestamp",
		"pos_energy_kwh",
		"neg_energy_kwh",
		"pos_price_eur_mwh",
		"neg_price_eur_mwh",
	}

	mergedHeader = []string{
		"timestamp",
		"power_kw",
		"srl_pos_kwh",
		"srl_neg_kwh",
		"srl_pos_price_eur_mwh",
		"srl_neg_price_eur_mwh",
	}

	tickHeader = []string{
		"timestamp",
		"original_power_kw",
		"srl_pos_kwh",
		"srl_neg_kwh",
		"battery_in_kw",
		"battery_out_kw",
		"action",
		"srl_energy_in_kwh",
		"srl_energy_out_kwh",
		"soc_kwh",
		"soc_percent",
		// grid_net_kw and final_grid_kw carry the same value; both names
		// are kept for readers of either column.
		"grid_net_kw",
		"transformer_violation",
		"srl_revenue_pos",
		"srl_revenue_neg",
		"original_grid_kw",
		"final_grid_kw",
	}
)

func WriteLoadCSV(path string, rows []model.LoadSample) error {
	return writeFile(path, func(w io.Writer) error { return WriteLoad(w, rows) })
}

func WriteLoad(w io.Writer, rows []model.LoadSample) error {
	return writeRows(w, loadHeader, len(rows), func(i int) []string {
		r := rows[i]
		return []string{fmtTime(r.Timestamp), fmtFloat(r.PowerKW)}
	})
}

func WriteBalancingCSV(path string, rows []model.BalancingSample) error {
	return writeFile(path, func(w io.Writer) error { return WriteBalancing(w, rows) })
}

func WriteBalancing(w io.Writer, rows []model.BalancingSample) error {
	return writeRows(w, balancingHeader, len(rows), func(i int) []string {
		r := rows[i]
		return []string{
			fmtTime(r.Timestamp),
			fmtFloat(r.PosEnergyKWh),
			fmtFloat(r.NegEnergyKWh),
			fmtFloat(r.PosPriceEURPerMWh),
			fmtFloat(r.NegPriceEURPerMWh),
		}
	})
}

func WriteMergedCSV(path string, rows []model.MergedTick) error {
	return writeFile(path, func(w io.Writer) error { return WriteMerged(w, rows) })
}

func WriteMerged(w io.Writer, rows []model.MergedTick) error {
	return writeRows(w, mergedHeader, len(rows), func(i int) []string {
		r := rows[i]
		return []string{
			fmtTime(r.Timestamp),
			fmtFloat(r.PowerKW),
			fmtFloat(r.SRLPosKWh),
			fmtFloat(r.SRLNegKWh),
			fmtFloat(r.SRLPosPriceEURPerMWh),
			fmtFloat(r.SRLNegPriceEURPerMWh),
		}
	})
}

func WriteTicksCSV(path string, rows []model.TickResult) error {
	return writeFile(path, func(w io.Writer) error { return WriteTicks(w, rows) })
}

func WriteTicks(w io.Writer, rows []model.TickResult) error {
	return writeRows(w, tickHeader, len(rows), func(i int) []string {
		r := rows[i]
		return []string{
			fmtTime(r.Timestamp),
			fmtFloat(r.OriginalPowerKW),
			fmtFloat(r.SRLPosKWh),
			fmtFloat(r.SRLNegKWh),
			fmtFloat(r.BatteryInKW),
			fmtFloat(r.BatteryOutKW),
			string(r.Action),
			fmtFloat(r.SRLEnergyInKWh),
			fmtFloat(r.SRLEnergyOutKWh),
			fmtFloat(r.SoCKWh),
			fmtFloat(r.SoCPercent),
			fmtFloat(r.GridNetKW()),
			strconv.FormatBool(r.TransformerViolation),
			fmtFloat(r.SRLRevenuePos),
			fmtFloat(r.SRLRevenueNeg),
			fmtFloat(r.OriginalGridKW),
			fmtFloat(r.FinalGridKW),
		}
	})
}

// ReadMergedCSV loads a series previously written by WriteMergedCSV.
func ReadMergedCSV(path string) ([]model.MergedTick, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadMerged(f)
}

func ReadMerged(r io.Reader) ([]model.MergedTick, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrMalformedCSV, err)
	}
	if len(header) != len(mergedHeader) {
		return nil, fmt.Errorf("%w: expected %d columns, got %d", ErrMalformedCSV, len(mergedHeader), len(header))
	}
	for i, col := range mergedHeader {
		if strings.TrimSpace(header[i]) != col {
			return nil, fmt.Errorf("%w: expected column %d to be %q, got %q", ErrMalformedCSV, i, col, header[i])
		}
	}

	var out []model.MergedTick
	line := 1
	for {
		line++
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedCSV, line, err)
		}
		ts, err := time.Parse(time.RFC3339Nano, rec[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: timestamp: %v", ErrMalformedCSV, line, err)
		}
		vals := make([]float64, 5)
		for i := range vals {
			v, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %s: %v", ErrMalformedCSV, line, mergedHeader[i+1], err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: line %d: %s: %w", ErrMalformedCSV, line, mergedHeader[i+1], series.ErrNonFiniteValue)
			}
			vals[i] = v
		}
		out = append(out, model.MergedTick{
			Timestamp:            ts,
			PowerKW:              vals[0],
			SRLPosKWh:            vals[1],
			SRLNegKWh:            vals[2],
			SRLPosPriceEURPerMWh: vals[3],
			SRLNegPriceEURPerMWh: vals[4],
		})
	}
	return out, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeRows(w io.Writer, header []string, n int, row func(i int) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(row(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

// fmtFloat uses the shortest representation that round-trips exactly.
func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
