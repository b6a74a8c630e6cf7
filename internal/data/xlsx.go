package data

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"srl-backtest/internal/model"
)

// LoadLayout locates the load curve inside a workbook. Columns are letters.
type LoadLayout struct {
	Sheet           string
	SkipRows        int
	TimestampCol    string
	TimestampLayout string
	PowerCol        string
}

// BalancingLayout locates the balancing-energy series inside a workbook.
type BalancingLayout struct {
	Sheet           string
	SkipRows        int
	TimestampCol    string
	TimestampLayout string
	PosEnergyCol    string
	NegEnergyCol    string
	PosPriceCol     string
	NegPriceCol     string
}

// DefaultLoadLayout matches the metering export: sheet "Lastgang", one
// header row, timestamp in A, kW in B.
func DefaultLoadLayout() LoadLayout {
	return LoadLayout{
		Sheet:           "Lastgang",
		SkipRows:        1,
		TimestampCol:    "A",
		TimestampLayout: LayoutYMD,
		PowerCol:        "B",
	}
}

// DefaultBalancingLayout matches the grid operator's quarter-hour export.
func DefaultBalancingLayout() BalancingLayout {
	return BalancingLayout{
		Sheet:           "Zeitreihen0h15",
		SkipRows:        2,
		TimestampCol:    "A",
		TimestampLayout: LayoutDMY,
		PosEnergyCol:    "G",
		NegEnergyCol:    "H",
		PosPriceCol:     "V",
		NegPriceCol:     "W",
	}
}

type XLSXImporter struct {
	loc    *time.Location
	logger *zap.Logger
}

func NewXLSXImporter(loc *time.Location, logger *zap.Logger) *XLSXImporter {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &XLSXImporter{loc: loc, logger: logger.Named("xlsx")}
}

func (im *XLSXImporter) ImportLoad(path string, layout LoadLayout) ([]model.LoadSample, error) {
	cols, err := columnIndexes(layout.TimestampCol, layout.PowerCol)
	if err != nil {
		return nil, err
	}
	rows, err := im.readRows(path, layout.Sheet)
	if err != nil {
		return nil, err
	}

	out := make([]model.LoadSample, 0, len(rows))
	err = eachRow(rows, layout.SkipRows, cols, func(rowNum int, cells []string) error {
		ts, err := ParseTimestamp(cells[0], layout.TimestampLayout, im.loc)
		if err != nil {
			return fmt.Errorf("%s row %d col %s: %w", layout.Sheet, rowNum, layout.TimestampCol, err)
		}
		power, err := ParseNumber(cells[1])
		if err != nil {
			return fmt.Errorf("%s row %d col %s: %w", layout.Sheet, rowNum, layout.PowerCol, err)
		}
		out = append(out, model.LoadSample{Timestamp: ts, PowerKW: power})
		return nil
	})
	if err != nil {
		return nil, err
	}
	im.logger.Info("imported load curve", zap.String("path", path), zap.Int("samples", len(out)))
	return out, nil
}

func (im *XLSXImporter) ImportBalancing(path string, layout BalancingLayout) ([]model.BalancingSample, error) {
	names := []string{
		layout.TimestampCol,
		layout.PosEnergyCol,
		layout.NegEnergyCol,
		layout.PosPriceCol,
		layout.NegPriceCol,
	}
	cols, err := columnIndexes(names...)
	if err != nil {
		return nil, err
	}
	rows, err := im.readRows(path, layout.Sheet)
	if err != nil {
		return nil, err
	}

	out := make([]model.BalancingSample, 0, len(rows))
	err = eachRow(rows, layout.SkipRows, cols, func(rowNum int, cells []string) error {
		ts, err := ParseTimestamp(cells[0], layout.TimestampLayout, im.loc)
		if err != nil {
			return fmt.Errorf("%s row %d col %s: %w", layout.Sheet, rowNum, names[0], err)
		}
		var vals [4]float64
		for i := range vals {
			v, err := ParseNumber(cells[i+1])
			if err != nil {
				return fmt.Errorf("%s row %d col %s: %w", layout.Sheet, rowNum, names[i+1], err)
			}
			vals[i] = v
		}
		out = append(out, model.BalancingSample{
			Timestamp:         ts,
			PosEnergyKWh:      vals[0],
			NegEnergyKWh:      vals[1],
			PosPriceEURPerMWh: vals[2],
			NegPriceEURPerMWh: vals[3],
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	im.logger.Info("imported balancing series", zap.String("path", path), zap.Int("samples", len(out)))
	return out, nil
}

// readRows returns raw cell values so date cells come back as Excel serials.
func (im *XLSXImporter) readRows(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w", sheet, path, err)
	}
	return rows, nil
}

// eachRow calls fn with the selected cells of every data row. Blank rows are
// skipped; rowNum is the 1-based spreadsheet row.
func eachRow(rows [][]string, skip int, cols []int, fn func(rowNum int, cells []string) error) error {
	cells := make([]string, len(cols))
	for i := skip; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		for j, c := range cols {
			if c >= len(row) {
				return fmt.Errorf("row %d: missing column %d", i+1, c+1)
			}
			cells[j] = row[c]
		}
		if err := fn(i+1, cells); err != nil {
			return err
		}
	}
	return nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// columnIndexes converts column letters to 0-based indexes.
func columnIndexes(names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		n, err := excelize.ColumnNameToNumber(name)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		out[i] = n - 1
	}
	return out, nil
}
