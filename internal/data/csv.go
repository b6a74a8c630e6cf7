package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"srl-backtest/internal/model"
)

// CSVImporter parses load and balancing series from delimited text.
//
// Expected formats:
//
//	timestamp,power_kw
//	2024-03-01 00:00,12.5
//
//	timestamp,pos_energy_kwh,neg_energy_kwh,pos_price_eur_mwh,neg_price_eur_mwh
//	2024-03-01T00:00:00Z,3.2,0,87.5,-12
//
// Timestamps are RFC3339 or naive LayoutYMD in the importer's location.
type CSVImporter struct {
	// Comma is the field delimiter. Zero means ','; use ';' for exports with
	// decimal commas.
	Comma rune
	loc   *time.Location
}

func NewCSVImporter(loc *time.Location) *CSVImporter {
	if loc == nil {
		loc = time.UTC
	}
	return &CSVImporter{loc: loc}
}

func (im *CSVImporter) ParseLoad(r io.Reader) ([]model.LoadSample, error) {
	var out []model.LoadSample
	err := im.parse(r, []string{"timestamp", "power_kw"}, func(ts time.Time, vals []float64) {
		out = append(out, model.LoadSample{Timestamp: ts, PowerKW: vals[0]})
	})
	return out, err
}

func (im *CSVImporter) ParseBalancing(r io.Reader) ([]model.BalancingSample, error) {
	header := []string{"timestamp", "pos_energy_kwh", "neg_energy_kwh", "pos_price_eur_mwh", "neg_price_eur_mwh"}
	var out []model.BalancingSample
	err := im.parse(r, header, func(ts time.Time, vals []float64) {
		out = append(out, model.BalancingSample{
			Timestamp:         ts,
			PosEnergyKWh:      vals[0],
			NegEnergyKWh:      vals[1],
			PosPriceEURPerMWh: vals[2],
			NegPriceEURPerMWh: vals[3],
		})
	})
	return out, err
}

func (im *CSVImporter) ImportLoad(path string) ([]model.LoadSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	out, err := im.ParseLoad(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func (im *CSVImporter) ImportBalancing(path string) ([]model.BalancingSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	out, err := im.ParseBalancing(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func (im *CSVImporter) parse(r io.Reader, expected []string, emit func(time.Time, []float64)) error {
	cr := csv.NewReader(r)
	if im.Comma != 0 {
		cr.Comma = im.Comma
	}
	cr.FieldsPerRecord = len(expected)

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("reading CSV header: %w", err)
	}
	if err := validateHeader(header, expected); err != nil {
		return err
	}

	vals := make([]float64, len(expected)-1)
	lineNum := 1 // header was line 1
	for {
		lineNum++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading CSV line %d: %w", lineNum, err)
		}

		ts, err := im.parseTime(record[0])
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
		for i := range vals {
			v, err := ParseNumber(record[i+1])
			if err != nil {
				return fmt.Errorf("line %d: %s: %w", lineNum, expected[i+1], err)
			}
			vals[i] = v
		}
		emit(ts, vals)
	}
	return nil
}

func (im *CSVImporter) parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	return ParseTimestamp(s, LayoutYMD, im.loc)
}

func validateHeader(header, expected []string) error {
	if len(header) < len(expected) {
		return fmt.Errorf("expected %d columns, got %d", len(expected), len(header))
	}
	for i, col := range expected {
		if strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")) != col {
			return fmt.Errorf("expected column %d to be %q, got %q", i, col, header[i])
		}
	}
	return nil
}
