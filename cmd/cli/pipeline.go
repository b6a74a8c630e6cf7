package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"srl-backtest/internal/config"
	"srl-backtest/internal/data"
	"srl-backtest/internal/model"
	"srl-backtest/internal/series"
	"srl-backtest/internal/simulation"

	"go.uber.org/zap"
)

type paths struct {
	load, balancing, merged, results, summary string
}

func newPaths(dir string) paths {
	return paths{
		load:      filepath.Join(dir, "load.csv"),
		balancing: filepath.Join(dir, "srl.csv"),
		merged:    filepath.Join(dir, "merged.csv"),
		results:   filepath.Join(dir, "results.csv"),
		summary:   filepath.Join(dir, "summary.json"),
	}
}

// mergedSeries returns the merged tick series, from the cache in the output
// directory when allowed, otherwise by importing and resampling the inputs.
// A cache whose tick spacing differs from the configured timestep is rebuilt.
func mergedSeries(ctx context.Context, cfg *config.Config, timestepMinutes float64, logger *zap.Logger) ([]model.MergedTick, error) {
	step, err := series.StepFromMinutes(timestepMinutes)
	if err != nil {
		return nil, err
	}

	p := newPaths(cfg.Output.Dir)
	if !cfg.Output.Recompute {
		ticks, err := simulation.ReadMergedCSV(p.merged)
		switch {
		case err == nil && cacheMatchesStep(ticks, step):
			logger.Info("using cached merged series", zap.String("path", p.merged), zap.Int("ticks", len(ticks)))
			return ticks, nil
		case err == nil:
			logger.Warn("cached merged series was built with another timestep, recomputing",
				zap.String("path", p.merged),
				zap.Duration("cached_step", ticks[1].Timestamp.Sub(ticks[0].Timestamp)),
				zap.Duration("step", step),
			)
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("cached merged series %s: %w (use --recompute)", p.merged, err)
		}
	}

	aligned, err := importAndAlign(ctx, cfg, step, logger)
	if err != nil {
		return nil, err
	}
	return aligned.Merged, nil
}

// cacheMatchesStep reports whether the cached ticks sit on a grid of the
// given step. Fewer than two ticks carry no spacing and always match.
func cacheMatchesStep(ticks []model.MergedTick, step time.Duration) bool {
	if len(ticks) < 2 {
		return true
	}
	return ticks[1].Timestamp.Sub(ticks[0].Timestamp) == step
}

// importAndAlign reads the raw inputs, projects them onto one grid and
// writes the intermediate series to the output directory.
func importAndAlign(ctx context.Context, cfg *config.Config, step time.Duration, logger *zap.Logger) (*series.Aligned, error) {
	in, err := loadInputs(cfg.Inputs, logger)
	if err != nil {
		return nil, err
	}
	aligned, err := series.NewResampler(logger).Align(ctx, in, step)
	if err != nil {
		return nil, err
	}

	p := newPaths(cfg.Output.Dir)
	if err := simulation.WriteLoadCSV(p.load, aligned.Load); err != nil {
		return nil, err
	}
	if err := simulation.WriteBalancingCSV(p.balancing, aligned.Balancing); err != nil {
		return nil, err
	}
	if err := simulation.WriteMergedCSV(p.merged, aligned.Merged); err != nil {
		return nil, err
	}
	return aligned, nil
}

func loadInputs(in config.InputsConfig, logger *zap.Logger) (model.SimulationInputs, error) {
	loc := time.UTC
	if in.Timezone != "" {
		l, err := time.LoadLocation(in.Timezone)
		if err != nil {
			return model.SimulationInputs{}, fmt.Errorf("inputs.timezone: %w", err)
		}
		loc = l
	}

	switch in.InputFormat() {
	case config.FormatJSON:
		path := in.File
		if path == "" {
			path = in.LoadFile
		}
		return data.LoadInputsJSON(path)

	case config.FormatCSV:
		im := data.NewCSVImporter(loc)
		load, err := im.ImportLoad(in.LoadFile)
		if err != nil {
			return model.SimulationInputs{}, err
		}
		balancing, err := im.ImportBalancing(in.BalancingFile)
		if err != nil {
			return model.SimulationInputs{}, err
		}
		return model.SimulationInputs{Load: load, Balancing: balancing}, nil

	default:
		im := data.NewXLSXImporter(loc, logger)
		loadLayout := data.DefaultLoadLayout()
		if in.LoadSheet != "" {
			loadLayout.Sheet = in.LoadSheet
		}
		balancingLayout := data.DefaultBalancingLayout()
		if in.BalancingSheet != "" {
			balancingLayout.Sheet = in.BalancingSheet
		}
		load, err := im.ImportLoad(in.LoadFile, loadLayout)
		if err != nil {
			return model.SimulationInputs{}, err
		}
		balancing, err := im.ImportBalancing(in.BalancingFile, balancingLayout)
		if err != nil {
			return model.SimulationInputs{}, err
		}
		return model.SimulationInputs{Load: load, Balancing: balancing}, nil
	}
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), 0o644)
}
