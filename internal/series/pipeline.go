package series

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"srl-backtest/internal/model"
)

// Aligned holds both series projected onto one grid plus their merge.
type Aligned struct {
	Grid      []time.Time
	Load      []model.LoadSample
	Balancing []model.BalancingSample
	Merged    []model.MergedTick
}

// Resampler runs the grid -> resample -> merge pipeline.
type Resampler struct {
	logger *zap.Logger
}

func NewResampler(logger *zap.Logger) *Resampler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resampler{logger: logger.Named("resampler")}
}

// Align builds a grid spanning the load series' first to last timestamp and
// projects both series onto it. The two resampling passes are independent
// and run concurrently.
func (r *Resampler) Align(ctx context.Context, in model.SimulationInputs, step time.Duration) (*Aligned, error) {
	if len(in.Load) == 0 {
		return nil, fmt.Errorf("%w: load series has no samples", ErrEmptySeries)
	}
	start, end := in.Load[0].Timestamp, in.Load[len(in.Load)-1].Timestamp
	grid, err := GenerateGrid(start, end, step)
	if err != nil {
		return nil, err
	}
	r.logger.Info("generated time grid",
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Duration("step", step),
		zap.Int("points", len(grid)),
	)

	var (
		load      []model.LoadSample
		balancing []model.BalancingSample
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		out, err := ResampleLoad(in.Load, grid)
		if err != nil {
			return fmt.Errorf("resample load: %w", err)
		}
		load = out
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		out, err := ResampleBalancing(in.Balancing, grid)
		if err != nil {
			return fmt.Errorf("resample balancing: %w", err)
		}
		balancing = out
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged, err := Merge(load, balancing, r.logger)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	r.logger.Info("series aligned", zap.Int("ticks", len(merged)))

	return &Aligned{
		Grid:      grid,
		Load:      load,
		Balancing: balancing,
		Merged:    merged,
	}, nil
}

// ResampleAndMerge is Align reduced to the merged tick sequence.
func (r *Resampler) ResampleAndMerge(ctx context.Context, in model.SimulationInputs, step time.Duration) ([]model.MergedTick, error) {
	a, err := r.Align(ctx, in, step)
	if err != nil {
		return nil, err
	}
	return a.Merged, nil
}
