package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "time/tzdata"

	"srl-backtest/internal/config"
	"srl-backtest/internal/logging"
	"srl-backtest/internal/series"
	"srl-backtest/internal/simulation"

	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "simulate":
		err = cmdSimulate(ctx, os.Args[2:])
	case "resample":
		err = cmdResample(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --config examples/config.yaml [--out output] [--recompute] [--n 0]")
	fmt.Println("  cli resample --config examples/config.yaml [--out output]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate reuses <out>/merged.csv when present; --recompute re-imports the inputs")
	fmt.Println("  - outputs: load.csv, srl.csv, merged.csv, results.csv, summary.json")
}

type commonFlags struct {
	cfgPath  *string
	outDir   *string
	logLevel *string
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		cfgPath:  fs.String("config", "", "Path to YAML config"),
		outDir:   fs.String("out", "", "Output directory (default: output.dir from config)"),
		logLevel: fs.String("log-level", "", "Override log_level from config"),
	}
}

// setup loads the config and builds the logger shared by every subcommand.
func (f commonFlags) setup() (*config.Config, *zap.Logger, error) {
	if *f.cfgPath == "" {
		return nil, nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(*f.cfgPath)
	if err != nil {
		return nil, nil, err
	}
	if *f.outDir != "" {
		cfg.Output.Dir = *f.outDir
	}
	level := cfg.LogLevel
	if *f.logLevel != "" {
		level = *f.logLevel
	}
	logger, err := logging.New(level, true)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func cmdSimulate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	common := addCommonFlags(fs)
	recompute := fs.Bool("recompute", false, "Ignore cached merged.csv and re-import the inputs")
	n := fs.Int("n", 0, "Optional: limit to first N ticks (0=all)")
	_ = fs.Parse(args)

	cfg, logger, err := common.setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	if *recompute {
		cfg.Output.Recompute = true
	}

	simCfg := cfg.ToSimulationConfig()
	ticks, err := mergedSeries(ctx, cfg, simCfg.TimestepMinutes, logger)
	if err != nil {
		return err
	}
	if *n > 0 && *n < len(ticks) {
		ticks = ticks[:*n]
	}

	res, err := simulation.New(logger).Run(ticks, simCfg)
	if err != nil {
		return err
	}
	p := newPaths(cfg.Output.Dir)
	if err := simulation.WriteTicksCSV(p.results, res.Ticks); err != nil {
		return err
	}

	summary := simulation.Summarize(res.Ticks, simCfg)
	if err := writeJSON(p.summary, summary); err != nil {
		return err
	}
	logger.Info("wrote results",
		zap.Int("rows", len(res.Ticks)),
		zap.String("results", p.results),
		zap.String("summary", p.summary),
	)
	return summary.Render(os.Stdout)
}

func cmdResample(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("resample", flag.ExitOnError)
	common := addCommonFlags(fs)
	_ = fs.Parse(args)

	cfg, logger, err := common.setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	step, err := series.StepFromMinutes(cfg.ToSimulationConfig().TimestepMinutes)
	if err != nil {
		return err
	}
	aligned, err := importAndAlign(ctx, cfg, step, logger)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d ticks to %s\n", len(aligned.Merged), newPaths(cfg.Output.Dir).merged)
	return nil
}
