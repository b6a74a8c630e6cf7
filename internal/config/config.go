package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"srl-backtest/internal/model"

	"gopkg.in/yaml.v3"
)

// Input formats understood by the importers.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Config is the on-disk configuration shape (YAML).
//
// Numeric fields are pointers so that an explicit 0 (e.g. min_soc: 0) can be
// told apart from an omitted key; omitted keys fall back to
// model.DefaultSimulationConfig.
type Config struct {
	LogLevel string `yaml:"log_level"`

	// Optional: load battery parameters from a separate YAML (e.g. examples/batteries/*.yaml).
	// If both BatteryFile and Battery are provided, Battery overrides BatteryFile.
	BatteryFile string           `yaml:"battery_file"`
	Battery     BatteryConfig    `yaml:"battery"`
	Economics   EconomicsConfig  `yaml:"economics"`
	Simulation  SimulationConfig `yaml:"simulation"`
	Inputs      InputsConfig     `yaml:"inputs"`
	Output      OutputConfig     `yaml:"output"`
}

type BatteryConfig struct {
	Name            string   `yaml:"name"`
	CapacityKWh     *float64 `yaml:"capacity_kwh"`
	CRate           *float64 `yaml:"c_rate"`
	Efficiency      *float64 `yaml:"efficiency"`
	MinSoC          *float64 `yaml:"min_soc"`
	InitialSoC      *float64 `yaml:"initial_soc"`
	ReserveFraction *float64 `yaml:"reserve_fraction"`
	PricePerKWh     *float64 `yaml:"price_per_kwh"`
}

type EconomicsConfig struct {
	OperatingCostRate      *float64 `yaml:"operating_cost_rate"`
	DemandTariffPerKWMonth *float64 `yaml:"demand_tariff_per_kw_month"`
}

type SimulationConfig struct {
	TimestepMinutes        *float64 `yaml:"timestep_minutes"`
	TransformerLimitKW     *float64 `yaml:"transformer_limit_kw"`
	ReserveBlocksBalancing *bool    `yaml:"reserve_blocks_balancing"`
}

// InputsConfig names the raw measurement files. Relative paths are resolved
// against the config file directory.
type InputsConfig struct {
	// Format is xlsx, csv or json. Empty means: infer from the file extension.
	Format        string `yaml:"format"`
	LoadFile      string `yaml:"load_file"`
	BalancingFile string `yaml:"balancing_file"`
	// File is a single JSON document holding both series (format json).
	File string `yaml:"file"`
	// Timezone for naive spreadsheet timestamps (IANA name). Default UTC.
	Timezone       string `yaml:"timezone"`
	LoadSheet      string `yaml:"load_sheet"`
	BalancingSheet string `yaml:"balancing_sheet"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
	// Recompute ignores a cached merged.csv in Dir and re-runs import + resampling.
	Recompute bool `yaml:"recompute"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if c.Output.Dir == "" {
		c.Output.Dir = filepath.Join(filepath.Dir(path), "output")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	// If battery_file is set, load it and merge in any explicit overrides from c.Battery.
	if c.BatteryFile != "" {
		loaded, err := LoadBatteryFile(resolve(dir, c.BatteryFile))
		if err != nil {
			return nil, err
		}
		c.Battery = MergeBattery(loaded, c.Battery)
	}
	c.Inputs.LoadFile = resolve(dir, c.Inputs.LoadFile)
	c.Inputs.BalancingFile = resolve(dir, c.Inputs.BalancingFile)
	c.Inputs.File = resolve(dir, c.Inputs.File)
	if c.Output.Dir != "" {
		c.Output.Dir = resolve(dir, c.Output.Dir)
	}
	return &c, nil
}

// resolve prefers interpreting relative paths as relative to the config file
// directory, but falls back to the provided path (relative to cwd) if that
// doesn't exist.
func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(dir, p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return cand
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.ToSimulationConfig().Validate(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "trace", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error, fatal", c.LogLevel)
	}
	switch c.Inputs.Format {
	case "", FormatXLSX, FormatCSV, FormatJSON:
	default:
		return fmt.Errorf("inputs.format %q must be xlsx, csv or json", c.Inputs.Format)
	}
	return nil
}

// InputFormat returns the configured format, or infers it from the inputs.
func (in InputsConfig) InputFormat() string {
	if in.Format != "" {
		return in.Format
	}
	if in.File != "" {
		return FormatJSON
	}
	switch strings.ToLower(filepath.Ext(in.LoadFile)) {
	case ".csv":
		return FormatCSV
	case ".json":
		return FormatJSON
	default:
		return FormatXLSX
	}
}

// ToSimulationConfig overlays every configured value onto the defaults.
func (c *Config) ToSimulationConfig() model.SimulationConfig {
	out := model.DefaultSimulationConfig()
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	b := c.Battery
	set(&out.CapacityKWh, b.CapacityKWh)
	set(&out.CRate, b.CRate)
	set(&out.Efficiency, b.Efficiency)
	set(&out.MinSoCFrac, b.MinSoC)
	set(&out.InitialSoCFrac, b.InitialSoC)
	set(&out.ReserveFraction, b.ReserveFraction)
	set(&out.BatteryPricePerKWh, b.PricePerKWh)
	set(&out.OperatingCostRate, c.Economics.OperatingCostRate)
	set(&out.DemandTariffPerKWMonth, c.Economics.DemandTariffPerKWMonth)
	set(&out.TimestepMinutes, c.Simulation.TimestepMinutes)
	set(&out.TransformerLimitKW, c.Simulation.TransformerLimitKW)
	if c.Simulation.ReserveBlocksBalancing != nil {
		out.ReserveBlocksBalancing = *c.Simulation.ReserveBlocksBalancing
	}
	return out
}

type batteryFileWrapper struct {
	Battery BatteryConfig `yaml:"battery"`
}

// LoadBatteryFile reads a battery preset (a YAML document with a top-level
// `battery:` key).
func LoadBatteryFile(path string) (BatteryConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return BatteryConfig{}, err
	}
	var w batteryFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return BatteryConfig{}, fmt.Errorf("parse battery file %s: %w", path, err)
	}
	return w.Battery, nil
}

// MergeBattery overlays the fields set in override onto base.
// This is used when loading a battery file and then applying overrides from the config or request.
func MergeBattery(base, override BatteryConfig) BatteryConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	pick := func(b, o *float64) *float64 {
		if o != nil {
			return o
		}
		return b
	}
	out.CapacityKWh = pick(base.CapacityKWh, override.CapacityKWh)
	out.CRate = pick(base.CRate, override.CRate)
	out.Efficiency = pick(base.Efficiency, override.Efficiency)
	out.MinSoC = pick(base.MinSoC, override.MinSoC)
	out.InitialSoC = pick(base.InitialSoC, override.InitialSoC)
	out.ReserveFraction = pick(base.ReserveFraction, override.ReserveFraction)
	out.PricePerKWh = pick(base.PricePerKWh, override.PricePerKWh)
	return out
}
