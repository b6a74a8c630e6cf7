package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"srl-backtest/internal/api/models"
	"srl-backtest/internal/config"
	"srl-backtest/internal/data"
	"srl-backtest/internal/model"
	"srl-backtest/internal/series"
	"srl-backtest/internal/simulation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultMaxTicks caps the grid a single request may ask for.
const DefaultMaxTicks = 2_000_000

// CachedRun is what the ledger endpoint serves after a simulation.
type CachedRun struct {
	Config  model.SimulationConfig
	Summary simulation.Summary
	Ticks   []model.TickResult
}

// SimulationHandler handles simulation-related requests
type SimulationHandler struct {
	engine     *simulation.Engine
	resampler  *series.Resampler
	cache      *data.ResultCache[*CachedRun]
	batteryDir string
	maxTicks   int
	logger     *zap.Logger
}

// NewSimulationHandler creates a new simulation handler. cache may be nil,
// which disables the ledger endpoint.
func NewSimulationHandler(batteryDir string, cache *data.ResultCache[*CachedRun], logger *zap.Logger) *SimulationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulationHandler{
		engine:     simulation.New(logger),
		resampler:  series.NewResampler(logger),
		cache:      cache,
		batteryDir: batteryDir,
		maxTicks:   DefaultMaxTicks,
		logger:     logger.Named("simulation_handler"),
	}
}

// RunSimulation handles POST /api/v1/simulate
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req models.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	cfg, err := h.buildConfig(req.Config)
	if err != nil {
		respondConfigError(c, err)
		return
	}

	ticks, err := h.align(c, req.Inputs, cfg)
	if err != nil {
		respondSeriesError(c, err)
		return
	}

	// Apply tick limit if specified
	if req.Options.LimitTicks > 0 && req.Options.LimitTicks < len(ticks) {
		ticks = ticks[:req.Options.LimitTicks]
	}

	result, err := h.engine.Run(ticks, cfg)
	if err != nil {
		respondConfigError(c, err)
		return
	}
	summary := simulation.Summarize(result.Ticks, cfg)

	id := h.cache.Put(&CachedRun{Config: cfg, Summary: summary, Ticks: result.Ticks})
	response := models.SimulationResponse{
		Status:  "completed",
		Config:  cfg,
		Summary: summary,
	}
	if h.cache != nil {
		response.ID = id
	}
	if req.Options.IncludeLedger {
		response.Ledger = result.Ticks
	}
	c.JSON(http.StatusOK, response)
}

// GetLedger handles GET /api/v1/simulations/:id/ledger
// ?format=csv streams the ledger in the same layout as the CLI's results.csv.
func (h *SimulationHandler) GetLedger(c *gin.Context) {
	id := c.Param("id")
	run, ok := h.cache.Get(id)
	if !ok {
		respondError(c, http.StatusNotFound, "RUN_NOT_FOUND",
			"Simulation run not found or expired. Re-run with include_ledger=true or fetch sooner.",
			map[string]any{"id": id})
		return
	}

	if strings.EqualFold(c.Query("format"), "csv") {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, id))
		c.Status(http.StatusOK)
		if err := simulation.WriteTicks(c.Writer, run.Ticks); err != nil {
			h.logger.Error("writing ledger csv", zap.String("id", id), zap.Error(err))
		}
		return
	}

	c.JSON(http.StatusOK, models.LedgerResponse{
		ID:     id,
		Ticks:  len(run.Ticks),
		Ledger: run.Ticks,
	})
}

// CompareSimulations handles POST /api/v1/simulate/compare
func (h *SimulationHandler) CompareSimulations(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	// Align once per distinct timestep; most comparisons share one.
	aligned := map[float64][]model.MergedTick{}
	comparison := make([]models.ComparisonResult, 0, len(req.Variations))
	ticksUsed := 0

	for _, variation := range req.Variations {
		res := models.ComparisonResult{Name: variation.Name}

		cfg, err := h.buildConfig(mergeConfig(req.BaseConfig, variation.Config))
		if err != nil {
			res.Error = &models.ErrorDetail{Code: configErrorCode(err), Message: err.Error()}
			comparison = append(comparison, res)
			continue
		}

		ticks, ok := aligned[cfg.TimestepMinutes]
		if !ok {
			ticks, err = h.align(c, req.Inputs, cfg)
			if err != nil {
				respondSeriesError(c, err)
				return
			}
			aligned[cfg.TimestepMinutes] = ticks
		}

		result, err := h.engine.Run(ticks, cfg)
		if err != nil {
			res.Error = &models.ErrorDetail{Code: configErrorCode(err), Message: err.Error()}
			comparison = append(comparison, res)
			continue
		}
		summary := simulation.Summarize(result.Ticks, cfg)
		res.Config = &cfg
		res.Summary = &summary
		ticksUsed = len(ticks)
		comparison = append(comparison, res)
	}

	c.JSON(http.StatusOK, models.CompareResponse{
		Ticks:      ticksUsed,
		Comparison: comparison,
	})
}

// Helper methods

func (h *SimulationHandler) align(c *gin.Context, in model.SimulationInputs, cfg model.SimulationConfig) ([]model.MergedTick, error) {
	step, err := series.StepFromMinutes(cfg.TimestepMinutes)
	if err != nil {
		return nil, err
	}
	if n := len(in.Load); n > 1 {
		span := in.Load[n-1].Timestamp.Sub(in.Load[0].Timestamp)
		if span > 0 && int64(span/step) >= int64(h.maxTicks) {
			return nil, fmt.Errorf("%w: %s at %s per tick exceeds %d ticks", errTooManyTicks, span, step, h.maxTicks)
		}
	}
	return h.resampler.ResampleAndMerge(c.Request.Context(), in, step)
}

var (
	errTooManyTicks    = errors.New("grid too large")
	errBatteryPreset   = errors.New("battery preset")
	errInvalidPresetID = errors.New("invalid battery preset name")
)

// buildConfig resolves the request into a validated model config: defaults,
// then the named preset, then explicit overrides.
func (h *SimulationHandler) buildConfig(req models.SimulationConfig) (model.SimulationConfig, error) {
	cfg := toConfig(req)

	if req.BatteryFile != "" {
		// battery_file is just the preset name (e.g., "1mwh_1c"); files are
		// always looked up in the battery directory.
		if strings.ContainsAny(req.BatteryFile, `/\`) || strings.Contains(req.BatteryFile, "..") {
			return model.SimulationConfig{}, fmt.Errorf("%w: %q", errInvalidPresetID, req.BatteryFile)
		}
		path := filepath.Join(h.batteryDir, req.BatteryFile+".yaml")
		loaded, err := config.LoadBatteryFile(path)
		if err != nil {
			return model.SimulationConfig{}, fmt.Errorf("%w %q: %v", errBatteryPreset, req.BatteryFile, err)
		}
		// Merge: battery file is base, request config is override
		cfg.Battery = config.MergeBattery(loaded, cfg.Battery)
	}

	out := cfg.ToSimulationConfig()
	if err := out.Validate(); err != nil {
		return model.SimulationConfig{}, err
	}
	return out, nil
}

func toConfig(req models.SimulationConfig) *config.Config {
	return &config.Config{
		Battery: config.BatteryConfig{
			Name:            req.Battery.Name,
			CapacityKWh:     req.Battery.CapacityKWh,
			CRate:           req.Battery.CRate,
			Efficiency:      req.Battery.Efficiency,
			MinSoC:          req.Battery.MinSoC,
			InitialSoC:      req.Battery.InitialSoC,
			ReserveFraction: req.Battery.ReserveFraction,
			PricePerKWh:     req.Battery.PricePerKWh,
		},
		Economics: config.EconomicsConfig{
			OperatingCostRate:      req.OperatingCostRate,
			DemandTariffPerKWMonth: req.DemandTariffPerKWMonth,
		},
		Simulation: config.SimulationConfig{
			TimestepMinutes:        req.TimestepMinutes,
			TransformerLimitKW:     req.TransformerLimitKW,
			ReserveBlocksBalancing: req.ReserveBlocksBalancing,
		},
	}
}

// mergeConfig overlays the fields set in override onto base.
func mergeConfig(base, override models.SimulationConfig) models.SimulationConfig {
	merged := base
	if override.BatteryFile != "" {
		merged.BatteryFile = override.BatteryFile
	}
	if override.Battery.Name != "" {
		merged.Battery.Name = override.Battery.Name
	}
	pick := func(dst **float64, v *float64) {
		if v != nil {
			*dst = v
		}
	}
	pick(&merged.Battery.CapacityKWh, override.Battery.CapacityKWh)
	pick(&merged.Battery.CRate, override.Battery.CRate)
	pick(&merged.Battery.Efficiency, override.Battery.Efficiency)
	pick(&merged.Battery.MinSoC, override.Battery.MinSoC)
	pick(&merged.Battery.InitialSoC, override.Battery.InitialSoC)
	pick(&merged.Battery.ReserveFraction, override.Battery.ReserveFraction)
	pick(&merged.Battery.PricePerKWh, override.Battery.PricePerKWh)
	pick(&merged.OperatingCostRate, override.OperatingCostRate)
	pick(&merged.DemandTariffPerKWMonth, override.DemandTariffPerKWMonth)
	pick(&merged.TimestepMinutes, override.TimestepMinutes)
	pick(&merged.TransformerLimitKW, override.TransformerLimitKW)
	if override.ReserveBlocksBalancing != nil {
		merged.ReserveBlocksBalancing = override.ReserveBlocksBalancing
	}
	return merged
}

func configErrorCode(err error) string {
	switch {
	case errors.Is(err, errBatteryPreset), errors.Is(err, errInvalidPresetID):
		return "INVALID_BATTERY"
	default:
		return "INVALID_CONFIG"
	}
}

func respondConfigError(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, configErrorCode(err), err.Error(), nil)
}

func respondSeriesError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, series.ErrEmptySeries),
		errors.Is(err, series.ErrNonFiniteValue),
		errors.Is(err, series.ErrUnorderedSeries),
		errors.Is(err, series.ErrInvalidStep):
		respondError(c, http.StatusBadRequest, "INVALID_SERIES", err.Error(), nil)
	case errors.Is(err, errTooManyTicks):
		respondError(c, http.StatusRequestEntityTooLarge, "GRID_TOO_LARGE", err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, "SIMULATION_ERROR", err.Error(), nil)
	}
}

func respondError(c *gin.Context, status int, code, message string, details map[string]any) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
