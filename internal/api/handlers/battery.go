package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"srl-backtest/internal/api/models"
	"srl-backtest/internal/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BatteryHandler handles battery-related requests
type BatteryHandler struct {
	batteryDir string
	logger     *zap.Logger
}

// NewBatteryHandler creates a new battery handler. A relative dir is
// resolved against the working directory.
func NewBatteryHandler(dir string, logger *zap.Logger) *BatteryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir == "" {
		dir = filepath.Join("examples", "batteries")
	}
	// Convert to absolute path for reliability
	if absDir, err := filepath.Abs(dir); err == nil {
		dir = absDir
	}
	logger = logger.Named("battery_handler")
	logger.Info("using battery directory", zap.String("dir", dir))

	return &BatteryHandler{
		batteryDir: dir,
		logger:     logger,
	}
}

// BatteryDir returns the preset directory path
func (h *BatteryHandler) BatteryDir() string {
	return h.batteryDir
}

// ListBatteries handles GET /api/v1/batteries
func (h *BatteryHandler) ListBatteries(c *gin.Context) {
	batteries := []models.BatteryInfo{}

	entries, err := os.ReadDir(h.batteryDir)
	if err != nil {
		h.logger.Warn("failed to read battery directory", zap.String("dir", h.batteryDir), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"batteries": batteries})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(h.batteryDir, entry.Name())
		info, err := h.loadBatteryInfo(path, entry.Name())
		if err != nil {
			h.logger.Warn("skipping invalid battery file", zap.String("path", path), zap.Error(err))
			continue
		}
		batteries = append(batteries, *info)
	}
	sort.Slice(batteries, func(i, j int) bool { return batteries[i].ID < batteries[j].ID })

	h.logger.Debug("listed batteries", zap.Int("count", len(batteries)))
	c.JSON(http.StatusOK, gin.H{"batteries": batteries})
}

func (h *BatteryHandler) loadBatteryInfo(path, filename string) (*models.BatteryInfo, error) {
	battery, err := config.LoadBatteryFile(path)
	if err != nil {
		return nil, err
	}

	// Extract ID from filename (e.g., "1mwh_1c.yaml" -> "1mwh_1c")
	id := strings.TrimSuffix(filename, ".yaml")

	name := battery.Name
	if name == "" {
		name = id
	}

	// Specs are reported with the defaults filled in, i.e. as a run would see them.
	sim := (&config.Config{Battery: battery}).ToSimulationConfig()
	if err := sim.Validate(); err != nil {
		return nil, err
	}

	return &models.BatteryInfo{
		ID:   id,
		Name: name,
		File: filename,
		Specs: models.BatterySpecs{
			CapacityKWh:     sim.CapacityKWh,
			CRate:           sim.CRate,
			PowerKW:         sim.CapacityKWh * sim.CRate,
			Efficiency:      sim.Efficiency,
			MinSoC:          sim.MinSoCFrac,
			ReserveFraction: sim.ReserveFraction,
			PricePerKWh:     sim.BatteryPricePerKWh,
		},
	}, nil
}
