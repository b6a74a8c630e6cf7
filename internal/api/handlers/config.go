package handlers

import (
	"net/http"

	"srl-backtest/internal/api/models"
	"srl-backtest/internal/model"

	"github.com/gin-gonic/gin"
)

// GetDefaults handles GET /api/v1/config/defaults
func GetDefaults(c *gin.Context) {
	cfg := model.DefaultSimulationConfig()
	batt, err := model.NewBattery(cfg)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, models.DefaultsResponse{
		Config:        cfg,
		SoCMinKWh:     batt.Limits.SoCMinKWh,
		SoCReserveKWh: batt.Limits.SoCReserveKWh,
		PMaxKW:        batt.Limits.PMaxKW,
		EMaxKWh:       batt.Limits.EMaxKWh,
	})
}
