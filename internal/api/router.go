package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"srl-backtest/internal/api/handlers"
	"srl-backtest/internal/api/middleware"
	"srl-backtest/internal/data"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options wires the router's collaborators.
type Options struct {
	Logger      *zap.Logger
	BatteryDir  string
	Cache       *data.ResultCache[*handlers.CachedRun]
	CORSOrigins []string
	// StaticDir holds a built web UI; skipped when it does not exist.
	StaticDir string
}

// NewRouter builds the HTTP surface. The caller owns gin's mode.
func NewRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	// Apply middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(middleware.DefaultCORSOptions(opts.CORSOrigins)))

	// Initialize handlers
	simulationHandler := handlers.NewSimulationHandler(opts.BatteryDir, opts.Cache, logger)
	batteryHandler := handlers.NewBatteryHandler(opts.BatteryDir, logger)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/simulate", simulationHandler.RunSimulation)
		v1.POST("/simulate/compare", simulationHandler.CompareSimulations)
		v1.GET("/simulations/:id/ledger", simulationHandler.GetLedger)

		v1.GET("/batteries", batteryHandler.ListBatteries)
		v1.GET("/config/defaults", handlers.GetDefaults)
	}

	serveStatic(router, opts.StaticDir, logger)
	return router
}

// serveStatic serves a single-page app from dir, falling back to index.html
// for every non-API route.
func serveStatic(router *gin.Engine, dir string, logger *zap.Logger) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	}
	if dir == "" {
		router.NoRoute(notFound)
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		logger.Info("static directory not found, skipping static file serving", zap.String("dir", dir))
		router.NoRoute(notFound)
		return
	}

	router.Static("/assets", filepath.Join(dir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))
	index := filepath.Join(dir, "index.html")
	router.NoRoute(func(c *gin.Context) {
		// Don't serve index.html for API routes
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			notFound(c)
			return
		}
		c.File(index)
	})
	logger.Info("serving static files", zap.String("dir", dir))
}
