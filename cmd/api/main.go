package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"srl-backtest/internal/api"
	"srl-backtest/internal/api/handlers"
	"srl-backtest/internal/config"
	"srl-backtest/internal/data"
	"srl-backtest/internal/logging"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

func gracefulShutdown(ctx context.Context, srv *http.Server, logger *zap.Logger, done chan<- struct{}) {
	// Wait for the interrupt signal.
	<-ctx.Done()

	logger.Info("shutting down gracefully, press Ctrl+C again to force")

	// The server has 5 seconds to finish the requests it is currently handling
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
	close(done)
}

func main() {
	settings, err := config.LoadServerSettings()
	if err != nil {
		log.Fatalf("config errors: %v", err)
	}

	logger, err := logging.New(settings.LogLevel, !settings.Production())
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer logger.Sync()

	if settings.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cache := data.NewResultCache[*handlers.CachedRun](settings.CacheTTL)
	go cache.RunJanitor(ctx, 5*time.Minute)

	router := api.NewRouter(api.Options{
		Logger:      logger,
		BatteryDir:  settings.BatteryDir,
		Cache:       cache,
		CORSOrigins: settings.CORSOrigins,
		StaticDir:   settings.StaticDir,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", settings.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go gracefulShutdown(ctx, srv, logger, done)

	logger.Info("starting API server",
		zap.String("addr", srv.Addr),
		zap.String("env", settings.Env),
		zap.Duration("cache_ttl", settings.CacheTTL),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http server error", zap.Error(err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	logger.Info("graceful shutdown complete")
}
