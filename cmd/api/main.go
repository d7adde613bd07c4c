// Command api is the Scoutline Data API server.
//
// Usage:
//
//	scoutline-api
//	API_PORT=8080 scoutline-api
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/scoutline/scoutline-data/internal/api"
	"github.com/scoutline/scoutline-data/internal/cache"
	"github.com/scoutline/scoutline-data/internal/config"
	"github.com/scoutline/scoutline-data/internal/db"
	"github.com/scoutline/scoutline-data/internal/listener"
	"github.com/scoutline/scoutline-data/internal/maintenance"
	"github.com/scoutline/scoutline-data/internal/stats"
	"github.com/scoutline/scoutline-data/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Store with activity logging, aggregator with the season's weight table
	st := store.WithActivityLog(store.NewPostgres(pool.Pool), logger)
	agg := stats.New(st, config.WeightsForSeason(cfg.Season), logger)
	logger.Info("Aggregator initialized", "season", cfg.Season)

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Start LISTEN/NOTIFY consumer for out-of-band match writes
	go listener.Start(ctx, cfg.DatabaseURL, agg, appCache, logger)

	// Start maintenance tickers (cleanup, catch-up sweep)
	go maintenance.Start(ctx, pool, agg, maintenance.DefaultConfig(), logger)

	// Create router
	router := api.NewRouter(pool, st, agg, appCache, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Scoutline Data API",
			"addr", addr,
			"environment", cfg.Environment,
			"season", cfg.Season)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
