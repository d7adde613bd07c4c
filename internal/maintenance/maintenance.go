// Package maintenance runs periodic background tasks as Go tickers.
// Replaces pg_cron since the API is already a persistent, long-running
// service (required for LISTEN/NOTIFY).
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/scoutline/scoutline-data/internal/config"
	"github.com/scoutline/scoutline-data/internal/db"
	"github.com/scoutline/scoutline-data/internal/stats"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	CleanupInterval time.Duration // Old import run records
	CatchUpInterval time.Duration // Sweep for stale aggregates
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		CleanupInterval: 1 * time.Hour,
		CatchUpInterval: 10 * time.Minute,
	}
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, pool *db.Pool, agg *stats.Aggregator, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"cleanup", cfg.CleanupInterval,
		"catchup", cfg.CatchUpInterval)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	// Cleanup: purge import run records past their retention window
	if cfg.CleanupInterval > 0 {
		t := time.NewTicker(cfg.CleanupInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { cleanup(ctx, pool, logger) })
	}

	// Catch-up: recompute pairs whose aggregates are older than their matches
	if cfg.CatchUpInterval > 0 {
		t := time.NewTicker(cfg.CatchUpInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { catchUpSweep(ctx, pool, agg, logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

// cleanup removes import run records older than 30 days. Aggregate tables are
// never purged; they are overwritten in place by recomputes.
func cleanup(ctx context.Context, pool *db.Pool, logger *slog.Logger) {
	tag, err := pool.Exec(ctx, `
		DELETE FROM `+config.ImportRunsTable+`
		WHERE started_at < NOW() - INTERVAL '30 days'`)
	if err != nil {
		logger.Warn("Cleanup: failed to purge old import runs", "error", err)
	} else if tag.RowsAffected() > 0 {
		logger.Info("Cleanup: purged old import runs", "count", tag.RowsAffected())
	}
}

// catchUpSweep recomputes any (team, event) pair whose newest match row is
// more recent than its ranking snapshot. Heals gaps left by listener downtime
// or recompute failures on the write path.
func catchUpSweep(ctx context.Context, pool *db.Pool, agg *stats.Aggregator, logger *slog.Logger) {
	rows, err := pool.Query(ctx, "stale_aggregates")
	if err != nil {
		logger.Warn("Catch-up sweep: stale pair query failed", "error", err)
		return
	}
	defer rows.Close()

	type pair struct {
		team  int
		event string
	}
	var stale []pair
	for rows.Next() {
		var p pair
		if err := rows.Scan(&p.team, &p.event); err != nil {
			logger.Warn("Catch-up sweep: scan failed", "error", err)
			return
		}
		stale = append(stale, p)
	}
	if err := rows.Err(); err != nil {
		logger.Warn("Catch-up sweep: row iteration failed", "error", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	recomputed, failed := 0, 0
	for _, p := range stale {
		if ctx.Err() != nil {
			return
		}
		if err := agg.Recompute(ctx, p.team, p.event); err != nil {
			logger.Warn("Catch-up sweep: recompute failed",
				"team_number", p.team, "event_key", p.event, "error", err)
			failed++
		} else {
			recomputed++
		}
	}
	logger.Info("Catch-up sweep: healed stale aggregates",
		"recomputed", recomputed, "failed", failed)
}
