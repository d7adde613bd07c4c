// Package listener provides a Postgres LISTEN/NOTIFY consumer for real-time
// aggregate recomputation. It holds a dedicated pgx connection (not from the
// pool) listening on the `match_changed` channel.
//
// When a match record is written outside the API (bulk loads, psql fixes,
// PostgREST), a Postgres trigger fires pg_notify and this consumer receives
// the event and recomputes the affected (team, event) pair, so the derived
// tables stay current no matter who writes the raw data.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/scoutline/scoutline-data/internal/cache"
	"github.com/scoutline/scoutline-data/internal/stats"
)

const (
	channel          = "match_changed"
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// MatchEvent is the JSON payload from pg_notify('match_changed', ...).
type MatchEvent struct {
	TeamNumber int    `json:"team_number"`
	EventKey   string `json:"event_key"`
	Op         string `json:"op"`
	Timestamp  int64  `json:"ts"`
}

// Start opens a dedicated connection and listens on the match_changed
// channel. It reconnects automatically on connection loss. Blocks until ctx
// is cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, agg *stats.Aggregator, appCache *cache.Cache, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, agg, appCache, logger)
		if ctx.Err() != nil {
			logger.Info("Match listener stopped (context cancelled)")
			return
		}

		logger.Error("Match listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, agg *stats.Aggregator, appCache *cache.Cache, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+channel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", channel, err)
	}
	logger.Info("Match listener connected", "channel", channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		var event MatchEvent
		if err := json.Unmarshal([]byte(notification.Payload), &event); err != nil {
			logger.Warn("Failed to parse match event",
				"payload", notification.Payload, "error", err)
			continue
		}
		if event.TeamNumber <= 0 || event.EventKey == "" {
			logger.Warn("Match event missing identity", "payload", notification.Payload)
			continue
		}

		logger.Info("Match event received",
			"team_number", event.TeamNumber,
			"event_key", event.EventKey,
			"op", event.Op)

		// Process asynchronously to avoid blocking the listener
		go handleMatchEvent(ctx, agg, appCache, event, logger)
	}
}

// handleMatchEvent recomputes aggregates for the pair named by the event and
// drops any cached responses built from the old rows.
func handleMatchEvent(ctx context.Context, agg *stats.Aggregator, appCache *cache.Cache, event MatchEvent, logger *slog.Logger) {
	if err := agg.Recompute(ctx, event.TeamNumber, event.EventKey); err != nil {
		logger.Warn("Listener recompute failed",
			"team_number", event.TeamNumber, "event_key", event.EventKey, "error", err)
		return
	}

	pair := fmt.Sprintf("%s:%d", event.EventKey, event.TeamNumber)
	appCache.InvalidatePrefix("pct:" + pair)
	appCache.InvalidatePrefix("frac:" + pair)
	appCache.InvalidatePrefix("rank:" + event.EventKey)
}
