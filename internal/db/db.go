// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scoutline/scoutline-data/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

const matchColumns = `id, team_number, event_key, match_number,
	auto_pos_1, auto_pos_2, auto_pos_3, auto_pos_4, auto_pos_5,
	auto_pos_6, auto_pos_7, auto_pos_8, auto_pos_9, auto_leave,
	speaker_attempts, speaker_scored, amp_attempts, amp_scored,
	intake_floor, intake_source,
	end_state, trap_notes,
	driver_rating, disabled, defense, notes,
	created_at, updated_at`

// registerPreparedStatements registers all read statements the API and
// aggregation layers use. Prepared statements eliminate parse overhead on
// every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Match records
		"matches_for_team": "SELECT " + matchColumns + " FROM " + config.MatchesTable +
			" WHERE team_number = $1 AND event_key = $2 ORDER BY match_number",
		"matches_for_event": "SELECT " + matchColumns + " FROM " + config.MatchesTable +
			" WHERE event_key = $1 ORDER BY match_number, team_number",
		"match_by_id": "SELECT " + matchColumns + " FROM " + config.MatchesTable +
			" WHERE id = $1",
		"count_matches": "SELECT count(*) FROM " + config.MatchesTable +
			" WHERE team_number = $1 AND event_key = $2",

		// Teams
		"teams_for_event": "SELECT team_number, event_key, name, created_at FROM " +
			config.TeamsTable + " WHERE event_key = $1 ORDER BY team_number",
		"team_by_number": "SELECT team_number, event_key, name, created_at FROM " +
			config.TeamsTable + " WHERE team_number = $1 AND event_key = $2",

		// Pit reports
		"pit_by_team": "SELECT team_number, event_key, drivetrain, weight_lbs, can_speaker," +
			" can_amp, can_trap, can_climb, notes, updated_at FROM " + config.PitReportsTable +
			" WHERE team_number = $1 AND event_key = $2",
		"pit_for_event": "SELECT team_number, event_key, drivetrain, weight_lbs, can_speaker," +
			" can_amp, can_trap, can_climb, notes, updated_at FROM " + config.PitReportsTable +
			" WHERE event_key = $1 ORDER BY team_number",

		// Aggregates
		"rankings_for_event": "SELECT team_number, event_key, auto_score, teleop_score," +
			" endgame_score, overall_score, matches_played, computed_at FROM " +
			config.RankingsTable + " WHERE event_key = $1 ORDER BY team_number",
		"percentages_by_team": "SELECT row_to_json(p) FROM " + config.PercentagesTable +
			" p WHERE p.team_number = $1 AND p.event_key = $2",
		"fractions_by_team": "SELECT row_to_json(f) FROM " + config.FractionsTable +
			" f WHERE f.team_number = $1 AND f.event_key = $2",

		// Maintenance: aggregates older than the newest match for their pair
		"stale_aggregates": `SELECT m.team_number, m.event_key
			FROM ` + config.MatchesTable + ` m
			LEFT JOIN ` + config.RankingsTable + ` r
			  ON r.team_number = m.team_number AND r.event_key = m.event_key
			GROUP BY m.team_number, m.event_key, r.computed_at
			HAVING r.computed_at IS NULL OR max(m.updated_at) > r.computed_at`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
