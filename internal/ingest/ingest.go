// Package ingest mirrors event rosters from The Blue Alliance into the local
// teams table. It never writes scouting numbers; those only come from humans
// through the API.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/scoutline/scoutline-data/internal/config"
	"github.com/scoutline/scoutline-data/internal/db"
	"github.com/scoutline/scoutline-data/internal/provider/tba"
	"github.com/scoutline/scoutline-data/internal/store"
)

// Result tracks counts and errors from an import operation.
type Result struct {
	RunID         uuid.UUID
	EventKey      string
	TeamsFetched  int
	TeamsUpserted int
	Errors        []string
}

// AddError records an error message.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the import.
func (r *Result) Summary() string {
	return fmt.Sprintf("event=%s fetched=%d upserted=%d errors=%d",
		r.EventKey, r.TeamsFetched, r.TeamsUpserted, len(r.Errors))
}

// Importer mirrors TBA rosters through the store layer.
type Importer struct {
	client *tba.Client
	store  store.Store
	pool   *db.Pool
	logger *slog.Logger
}

// New creates an Importer.
func New(client *tba.Client, st store.Store, pool *db.Pool, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{client: client, store: st, pool: pool, logger: logger}
}

// ImportEventTeams fetches the team list for an event and upserts each entry
// into the roster. Per-team failures are accumulated, not fatal; the run is
// recorded in the import audit table either way.
func (i *Importer) ImportEventTeams(ctx context.Context, eventKey string) (*Result, error) {
	if eventKey == "" {
		return nil, fmt.Errorf("event key is required")
	}

	result := &Result{RunID: uuid.New(), EventKey: eventKey}
	started := time.Now()

	teams, err := i.client.EventTeams(ctx, eventKey)
	if err != nil {
		return nil, fmt.Errorf("fetch event teams: %w", err)
	}
	result.TeamsFetched = len(teams)

	for _, t := range teams {
		if t.TeamNumber <= 0 {
			result.AddErrorf("team %s: missing team_number", t.Key)
			continue
		}
		name := t.Nickname
		if name == "" {
			name = t.Name
		}
		err := i.store.UpsertTeam(ctx, store.Team{
			TeamNumber: t.TeamNumber,
			EventKey:   eventKey,
			Name:       name,
		})
		if err != nil {
			result.AddErrorf("team %d: %v", t.TeamNumber, err)
			continue
		}
		result.TeamsUpserted++
	}

	i.recordRun(ctx, result, started)
	i.logger.Info("Roster import finished",
		"run_id", result.RunID, "summary", result.Summary())
	return result, nil
}

// recordRun writes the audit row. A failure here is logged, not returned:
// the roster writes already happened.
func (i *Importer) recordRun(ctx context.Context, r *Result, started time.Time) {
	if i.pool == nil {
		return
	}
	_, err := i.pool.Exec(ctx, `
		INSERT INTO `+config.ImportRunsTable+`
			(id, event_key, teams_fetched, teams_upserted, error_count, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.RunID, r.EventKey, r.TeamsFetched, r.TeamsUpserted, len(r.Errors),
		started, time.Now())
	if err != nil {
		i.logger.Warn("Failed to record import run", "run_id", r.RunID, "error", err)
	}
}
