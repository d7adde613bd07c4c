package store

import (
	"context"
	"log/slog"
	"time"
)

// activityLog decorates a Store so every access shows up in the activity
// feed. The aggregator and handlers stay free of logging concerns; wrapping
// happens once at startup.
type activityLog struct {
	next   Store
	logger *slog.Logger
}

// WithActivityLog wraps a Store so every call is logged with its operation
// name, keys, duration, and outcome.
func WithActivityLog(next Store, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &activityLog{next: next, logger: logger}
}

func (a *activityLog) observe(op string, start time.Time, err error, attrs ...any) {
	attrs = append(attrs, "duration", time.Since(start).Round(time.Microsecond))
	if err != nil {
		attrs = append(attrs, "error", err)
		a.logger.Warn("store "+op, attrs...)
		return
	}
	a.logger.Debug("store "+op, attrs...)
}

func (a *activityLog) ListMatches(ctx context.Context, teamNumber int, eventKey string) ([]MatchRecord, error) {
	start := time.Now()
	matches, err := a.next.ListMatches(ctx, teamNumber, eventKey)
	a.observe("list_matches", start, err, "team", teamNumber, "event", eventKey, "count", len(matches))
	return matches, err
}

func (a *activityLog) ListEventMatches(ctx context.Context, eventKey string) ([]MatchRecord, error) {
	start := time.Now()
	matches, err := a.next.ListEventMatches(ctx, eventKey)
	a.observe("list_event_matches", start, err, "event", eventKey, "count", len(matches))
	return matches, err
}

func (a *activityLog) GetMatch(ctx context.Context, id int64) (*MatchRecord, error) {
	start := time.Now()
	m, err := a.next.GetMatch(ctx, id)
	a.observe("get_match", start, err, "id", id)
	return m, err
}

func (a *activityLog) CreateMatch(ctx context.Context, m *MatchRecord) error {
	start := time.Now()
	err := a.next.CreateMatch(ctx, m)
	a.observe("create_match", start, err,
		"team", m.TeamNumber, "event", m.EventKey, "match", m.MatchNumber)
	return err
}

func (a *activityLog) UpdateMatch(ctx context.Context, m *MatchRecord) error {
	start := time.Now()
	err := a.next.UpdateMatch(ctx, m)
	a.observe("update_match", start, err, "id", m.ID)
	return err
}

func (a *activityLog) DeleteMatch(ctx context.Context, id int64) (*MatchRecord, error) {
	start := time.Now()
	m, err := a.next.DeleteMatch(ctx, id)
	a.observe("delete_match", start, err, "id", id)
	return m, err
}

func (a *activityLog) CountMatches(ctx context.Context, teamNumber int, eventKey string) (int, error) {
	start := time.Now()
	n, err := a.next.CountMatches(ctx, teamNumber, eventKey)
	a.observe("count_matches", start, err, "team", teamNumber, "event", eventKey)
	return n, err
}

func (a *activityLog) UpsertTeam(ctx context.Context, t Team) error {
	start := time.Now()
	err := a.next.UpsertTeam(ctx, t)
	a.observe("upsert_team", start, err, "team", t.TeamNumber, "event", t.EventKey)
	return err
}

func (a *activityLog) ListTeams(ctx context.Context, eventKey string) ([]Team, error) {
	start := time.Now()
	teams, err := a.next.ListTeams(ctx, eventKey)
	a.observe("list_teams", start, err, "event", eventKey, "count", len(teams))
	return teams, err
}

func (a *activityLog) GetTeam(ctx context.Context, teamNumber int, eventKey string) (*Team, error) {
	start := time.Now()
	t, err := a.next.GetTeam(ctx, teamNumber, eventKey)
	a.observe("get_team", start, err, "team", teamNumber, "event", eventKey)
	return t, err
}

func (a *activityLog) DeleteTeam(ctx context.Context, teamNumber int, eventKey string) error {
	start := time.Now()
	err := a.next.DeleteTeam(ctx, teamNumber, eventKey)
	a.observe("delete_team", start, err, "team", teamNumber, "event", eventKey)
	return err
}

func (a *activityLog) UpsertPitReport(ctx context.Context, r PitReport) error {
	start := time.Now()
	err := a.next.UpsertPitReport(ctx, r)
	a.observe("upsert_pit_report", start, err, "team", r.TeamNumber, "event", r.EventKey)
	return err
}

func (a *activityLog) GetPitReport(ctx context.Context, teamNumber int, eventKey string) (*PitReport, error) {
	start := time.Now()
	r, err := a.next.GetPitReport(ctx, teamNumber, eventKey)
	a.observe("get_pit_report", start, err, "team", teamNumber, "event", eventKey)
	return r, err
}

func (a *activityLog) ListPitReports(ctx context.Context, eventKey string) ([]PitReport, error) {
	start := time.Now()
	reports, err := a.next.ListPitReports(ctx, eventKey)
	a.observe("list_pit_reports", start, err, "event", eventKey, "count", len(reports))
	return reports, err
}

func (a *activityLog) UpsertAggregates(ctx context.Context, p Percentages, f Fractions, r Ranking) error {
	start := time.Now()
	err := a.next.UpsertAggregates(ctx, p, f, r)
	a.observe("upsert_aggregates", start, err,
		"team", r.TeamNumber, "event", r.EventKey, "matches", r.MatchesPlayed)
	return err
}

func (a *activityLog) ListRankings(ctx context.Context, eventKey string) ([]Ranking, error) {
	start := time.Now()
	rankings, err := a.next.ListRankings(ctx, eventKey)
	a.observe("list_rankings", start, err, "event", eventKey, "count", len(rankings))
	return rankings, err
}

func (a *activityLog) PercentagesJSON(ctx context.Context, teamNumber int, eventKey string) ([]byte, error) {
	start := time.Now()
	raw, err := a.next.PercentagesJSON(ctx, teamNumber, eventKey)
	a.observe("percentages_json", start, err, "team", teamNumber, "event", eventKey)
	return raw, err
}

func (a *activityLog) FractionsJSON(ctx context.Context, teamNumber int, eventKey string) ([]byte, error) {
	start := time.Now()
	raw, err := a.next.FractionsJSON(ctx, teamNumber, eventKey)
	a.observe("fractions_json", start, err, "team", teamNumber, "event", eventKey)
	return raw, err
}
