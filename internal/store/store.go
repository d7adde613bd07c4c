// Package store is the typed data-access layer over Postgres. All reads go
// through prepared statements registered by the db package; all aggregate
// writes are ON CONFLICT upserts so recomputation is idempotent.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a keyed lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// Store is the record-store boundary consumed by the API handlers and the
// statistics aggregator. Wrap it with WithActivityLog to observe every call.
type Store interface {
	// Match records
	ListMatches(ctx context.Context, teamNumber int, eventKey string) ([]MatchRecord, error)
	ListEventMatches(ctx context.Context, eventKey string) ([]MatchRecord, error)
	GetMatch(ctx context.Context, id int64) (*MatchRecord, error)
	CreateMatch(ctx context.Context, m *MatchRecord) error
	UpdateMatch(ctx context.Context, m *MatchRecord) error
	// DeleteMatch returns the deleted row so callers know which
	// (team, event) pair to re-aggregate.
	DeleteMatch(ctx context.Context, id int64) (*MatchRecord, error)
	CountMatches(ctx context.Context, teamNumber int, eventKey string) (int, error)

	// Teams
	UpsertTeam(ctx context.Context, t Team) error
	ListTeams(ctx context.Context, eventKey string) ([]Team, error)
	GetTeam(ctx context.Context, teamNumber int, eventKey string) (*Team, error)
	DeleteTeam(ctx context.Context, teamNumber int, eventKey string) error

	// Pit reports
	UpsertPitReport(ctx context.Context, r PitReport) error
	GetPitReport(ctx context.Context, teamNumber int, eventKey string) (*PitReport, error)
	ListPitReports(ctx context.Context, eventKey string) ([]PitReport, error)

	// Aggregates
	UpsertAggregates(ctx context.Context, p Percentages, f Fractions, r Ranking) error
	ListRankings(ctx context.Context, eventKey string) ([]Ranking, error)
	PercentagesJSON(ctx context.Context, teamNumber int, eventKey string) ([]byte, error)
	FractionsJSON(ctx context.Context, teamNumber int, eventKey string) ([]byte, error)
}
