// Package stats derives per-team aggregate statistics from raw match
// records: a percentage table, a fraction-display table, and a composite
// ranking score. Aggregates are replaced wholesale on every run, keyed by
// (team, event), so recomputation is idempotent and cheap to re-trigger.
package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/scoutline/scoutline-data/internal/config"
	"github.com/scoutline/scoutline-data/internal/metrics"
	"github.com/scoutline/scoutline-data/internal/store"
)

// ErrInvalidInput marks a recompute or ranking request rejected before any
// store I/O.
var ErrInvalidInput = errors.New("stats: invalid input")

// Store is the slice of the record store the aggregator needs.
type Store interface {
	ListMatches(ctx context.Context, teamNumber int, eventKey string) ([]store.MatchRecord, error)
	ListTeams(ctx context.Context, eventKey string) ([]store.Team, error)
	ListRankings(ctx context.Context, eventKey string) ([]store.Ranking, error)
	UpsertAggregates(ctx context.Context, p store.Percentages, f store.Fractions, r store.Ranking) error
}

// Aggregator folds match records into aggregate rows. Safe for concurrent
// use across distinct (team, event) pairs; concurrent runs for the same pair
// rely on the store's last-write-wins upsert semantics.
type Aggregator struct {
	store   Store
	weights config.ScoringWeights
	logger  *slog.Logger
}

// New creates an Aggregator. The weight table is injected so a rule-set
// change across seasons never touches the fold logic.
func New(s Store, weights config.ScoringWeights, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{store: s, weights: weights, logger: logger}
}

// Recompute replaces the three aggregate rows for one (team, event) pair
// from its full match set. An empty match set is valid and produces
// zero-state rows, so a team with no data still has a queryable aggregate.
func (a *Aggregator) Recompute(ctx context.Context, teamNumber int, eventKey string) error {
	if teamNumber <= 0 {
		return fmt.Errorf("%w: team number must be positive", ErrInvalidInput)
	}
	if eventKey == "" {
		return fmt.Errorf("%w: event key is required", ErrInvalidInput)
	}

	start := time.Now()
	matches, err := a.store.ListMatches(ctx, teamNumber, eventKey)
	if err != nil {
		metrics.RecomputeTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("fetch matches for %d/%s: %w", teamNumber, eventKey, err)
	}

	t := tallyMatches(matches)
	now := time.Now().UTC()

	err = a.store.UpsertAggregates(ctx,
		t.percentages(teamNumber, eventKey, now),
		t.fractions(teamNumber, eventKey, now),
		t.ranking(teamNumber, eventKey, a.weights, now),
	)
	if err != nil {
		metrics.RecomputeTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("upsert aggregates for %d/%s: %w", teamNumber, eventKey, err)
	}

	metrics.RecomputeTotal.WithLabelValues("ok").Inc()
	metrics.RecomputeDuration.Observe(time.Since(start).Seconds())
	a.logger.Info("Aggregates recomputed",
		"team", teamNumber, "event", eventKey,
		"matches", t.matches, "duration", time.Since(start).Round(time.Millisecond))
	return nil
}

// --------------------------------------------------------------------------
// One-pass accumulation
// --------------------------------------------------------------------------

type tally struct {
	matches int

	autoPos [9]int
	leave   int

	speakerAttempts, speakerScored int
	ampAttempts, ampScored         int
	intakeFloor, intakeSource      int

	endState  map[store.EndState]int
	trap      [4]int
	trapNotes int

	ratingSum int
	disabled  int
	defense   int
}

// tallyMatches accumulates per-category counters in one pass. The zero tally
// of an empty match set flows through derivation unchanged and yields the
// zero-state aggregate rows.
func tallyMatches(matches []store.MatchRecord) tally {
	t := tally{endState: make(map[store.EndState]int)}
	for _, m := range matches {
		t.matches++

		for i, n := range m.AutoPos {
			t.autoPos[i] += n
		}
		if m.AutoLeave {
			t.leave++
		}

		t.speakerAttempts += m.SpeakerAttempts
		t.speakerScored += m.SpeakerScored
		t.ampAttempts += m.AmpAttempts
		t.ampScored += m.AmpScored
		t.intakeFloor += m.IntakeFloor
		t.intakeSource += m.IntakeSource

		t.endState[m.EndState]++
		if m.TrapNotes >= 0 && m.TrapNotes <= 3 {
			t.trap[m.TrapNotes]++
		}
		t.trapNotes += m.TrapNotes

		t.ratingSum += m.DriverRating
		if m.Disabled {
			t.disabled++
		}
		if m.Defense {
			t.defense++
		}
	}
	return t
}

// --------------------------------------------------------------------------
// Derivation
// --------------------------------------------------------------------------

// occurrencePct is 100*occurrences/matches, clamped to 100. A position may
// be scored more than once per match, so raw counts can exceed the match
// count; the displayed percentage caps at 100 instead of exceeding it.
func occurrencePct(occurrences, matches int) float64 {
	if matches == 0 {
		return 0
	}
	pct := 100 * float64(occurrences) / float64(matches)
	if pct > 100 {
		return 100
	}
	return pct
}

// accuracyPct is 100*scored/attempts, deliberately unclamped: scored above
// attempts is a data-entry error upstream and is surfaced rather than hidden.
func accuracyPct(scored, attempts int) float64 {
	if attempts == 0 {
		return 0
	}
	return 100 * float64(scored) / float64(attempts)
}

func frac(numerator, denominator int) string {
	return fmt.Sprintf("%d/%d", numerator, denominator)
}

func (t tally) percentages(teamNumber int, eventKey string, now time.Time) store.Percentages {
	p := store.Percentages{
		TeamNumber: teamNumber,
		EventKey:   eventKey,

		AutoLeave: occurrencePct(t.leave, t.matches),

		SpeakerAccuracy: accuracyPct(t.speakerScored, t.speakerAttempts),
		AmpAccuracy:     accuracyPct(t.ampScored, t.ampAttempts),

		EndNone:      occurrencePct(t.endState[store.EndStateNone], t.matches),
		EndParked:    occurrencePct(t.endState[store.EndStateParked], t.matches),
		EndOnstage:   occurrencePct(t.endState[store.EndStateOnstage], t.matches),
		EndSpotlight: occurrencePct(t.endState[store.EndStateSpotlight], t.matches),
		EndHarmony:   occurrencePct(t.endState[store.EndStateHarmony], t.matches),

		Disabled: occurrencePct(t.disabled, t.matches),
		Defense:  occurrencePct(t.defense, t.matches),

		MatchesPlayed: t.matches,
		ComputedAt:    now,
	}
	for i := range p.AutoPos {
		p.AutoPos[i] = occurrencePct(t.autoPos[i], t.matches)
	}
	for i := range p.Trap {
		p.Trap[i] = occurrencePct(t.trap[i], t.matches)
	}
	if t.matches > 0 {
		p.AvgRating = float64(t.ratingSum) / float64(t.matches)
	}
	return p
}

func (t tally) fractions(teamNumber int, eventKey string, now time.Time) store.Fractions {
	f := store.Fractions{
		TeamNumber: teamNumber,
		EventKey:   eventKey,

		AutoLeave: frac(t.leave, t.matches),

		Speaker: frac(t.speakerScored, t.speakerAttempts),
		Amp:     frac(t.ampScored, t.ampAttempts),

		EndNone:      frac(t.endState[store.EndStateNone], t.matches),
		EndParked:    frac(t.endState[store.EndStateParked], t.matches),
		EndOnstage:   frac(t.endState[store.EndStateOnstage], t.matches),
		EndSpotlight: frac(t.endState[store.EndStateSpotlight], t.matches),
		EndHarmony:   frac(t.endState[store.EndStateHarmony], t.matches),

		Disabled: frac(t.disabled, t.matches),
		Defense:  frac(t.defense, t.matches),

		SpeakerScoredTotal: t.speakerScored,
		AmpScoredTotal:     t.ampScored,
		TrapNotesTotal:     t.trapNotes,
		IntakeFloorTotal:   t.intakeFloor,
		IntakeSourceTotal:  t.intakeSource,

		MatchesPlayed: t.matches,
		ComputedAt:    now,
	}
	for i := range f.AutoPos {
		f.AutoPos[i] = frac(t.autoPos[i], t.matches)
		f.AutoNotesTotal += t.autoPos[i]
	}
	for i := range f.Trap {
		f.Trap[i] = frac(t.trap[i], t.matches)
	}
	return f
}

func (t tally) ranking(teamNumber int, eventKey string, w config.ScoringWeights, now time.Time) store.Ranking {
	var auto float64
	for i, sum := range t.autoPos {
		auto += float64(sum) * w.AutoPosition[i]
	}
	auto += float64(t.leave) * w.AutoLeave

	teleop := float64(t.speakerScored)*w.SpeakerNote + float64(t.ampScored)*w.AmpNote

	endgame := float64(t.endState[store.EndStateParked])*w.Parked +
		float64(t.endState[store.EndStateOnstage])*w.Onstage +
		float64(t.endState[store.EndStateSpotlight])*w.Spotlight +
		float64(t.endState[store.EndStateHarmony])*w.Harmony +
		float64(t.trapNotes)*w.TrapNote

	return store.Ranking{
		TeamNumber:    teamNumber,
		EventKey:      eventKey,
		AutoScore:     auto,
		TeleopScore:   teleop,
		EndgameScore:  endgame,
		OverallScore:  auto + teleop + endgame,
		MatchesPlayed: t.matches,
		ComputedAt:    now,
	}
}
