package stats

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/scoutline/scoutline-data/internal/config"
	"github.com/scoutline/scoutline-data/internal/store"
)

// fakeStore is an in-memory Store for aggregator tests. Upserted aggregates
// are captured per (event, team) so assertions can read back what Recompute
// would have written.
type fakeStore struct {
	mu       sync.Mutex
	matches  map[string][]store.MatchRecord
	teams    map[string][]store.Team
	rankings map[string][]store.Ranking

	savedPct  map[string]store.Percentages
	savedFrac map[string]store.Fractions
	savedRank map[string]store.Ranking

	listMatchesErr map[int]error
	upsertErr      map[int]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		matches:        make(map[string][]store.MatchRecord),
		teams:          make(map[string][]store.Team),
		rankings:       make(map[string][]store.Ranking),
		savedPct:       make(map[string]store.Percentages),
		savedFrac:      make(map[string]store.Fractions),
		savedRank:      make(map[string]store.Ranking),
		listMatchesErr: make(map[int]error),
		upsertErr:      make(map[int]error),
	}
}

func pairKey(teamNumber int, eventKey string) string {
	return fmt.Sprintf("%s:%d", eventKey, teamNumber)
}

func (f *fakeStore) ListMatches(_ context.Context, teamNumber int, eventKey string) ([]store.MatchRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.listMatchesErr[teamNumber]; err != nil {
		return nil, err
	}
	return f.matches[pairKey(teamNumber, eventKey)], nil
}

func (f *fakeStore) ListTeams(_ context.Context, eventKey string) ([]store.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.teams[eventKey], nil
}

func (f *fakeStore) ListRankings(_ context.Context, eventKey string) ([]store.Ranking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rankings[eventKey], nil
}

func (f *fakeStore) UpsertAggregates(_ context.Context, p store.Percentages, fr store.Fractions, r store.Ranking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.upsertErr[p.TeamNumber]; err != nil {
		return err
	}
	key := pairKey(p.TeamNumber, p.EventKey)
	f.savedPct[key] = p
	f.savedFrac[key] = fr
	f.savedRank[key] = r
	return nil
}

func testAggregator(f *fakeStore) *Aggregator {
	return New(f, config.WeightsForSeason(2024),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func baseMatch(teamNumber, matchNumber int) store.MatchRecord {
	return store.MatchRecord{
		TeamNumber:   teamNumber,
		EventKey:     "2024txhou",
		MatchNumber:  matchNumber,
		EndState:     store.EndStateNone,
		DriverRating: 3,
	}
}

func TestRecompute(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given an aggregator over an in-memory store", t, func() {
		fs := newFakeStore()
		agg := testAggregator(fs)

		convey.Convey("When recomputing a team with no matches", func() {
			err := agg.Recompute(ctx, 5940, "2024txhou")

			convey.Convey("Then zero-state rows are written", func() {
				convey.So(err, convey.ShouldBeNil)
				p := fs.savedPct[pairKey(5940, "2024txhou")]
				convey.So(p.MatchesPlayed, convey.ShouldEqual, 0)
				convey.So(p.AutoPos[0], convey.ShouldEqual, 0)
				convey.So(p.SpeakerAccuracy, convey.ShouldEqual, 0)
				convey.So(p.AvgRating, convey.ShouldEqual, 0)

				fr := fs.savedFrac[pairKey(5940, "2024txhou")]
				convey.So(fr.Speaker, convey.ShouldEqual, "0/0")
				convey.So(fr.AutoLeave, convey.ShouldEqual, "0/0")

				r := fs.savedRank[pairKey(5940, "2024txhou")]
				convey.So(r.OverallScore, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When recomputing a team with two matches", func() {
			m1 := baseMatch(5940, 1)
			m1.AutoPos[0] = 2
			m1.AutoLeave = true
			m1.SpeakerAttempts, m1.SpeakerScored = 5, 4
			m1.EndState = store.EndStateOnstage
			m1.TrapNotes = 1
			m1.DriverRating = 4

			m2 := baseMatch(5940, 2)
			m2.AutoPos[0] = 1
			m2.SpeakerAttempts, m2.SpeakerScored = 3, 3
			m2.EndState = store.EndStateParked
			m2.DriverRating = 5

			fs.matches[pairKey(5940, "2024txhou")] = []store.MatchRecord{m1, m2}
			err := agg.Recompute(ctx, 5940, "2024txhou")
			convey.So(err, convey.ShouldBeNil)

			p := fs.savedPct[pairKey(5940, "2024txhou")]
			fr := fs.savedFrac[pairKey(5940, "2024txhou")]
			r := fs.savedRank[pairKey(5940, "2024txhou")]

			convey.Convey("Then occurrence percentages derive from the match count", func() {
				convey.So(p.MatchesPlayed, convey.ShouldEqual, 2)
				// 3 notes over 2 matches clamps at 100, not 150.
				convey.So(p.AutoPos[0], convey.ShouldEqual, 100)
				convey.So(p.AutoLeave, convey.ShouldEqual, 50)
				convey.So(p.EndOnstage, convey.ShouldEqual, 50)
				convey.So(p.EndParked, convey.ShouldEqual, 50)
				convey.So(p.EndNone, convey.ShouldEqual, 0)
			})

			convey.Convey("Then accuracy derives from attempts, not matches", func() {
				convey.So(p.SpeakerAccuracy, convey.ShouldEqual, 87.5)
				convey.So(p.AmpAccuracy, convey.ShouldEqual, 0)
				convey.So(p.AvgRating, convey.ShouldEqual, 4.5)
			})

			convey.Convey("Then fractions mirror the same counters as n/d strings", func() {
				convey.So(fr.Speaker, convey.ShouldEqual, "7/8")
				convey.So(fr.Amp, convey.ShouldEqual, "0/0")
				convey.So(fr.AutoPos[0], convey.ShouldEqual, "3/2")
				convey.So(fr.AutoLeave, convey.ShouldEqual, "1/2")
				convey.So(fr.AutoNotesTotal, convey.ShouldEqual, 3)
				convey.So(fr.SpeakerScoredTotal, convey.ShouldEqual, 7)
				convey.So(fr.TrapNotesTotal, convey.ShouldEqual, 1)
			})

			convey.Convey("Then the ranking is the weighted phase sum", func() {
				// 2024 weights: auto note 5, leave 2; speaker 2;
				// parked 1, onstage 3, trap 5.
				convey.So(r.AutoScore, convey.ShouldEqual, 3*5+1*2)
				convey.So(r.TeleopScore, convey.ShouldEqual, 7*2)
				convey.So(r.EndgameScore, convey.ShouldEqual, 1*1+1*3+1*5)
				convey.So(r.OverallScore, convey.ShouldEqual,
					r.AutoScore+r.TeleopScore+r.EndgameScore)
			})

			convey.Convey("And recomputing again writes identical rows", func() {
				err := agg.Recompute(ctx, 5940, "2024txhou")
				convey.So(err, convey.ShouldBeNil)
				p2 := fs.savedPct[pairKey(5940, "2024txhou")]
				p2.ComputedAt = p.ComputedAt
				convey.So(p2, convey.ShouldResemble, p)
			})
		})

		convey.Convey("When a position is scored more than once per match", func() {
			m := baseMatch(254, 1)
			m.AutoPos[3] = 4
			fs.matches[pairKey(254, "2024txhou")] = []store.MatchRecord{m}

			err := agg.Recompute(ctx, 254, "2024txhou")
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the occurrence percentage clamps at 100", func() {
				p := fs.savedPct[pairKey(254, "2024txhou")]
				convey.So(p.AutoPos[3], convey.ShouldEqual, 100)
			})

			convey.Convey("But the fraction and ranking keep the raw count", func() {
				fr := fs.savedFrac[pairKey(254, "2024txhou")]
				convey.So(fr.AutoPos[3], convey.ShouldEqual, "4/1")
				r := fs.savedRank[pairKey(254, "2024txhou")]
				convey.So(r.AutoScore, convey.ShouldEqual, 4*5)
			})
		})

		convey.Convey("When a category has a plain accuracy ratio", func() {
			m := baseMatch(148, 1)
			m.AmpAttempts, m.AmpScored = 10, 7
			fs.matches[pairKey(148, "2024txhou")] = []store.MatchRecord{m}

			err := agg.Recompute(ctx, 148, "2024txhou")
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then percentage and fraction agree", func() {
				p := fs.savedPct[pairKey(148, "2024txhou")]
				convey.So(p.AmpAccuracy, convey.ShouldEqual, 70)
				fr := fs.savedFrac[pairKey(148, "2024txhou")]
				convey.So(fr.Amp, convey.ShouldEqual, "7/10")
			})
		})

		convey.Convey("When scored exceeds attempts", func() {
			m := baseMatch(254, 1)
			m.SpeakerAttempts, m.SpeakerScored = 10, 12
			fs.matches[pairKey(254, "2024txhou")] = []store.MatchRecord{m}

			err := agg.Recompute(ctx, 254, "2024txhou")
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then accuracy is surfaced above 100, not clamped", func() {
				p := fs.savedPct[pairKey(254, "2024txhou")]
				convey.So(p.SpeakerAccuracy, convey.ShouldEqual, 120)
			})
		})

		convey.Convey("When the input identity is invalid", func() {
			convey.So(agg.Recompute(ctx, 0, "2024txhou"), convey.ShouldWrap, ErrInvalidInput)
			convey.So(agg.Recompute(ctx, 5940, ""), convey.ShouldWrap, ErrInvalidInput)
			convey.So(fs.savedPct, convey.ShouldBeEmpty)
		})
	})
}

func TestRankings(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given ranking rows for an event", t, func() {
		fs := newFakeStore()
		agg := testAggregator(fs)
		fs.rankings["2024txhou"] = []store.Ranking{
			{TeamNumber: 111, EventKey: "2024txhou", OverallScore: 50},
			{TeamNumber: 222, EventKey: "2024txhou", OverallScore: 80},
			{TeamNumber: 333, EventKey: "2024txhou", OverallScore: 80},
			{TeamNumber: 444, EventKey: "2024txhou", OverallScore: 30},
		}

		convey.Convey("When building the leaderboard", func() {
			ranked, err := agg.Rankings(ctx, "2024txhou")
			convey.So(err, convey.ShouldBeNil)
			convey.So(ranked, convey.ShouldHaveLength, 4)

			convey.Convey("Then teams sort descending with ranks 1..N", func() {
				convey.So(ranked[0].Rank, convey.ShouldEqual, 1)
				convey.So(ranked[3].Rank, convey.ShouldEqual, 4)
				convey.So(ranked[3].TeamNumber, convey.ShouldEqual, 444)
			})

			convey.Convey("Then ties keep retrieval order", func() {
				convey.So(ranked[0].TeamNumber, convey.ShouldEqual, 222)
				convey.So(ranked[1].TeamNumber, convey.ShouldEqual, 333)
			})
		})

		convey.Convey("When the event key is missing", func() {
			_, err := agg.Rankings(ctx, "")
			convey.So(err, convey.ShouldWrap, ErrInvalidInput)
		})
	})
}

func TestRecomputeAll(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given an event roster with one poisoned team", t, func() {
		fs := newFakeStore()
		agg := testAggregator(fs)
		for _, n := range []int{100, 200, 300, 400} {
			fs.teams["2024txhou"] = append(fs.teams["2024txhou"],
				store.Team{TeamNumber: n, EventKey: "2024txhou"})
		}
		fs.listMatchesErr[300] = fmt.Errorf("connection reset")

		convey.Convey("When recomputing the whole event", func() {
			result, err := agg.RecomputeAll(ctx, "2024txhou", 2)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the batch finishes despite the failure", func() {
				convey.So(result.TeamsFound, convey.ShouldEqual, 4)
				convey.So(result.Succeeded, convey.ShouldEqual, 3)
				convey.So(result.Failed, convey.ShouldEqual, 1)
				convey.So(result.Results, convey.ShouldHaveLength, 4)
				convey.So(result.Errors, convey.ShouldHaveLength, 1)
				convey.So(result.RunID, convey.ShouldNotBeEmpty)
			})

			convey.Convey("Then the healthy teams still got aggregates", func() {
				convey.So(fs.savedRank, convey.ShouldHaveLength, 3)
				_, poisoned := fs.savedRank[pairKey(300, "2024txhou")]
				convey.So(poisoned, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the event has no registered teams", func() {
			result, err := agg.RecomputeAll(ctx, "2024nowhere", 2)
			convey.So(err, convey.ShouldBeNil)
			convey.So(result.TeamsFound, convey.ShouldEqual, 0)
			convey.So(result.Results, convey.ShouldBeEmpty)
		})

		convey.Convey("When the event key is missing", func() {
			_, err := agg.RecomputeAll(ctx, "", 2)
			convey.So(err, convey.ShouldWrap, ErrInvalidInput)
		})
	})
}
