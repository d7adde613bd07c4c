package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/scoutline/scoutline-data/internal/store"
)

// RankedTeam is a ranking row with its leaderboard position.
type RankedTeam struct {
	Rank int `json:"rank"`
	store.Ranking
}

// Rankings returns the event leaderboard: all ranking rows sorted descending
// by overall score, rank 1..N assigned by sort position. The sort is stable,
// so ties keep the store's retrieval order.
func (a *Aggregator) Rankings(ctx context.Context, eventKey string) ([]RankedTeam, error) {
	if eventKey == "" {
		return nil, fmt.Errorf("%w: event key is required", ErrInvalidInput)
	}

	rows, err := a.store.ListRankings(ctx, eventKey)
	if err != nil {
		return nil, fmt.Errorf("fetch rankings for %s: %w", eventKey, err)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].OverallScore > rows[j].OverallScore
	})

	ranked := make([]RankedTeam, len(rows))
	for i, r := range rows {
		ranked[i] = RankedTeam{Rank: i + 1, Ranking: r}
	}
	return ranked, nil
}
