package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TeamResult is the outcome of one team's recompute within a batch.
type TeamResult struct {
	TeamNumber int    `json:"team_number"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// BatchResult is the partial-success report of a batch recompute. One team's
// bad data never fails the whole batch; failures are enumerated instead.
type BatchResult struct {
	RunID      string        `json:"run_id"`
	EventKey   string        `json:"event_key"`
	TeamsFound int           `json:"teams_found"`
	Succeeded  int           `json:"succeeded"`
	Failed     int           `json:"failed"`
	Duration   time.Duration `json:"duration_ns"`
	Results    []TeamResult  `json:"results"`
	Errors     []string      `json:"errors,omitempty"`
}

// Summary returns a human-readable summary of the batch run.
func (r *BatchResult) Summary() string {
	return fmt.Sprintf("event=%s teams=%d succeeded=%d failed=%d dur=%s",
		r.EventKey, r.TeamsFound, r.Succeeded, r.Failed,
		r.Duration.Round(time.Millisecond))
}

// RecomputeAll recomputes aggregates for every team registered at an event
// using a bounded worker pool. Individual failures are recorded in the
// report and do not stop the rest of the batch.
func (a *Aggregator) RecomputeAll(ctx context.Context, eventKey string, workers int) (*BatchResult, error) {
	if eventKey == "" {
		return nil, fmt.Errorf("%w: event key is required", ErrInvalidInput)
	}

	start := time.Now()
	result := &BatchResult{
		RunID:    uuid.NewString(),
		EventKey: eventKey,
	}

	teams, err := a.store.ListTeams(ctx, eventKey)
	if err != nil {
		return nil, fmt.Errorf("fetch teams for %s: %w", eventKey, err)
	}
	result.TeamsFound = len(teams)
	if len(teams) == 0 {
		a.logger.Info("No teams registered for event", "event", eventKey)
		result.Duration = time.Since(start)
		return result, nil
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(teams) {
		workers = len(teams)
	}

	ch := make(chan int, len(teams))
	for _, t := range teams {
		ch <- t.TeamNumber
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for teamNumber := range ch {
				err := a.Recompute(ctx, teamNumber, eventKey)

				mu.Lock()
				tr := TeamResult{TeamNumber: teamNumber, Success: err == nil}
				if err != nil {
					tr.Error = err.Error()
					result.Failed++
					result.Errors = append(result.Errors, fmt.Sprintf("team %d: %v", teamNumber, err))
				} else {
					result.Succeeded++
				}
				result.Results = append(result.Results, tr)
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	result.Duration = time.Since(start)

	a.logger.Info("Batch recompute complete", "run_id", result.RunID, "summary", result.Summary())
	return result, nil
}
