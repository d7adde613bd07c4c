package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/scoutline/scoutline-data/internal/api/respond"
	"github.com/scoutline/scoutline-data/internal/cache"
	"github.com/scoutline/scoutline-data/internal/stats"
	"github.com/scoutline/scoutline-data/internal/store"
)

// GetPercentages returns the derived percentage row for a team, raw JSON
// passthrough from Postgres, cached with an ETag.
func (h *Handler) GetPercentages(w http.ResponseWriter, r *http.Request) {
	h.serveAggregate(w, r, "pct", h.store.PercentagesJSON)
}

// GetFractions returns the fraction-display row for a team.
func (h *Handler) GetFractions(w http.ResponseWriter, r *http.Request) {
	h.serveAggregate(w, r, "frac", h.store.FractionsJSON)
}

// serveAggregate is the shared read path for the two per-team aggregate
// tables: cache, ETag revalidation, then Postgres row_to_json passthrough.
func (h *Handler) serveAggregate(
	w http.ResponseWriter,
	r *http.Request,
	kind string,
	fetch func(ctx context.Context, teamNumber int, eventKey string) ([]byte, error),
) {
	teamNumber, ok := teamParam(w, r)
	if !ok {
		return
	}
	eventKey, ok := requireEvent(w, r)
	if !ok {
		return
	}

	cacheKey := fmt.Sprintf("%s:%s:%d", kind, eventKey, teamNumber)
	ttl := cache.TTLAggregates

	if data, etag, hit := h.cache.Get(cacheKey); hit {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	raw, err := fetch(r.Context(), teamNumber, eventKey)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND",
			"No aggregates for this team yet; trigger a recompute")
		return
	}
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to read aggregates", err.Error())
		return
	}

	etag := h.cache.Set(cacheKey, raw, ttl)
	respond.WriteJSON(w, raw, etag, ttl, false)
}

// GetRankings returns the event leaderboard, descending by overall score.
func (h *Handler) GetRankings(w http.ResponseWriter, r *http.Request) {
	eventKey, ok := requireEvent(w, r)
	if !ok {
		return
	}

	cacheKey := "rank:" + eventKey
	ttl := cache.TTLAggregates

	if data, etag, hit := h.cache.Get(cacheKey); hit {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	ranked, err := h.agg.Rankings(r.Context(), eventKey)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to compute rankings", err.Error())
		return
	}

	raw, err := json.Marshal(map[string]interface{}{
		"event_key": eventKey,
		"count":     len(ranked),
		"rankings":  ranked,
	})
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "ENCODING_ERROR", "Failed to encode rankings", err.Error())
		return
	}

	etag := h.cache.Set(cacheKey, raw, ttl)
	respond.WriteJSON(w, raw, etag, ttl, false)
}

// RecomputeTeam forces re-aggregation for one (team, event) pair.
func (h *Handler) RecomputeTeam(w http.ResponseWriter, r *http.Request) {
	teamNumber, ok := teamParam(w, r)
	if !ok {
		return
	}
	eventKey, ok := requireEvent(w, r)
	if !ok {
		return
	}

	if err := h.agg.Recompute(r.Context(), teamNumber, eventKey); err != nil {
		if errors.Is(err, stats.ErrInvalidInput) {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
			return
		}
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "RECOMPUTE_FAILED",
			"Aggregate recomputation failed", err.Error())
		return
	}

	h.invalidateStats(teamNumber, eventKey)

	// Best effort; the recompute already succeeded.
	count, _ := h.store.CountMatches(r.Context(), teamNumber, eventKey)
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status": "ok", "team_number": teamNumber, "event_key": eventKey,
		"matches_played": count,
	})
}

// RecomputeEvent re-aggregates every registered team at an event. Partial
// failure is a 200 with the failures enumerated, never a hard failure.
func (h *Handler) RecomputeEvent(w http.ResponseWriter, r *http.Request) {
	eventKey, ok := requireEvent(w, r)
	if !ok {
		return
	}

	result, err := h.agg.RecomputeAll(r.Context(), eventKey, h.cfg.RecomputeWorkers)
	if err != nil {
		if errors.Is(err, stats.ErrInvalidInput) {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
			return
		}
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "RECOMPUTE_FAILED",
			"Batch recompute could not start", err.Error())
		return
	}

	h.cache.InvalidatePrefix("pct:" + eventKey)
	h.cache.InvalidatePrefix("frac:" + eventKey)
	h.cache.InvalidatePrefix("rank:" + eventKey)
	respond.WriteJSONObject(w, http.StatusOK, result)
}
