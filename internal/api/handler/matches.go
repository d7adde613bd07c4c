package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/scoutline/scoutline-data/internal/api/respond"
	"github.com/scoutline/scoutline-data/internal/store"
)

// CreateMatch saves a new scouting observation and re-aggregates the
// (team, event) pair it belongs to.
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var m store.MatchRecord
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON")
		return
	}
	if err := m.Validate(); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_RECORD", err.Error())
		return
	}

	if err := h.store.CreateMatch(r.Context(), &m); err != nil {
		respond.WriteErrorDetail(w, http.StatusConflict, "STORE_ERROR",
			"Failed to save match record (duplicate match number?)", err.Error())
		return
	}

	h.triggerRecompute(r.Context(), m.TeamNumber, m.EventKey)
	respond.WriteJSONObject(w, http.StatusCreated, m)
}

// ListMatches returns scouting records, for one team or a whole event.
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	eventKey, ok := requireEvent(w, r)
	if !ok {
		return
	}

	var (
		matches []store.MatchRecord
		err     error
	)
	if teamStr := r.URL.Query().Get("team"); teamStr != "" {
		teamNumber, convErr := strconv.Atoi(teamStr)
		if convErr != nil || teamNumber <= 0 {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_TEAM", "team must be a positive integer")
			return
		}
		matches, err = h.store.ListMatches(r.Context(), teamNumber, eventKey)
	} else {
		matches, err = h.store.ListEventMatches(r.Context(), eventKey)
	}
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to list matches", err.Error())
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"event_key": eventKey,
		"count":     len(matches),
		"matches":   matches,
	})
}

// GetMatch returns a single scouting record by ID.
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := matchIDParam(w, r)
	if !ok {
		return
	}

	m, err := h.store.GetMatch(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Match record not found")
		return
	}
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to get match", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, m)
}

// UpdateMatch corrects an existing observation and re-aggregates its pair.
func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := matchIDParam(w, r)
	if !ok {
		return
	}

	// Decode over the stored row so partial bodies act as corrections.
	existing, err := h.store.GetMatch(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Match record not found")
		return
	}
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to get match", err.Error())
		return
	}

	m := *existing
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON")
		return
	}
	// Identity is immutable on update.
	m.ID = id
	m.TeamNumber = existing.TeamNumber
	m.EventKey = existing.EventKey
	if err := m.Validate(); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_RECORD", err.Error())
		return
	}

	err = h.store.UpdateMatch(r.Context(), &m)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Match record not found")
		return
	}
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to update match", err.Error())
		return
	}

	h.triggerRecompute(r.Context(), m.TeamNumber, m.EventKey)
	respond.WriteJSONObject(w, http.StatusOK, m)
}

// DeleteMatch removes an observation and re-aggregates its pair.
func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := matchIDParam(w, r)
	if !ok {
		return
	}

	m, err := h.store.DeleteMatch(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Match record not found")
		return
	}
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to delete match", err.Error())
		return
	}

	h.triggerRecompute(r.Context(), m.TeamNumber, m.EventKey)
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status": "deleted", "id": id,
		"team_number": m.TeamNumber, "event_key": m.EventKey,
	})
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func matchIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "matchID"), 10, 64)
	if err != nil || id <= 0 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "Match ID must be a positive integer")
		return 0, false
	}
	return id, true
}

// triggerRecompute re-aggregates after a match write. A recompute failure
// does not fail the write: the record is saved, and the maintenance sweep
// self-heals stale aggregates.
func (h *Handler) triggerRecompute(ctx context.Context, teamNumber int, eventKey string) {
	if err := h.agg.Recompute(ctx, teamNumber, eventKey); err == nil {
		h.invalidateStats(teamNumber, eventKey)
	}
}

func (h *Handler) invalidateStats(teamNumber int, eventKey string) {
	key := eventKey + ":" + strconv.Itoa(teamNumber)
	h.cache.InvalidatePrefix("pct:" + key)
	h.cache.InvalidatePrefix("frac:" + key)
	h.cache.InvalidatePrefix("rank:" + eventKey)
}
