package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/scoutline/scoutline-data/internal/api/respond"
	"github.com/scoutline/scoutline-data/internal/store"
)

// UpsertTeam registers (or renames) a team at an event.
func (h *Handler) UpsertTeam(w http.ResponseWriter, r *http.Request) {
	var t store.Team
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON")
		return
	}
	if t.TeamNumber <= 0 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_TEAM", "team_number must be positive")
		return
	}
	if t.EventKey == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_EVENT", "event_key is required")
		return
	}

	if err := h.store.UpsertTeam(r.Context(), t); err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to save team", err.Error())
		return
	}
	h.cache.InvalidatePrefix("roster:" + t.EventKey)
	respond.WriteJSONObject(w, http.StatusOK, t)
}

// ListTeams returns the roster for an event.
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	eventKey, ok := requireEvent(w, r)
	if !ok {
		return
	}

	teams, err := h.store.ListTeams(r.Context(), eventKey)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to list teams", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"event_key": eventKey,
		"count":     len(teams),
		"teams":     teams,
	})
}

// GetTeam returns one roster entry.
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamNumber, ok := teamParam(w, r)
	if !ok {
		return
	}
	eventKey, ok := requireEvent(w, r)
	if !ok {
		return
	}

	t, err := h.store.GetTeam(r.Context(), teamNumber, eventKey)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Team not registered at this event")
		return
	}
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to get team", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, t)
}

// DeleteTeam removes a roster entry.
func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	teamNumber, ok := teamParam(w, r)
	if !ok {
		return
	}
	eventKey, ok := requireEvent(w, r)
	if !ok {
		return
	}

	err := h.store.DeleteTeam(r.Context(), teamNumber, eventKey)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Team not registered at this event")
		return
	}
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to delete team", err.Error())
		return
	}
	h.cache.InvalidatePrefix("roster:" + eventKey)
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status": "deleted", "team_number": teamNumber, "event_key": eventKey,
	})
}

// --------------------------------------------------------------------------
// Shared request helpers
// --------------------------------------------------------------------------

// requireEvent pulls the mandatory event query parameter.
func requireEvent(w http.ResponseWriter, r *http.Request) (string, bool) {
	eventKey := r.URL.Query().Get("event")
	if eventKey == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_EVENT", "event query parameter is required")
		return "", false
	}
	return eventKey, true
}

// teamParam parses the {teamNumber} URL parameter.
func teamParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "teamNumber"))
	if err != nil || n <= 0 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_TEAM", "Team number must be a positive integer")
		return 0, false
	}
	return n, true
}
