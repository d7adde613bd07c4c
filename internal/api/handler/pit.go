package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/scoutline/scoutline-data/internal/api/respond"
	"github.com/scoutline/scoutline-data/internal/store"
)

// UpsertPitReport saves a pit survey, replacing any prior one for the pair.
func (h *Handler) UpsertPitReport(w http.ResponseWriter, r *http.Request) {
	var report store.PitReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON")
		return
	}
	if report.TeamNumber <= 0 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_TEAM", "team_number must be positive")
		return
	}
	if report.EventKey == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_EVENT", "event_key is required")
		return
	}

	if err := h.store.UpsertPitReport(r.Context(), report); err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to save pit report", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, report)
}

// GetPitReport returns the pit survey for one team.
func (h *Handler) GetPitReport(w http.ResponseWriter, r *http.Request) {
	teamNumber, ok := teamParam(w, r)
	if !ok {
		return
	}
	eventKey, ok := requireEvent(w, r)
	if !ok {
		return
	}

	report, err := h.store.GetPitReport(r.Context(), teamNumber, eventKey)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "No pit report for this team")
		return
	}
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to get pit report", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, report)
}

// ListPitReports returns all pit surveys for an event.
func (h *Handler) ListPitReports(w http.ResponseWriter, r *http.Request) {
	eventKey, ok := requireEvent(w, r)
	if !ok {
		return
	}

	reports, err := h.store.ListPitReports(r.Context(), eventKey)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to list pit reports", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"event_key": eventKey,
		"count":     len(reports),
		"reports":   reports,
	})
}
