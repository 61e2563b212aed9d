package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const defaultLeaderboardLimit = 10

// handleGetResults returns the full ranked results for an event
func (h *Handlers) handleGetResults(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "event")
	if err != nil {
		h.respondError(w, err)
		return
	}

	results, err := h.Results.GetResults(r.Context(), eventID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, results)
}

// handleGetDivisionResults returns results scoped to one division
func (h *Handlers) handleGetDivisionResults(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "event")
	if err != nil {
		h.respondError(w, err)
		return
	}
	divisionID, err := parseIntParam(r, "division")
	if err != nil {
		h.respondError(w, err)
		return
	}

	results, err := h.Results.GetDivisionResults(r.Context(), eventID, divisionID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, results)
}

// handleGetDivisionTypeResults returns results scoped to a division type
func (h *Handlers) handleGetDivisionTypeResults(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "event")
	if err != nil {
		h.respondError(w, err)
		return
	}

	divisionType := chi.URLParam(r, "type")
	if divisionType == "" {
		h.respondError(w, BadRequest("Missing type parameter"))
		return
	}

	results, err := h.Results.GetDivisionTypeResults(r.Context(), eventID, divisionType)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, results)
}

// handleGetLeaderboard returns the top-N results, optionally per division
func (h *Handlers) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "event")
	if err != nil {
		h.respondError(w, err)
		return
	}

	limit := defaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.respondError(w, BadRequest("Invalid limit parameter"))
			return
		}
		limit = n
	}

	var divisionID *int
	if raw := r.URL.Query().Get("division_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(w, BadRequest("Invalid division_id parameter"))
			return
		}
		divisionID = &id
	}

	results, err := h.Results.GetLeaderboard(r.Context(), eventID, limit, divisionID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, results)
}

// handleGetResultsSummary returns aggregate counts for dashboard display
func (h *Handlers) handleGetResultsSummary(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "event")
	if err != nil {
		h.respondError(w, err)
		return
	}

	stats, err := h.Results.GetSummary(r.Context(), eventID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, stats)
}

// handlePollResults returns the ranked list plus the live vote count so
// clients can compare vote_count cheaply before re-rendering
func (h *Handlers) handlePollResults(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "event")
	if err != nil {
		h.respondError(w, err)
		return
	}

	poll, err := h.Results.Poll(r.Context(), eventID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, poll)
}

// handleRebuildResults recomputes every summary row of the event from live
// votes. Safe to run at any time; the recomputation is idempotent.
func (h *Handlers) handleRebuildResults(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "event")
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.Summary.RebuildEvent(r.Context(), eventID); err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, MessageResponse{Success: true, Message: "Results rebuilt"})
}

// handleHealthz reports process and storage liveness
func (h *Handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondOK(w, map[string]string{"status": "ok"})
}
