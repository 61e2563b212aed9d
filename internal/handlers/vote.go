package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dsiemon2/eventvote/internal/auth"
	"github.com/dsiemon2/eventvote/internal/services"
)

// voter builds the submission identity from the request context: the
// authenticated user when present, otherwise IP + fingerprint.
func (h *Handlers) voter(r *http.Request, fingerprint string) services.Voter {
	if fingerprint == "" {
		fingerprint = auth.Fingerprint(r)
	}
	return services.Voter{
		UserID:      auth.UserID(r.Context()),
		IP:          r.RemoteAddr,
		Fingerprint: fingerprint,
	}
}

// handleSubmitVote accepts a ballot and persists it
func (h *Handlers) handleSubmitVote(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "event")
	if err != nil {
		h.respondError(w, err)
		return
	}

	var req VoteSubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	cfg, err := h.Config.Resolve(r.Context(), eventID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	ballot, err := req.ToBallot(cfg.Category)
	if err != nil {
		h.respondError(w, err)
		return
	}

	result, err := h.Voting.Submit(r.Context(), eventID, h.voter(r, req.Fingerprint), ballot)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, VoteSubmitResponse{
		Success:   true,
		Message:   "Your vote has been recorded",
		BallotID:  result.BallotID,
		VoteCount: result.VoteCount,
		Points:    result.Points,
	})
}

// handleValidateVote runs ballot validation without persisting anything
func (h *Handlers) handleValidateVote(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "event")
	if err != nil {
		h.respondError(w, err)
		return
	}

	var req VoteSubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	cfg, err := h.Config.Resolve(r.Context(), eventID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	ballot, err := req.ToBallot(cfg.Category)
	if err != nil {
		h.respondError(w, err)
		return
	}

	_, _, err = h.Voting.Validate(r.Context(), eventID, h.voter(r, req.Fingerprint), ballot)
	if err != nil {
		if verr, ok := err.(*services.ValidationError); ok {
			respondOK(w, ValidateResponse{Valid: false, Errors: verr.Fields()})
			return
		}
		if svcErr, ok := err.(*services.ServiceError); ok {
			respondOK(w, ValidateResponse{
				Valid:  false,
				Errors: map[string][]string{"ballot": {svcErr.Message}},
			})
			return
		}
		h.respondError(w, err)
		return
	}

	respondOK(w, ValidateResponse{Valid: true, Errors: map[string][]string{}})
}

// handleMyBallot returns the caller's live ballot rows for the event
func (h *Handlers) handleMyBallot(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "event")
	if err != nil {
		h.respondError(w, err)
		return
	}

	userID := auth.UserID(r.Context())
	if userID == nil {
		h.respondError(w, Unauthorized("Authentication required"))
		return
	}

	votes, err := h.Voting.MyBallot(r.Context(), eventID, *userID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp := MyBallotResponse{Votes: votes}
	if len(votes) > 0 {
		resp.BallotID = votes[0].BallotID
	}
	respondOK(w, resp)
}

// handleHasVoted reports whether the caller holds a live ballot
func (h *Handlers) handleHasVoted(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "event")
	if err != nil {
		h.respondError(w, err)
		return
	}

	userID := auth.UserID(r.Context())
	if userID == nil {
		respondOK(w, HasVotedResponse{HasVoted: false})
		return
	}

	voted, err := h.Voting.HasVoted(r.Context(), eventID, *userID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, HasVotedResponse{HasVoted: voted})
}

// handleRemoveBallot soft-removes a ballot, keeping tombstone rows for audit
func (h *Handlers) handleRemoveBallot(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "event")
	if err != nil {
		h.respondError(w, err)
		return
	}

	ballotID := chi.URLParam(r, "ballot")
	if ballotID == "" {
		h.respondError(w, BadRequest("Missing ballot parameter"))
		return
	}

	userID := auth.UserID(r.Context())
	if userID == nil {
		h.respondError(w, Unauthorized("Authentication required"))
		return
	}

	var req BallotRemoveRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	if req.Reason == "" {
		h.respondError(w, BadRequest("A removal reason is required"))
		return
	}

	actor := "user:" + strconv.Itoa(*userID)
	if err := h.Voting.RemoveBallot(r.Context(), eventID, ballotID, actor, req.Reason); err != nil {
		h.respondError(w, err)
		return
	}

	respondOK(w, MessageResponse{Success: true, Message: "Ballot removed"})
}
