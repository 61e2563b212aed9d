package handlers

import "github.com/dsiemon2/eventvote/internal/models"

// VoteSubmitResponse confirms an accepted ballot
type VoteSubmitResponse struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message"`
	BallotID  string  `json:"ballot_id"`
	VoteCount int     `json:"vote_count"`
	Points    float64 `json:"points"`
}

// ValidationFailureResponse is the 422 shape for rejected ballots
type ValidationFailureResponse struct {
	Success bool                `json:"success"`
	Errors  map[string][]string `json:"errors"`
}

// ValidateResponse is the dry-run validation result
type ValidateResponse struct {
	Valid  bool                `json:"valid"`
	Errors map[string][]string `json:"errors"`
}

// HasVotedResponse reports whether the caller holds a live ballot
type HasVotedResponse struct {
	HasVoted bool `json:"has_voted"`
}

// MyBallotResponse returns the caller's live ballot rows
type MyBallotResponse struct {
	BallotID string        `json:"ballot_id,omitempty"`
	Votes    []models.Vote `json:"votes"`
}

// MessageResponse is a generic success acknowledgement
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
