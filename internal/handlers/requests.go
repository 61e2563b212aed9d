package handlers

import (
	"strconv"
	"strings"

	"github.com/dsiemon2/eventvote/internal/models"
)

// VoteSubmitRequest carries one ballot. Exactly one selection block is
// expected, matching the event's voting category; the others stay empty.
//
// Ranked ballots arrive keyed by scope then place:
//
//	{"votes": {"default": {"1": 12, "2": 7}, "division_3": {"1": 9}}}
//
// Scope keys are "default", "division_<id>" or "category_<id>". Rating and
// allocation blocks are keyed by entry ID; approvals are a flat entry list.
type VoteSubmitRequest struct {
	Votes       map[string]map[string]int `json:"votes,omitempty"`
	Ratings     map[string]float64        `json:"ratings,omitempty"`
	Approvals   []int                     `json:"approvals,omitempty"`
	Allocations map[string]float64        `json:"allocations,omitempty"`
	Fingerprint string                    `json:"fingerprint,omitempty"`
}

// BallotRemoveRequest asks for a ballot to be soft-removed, with the reason
// kept on the tombstone rows.
type BallotRemoveRequest struct {
	Reason string `json:"reason"`
}

// ToBallot converts the wire shape into a typed ballot for the given voting
// category. Unparseable keys are rejected here; rule checks happen later.
func (req *VoteSubmitRequest) ToBallot(category models.VotingCategory) (models.Ballot, error) {
	ballot := models.Ballot{Category: category}

	switch category {
	case models.CategoryRanked:
		for scopeKey, places := range req.Votes {
			divisionID, categoryID, err := parseScopeKey(scopeKey)
			if err != nil {
				return ballot, err
			}
			for placeKey, entryID := range places {
				place, err := strconv.Atoi(placeKey)
				if err != nil {
					return ballot, BadRequest("Invalid place key: " + placeKey)
				}
				ballot.Ranked = append(ballot.Ranked, models.RankedSelection{
					Place:      place,
					EntryID:    entryID,
					DivisionID: divisionID,
					CategoryID: categoryID,
				})
			}
		}

	case models.CategoryRating:
		ballot.Ratings = make(map[int]float64, len(req.Ratings))
		for entryKey, rating := range req.Ratings {
			entryID, err := strconv.Atoi(entryKey)
			if err != nil {
				return ballot, BadRequest("Invalid entry key: " + entryKey)
			}
			ballot.Ratings[entryID] = rating
		}

	case models.CategoryApproval:
		ballot.Approvals = append(ballot.Approvals, req.Approvals...)

	case models.CategoryWeighted, models.CategoryCumulative:
		ballot.Allocations = make(map[int]float64, len(req.Allocations))
		for entryKey, points := range req.Allocations {
			entryID, err := strconv.Atoi(entryKey)
			if err != nil {
				return ballot, BadRequest("Invalid entry key: " + entryKey)
			}
			ballot.Allocations[entryID] = points
		}

	default:
		return ballot, BadRequest("Unsupported voting category: " + string(category))
	}

	return ballot, nil
}

// parseScopeKey resolves a ranked-ballot scope key to its division or
// category ID. "default" means unscoped.
func parseScopeKey(key string) (divisionID, categoryID *int, err error) {
	switch {
	case key == "default":
		return nil, nil, nil
	case strings.HasPrefix(key, "division_"):
		id, aerr := strconv.Atoi(strings.TrimPrefix(key, "division_"))
		if aerr != nil {
			return nil, nil, BadRequest("Invalid scope key: " + key)
		}
		return &id, nil, nil
	case strings.HasPrefix(key, "category_"):
		id, aerr := strconv.Atoi(strings.TrimPrefix(key, "category_"))
		if aerr != nil {
			return nil, nil, BadRequest("Invalid scope key: " + key)
		}
		return nil, &id, nil
	default:
		return nil, nil, BadRequest("Invalid scope key: " + key)
	}
}
