package services

import (
	"math"

	"github.com/dsiemon2/eventvote/internal/models"
)

// defaultPerVotePoints is the flat value of one approval mark when the voting
// type does not set per_vote_points.
const defaultPerVotePoints = 1.0

// round2 rounds to the schema's fixed decimal precision (2 places)
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// basePoints computes the unweighted point value of one normalized selection.
// Ranked selections read the merged place table; rating votes score the raw
// rating; approval marks score a flat per-vote value; weighted and cumulative
// allocations carry their own point value.
func basePoints(cfg *models.ResolvedConfig, sel models.Selection) float64 {
	switch cfg.Category {
	case models.CategoryRanked:
		if sel.Place == nil {
			return 0
		}
		return cfg.Places[*sel.Place]
	case models.CategoryRating:
		if sel.Rating == nil {
			return 0
		}
		return *sel.Rating
	case models.CategoryApproval:
		if cfg.Settings.PerVotePoints > 0 {
			return cfg.Settings.PerVotePoints
		}
		return defaultPerVotePoints
	case models.CategoryWeighted, models.CategoryCumulative:
		return sel.Points
	}
	return 0
}

// scoreBallot converts normalized selections into vote rows. It is pure and
// deterministic: the same selections, place table, and multiplier always
// yield the same points. final_points = round2(base_points * multiplier) is
// computed here, at write time, and stored.
func scoreBallot(cfg *models.ResolvedConfig, sels []models.Selection, multiplier float64, ballotID string) []models.Vote {
	votes := make([]models.Vote, 0, len(sels))
	for _, sel := range sels {
		base := round2(basePoints(cfg, sel))
		votes = append(votes, models.Vote{
			EventID:          cfg.Event.ID,
			BallotID:         ballotID,
			EntryID:          sel.EntryID,
			DivisionID:       sel.DivisionID,
			CategoryID:       sel.CategoryID,
			Place:            sel.Place,
			Rating:           sel.Rating,
			BasePoints:       base,
			WeightMultiplier: multiplier,
			FinalPoints:      round2(base * multiplier),
			Status:           models.VoteLive,
		})
	}
	return votes
}
