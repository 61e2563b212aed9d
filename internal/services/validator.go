package services

import (
	"sort"

	"github.com/dsiemon2/eventvote/internal/models"
)

// validateBallot checks a ballot against the resolved rules and normalizes it
// into selections ready for scoring. Violations are collected, not fail-fast,
// so the voter sees every problem in one response. Validation is all-or-
// nothing: any violation rejects the whole ballot.
//
// entries maps entry ID to entry for the event; owned holds the entry IDs of
// the casting user's linked participant.
func validateBallot(cfg *models.ResolvedConfig, entries map[int]models.Entry, owned map[int]bool, ballot models.Ballot) ([]models.Selection, *ValidationError) {
	verr := &ValidationError{}

	if ballot.Empty() {
		verr.Add("ballot", CodeEmptyBallot, "ballot contains no selections")
		return nil, verr
	}

	var sels []models.Selection
	switch cfg.Category {
	case models.CategoryRanked:
		sels = validateRanked(cfg, entries, ballot.Ranked, verr)
	case models.CategoryRating:
		sels = validateRatings(cfg, entries, ballot.Ratings, verr)
	case models.CategoryApproval:
		sels = validateApprovals(cfg, entries, ballot.Approvals, verr)
	case models.CategoryWeighted, models.CategoryCumulative:
		sels = validateAllocations(cfg, entries, ballot.Allocations, verr)
	}

	if cfg.MaxVotesPerUser > 0 && len(sels) > cfg.MaxVotesPerUser {
		verr.Add("ballot", CodeTooManySelections,
			"ballot has %d selections, the event allows at most %d per voter", len(sels), cfg.MaxVotesPerUser)
	}

	if !cfg.AllowSelfVoting {
		for _, sel := range sels {
			if owned[sel.EntryID] {
				verr.Add("entries", CodeSelfVote,
					"entry %d belongs to you; self-voting is not allowed", entryNumber(entries, sel.EntryID))
			}
		}
	}

	if !verr.Empty() {
		return nil, verr
	}
	return sels, nil
}

func validateRanked(cfg *models.ResolvedConfig, entries map[int]models.Entry, ranked []models.RankedSelection, verr *ValidationError) []models.Selection {
	seenPlaces := make(map[int]bool)
	seenEntries := make(map[int]bool)

	sels := make([]models.Selection, 0, len(ranked))
	for _, rs := range ranked {
		if rs.Place < 1 || rs.Place > cfg.MaxPlace {
			verr.Add("places", CodeInvalidPlace,
				"place %d is outside the configured range 1..%d", rs.Place, cfg.MaxPlace)
			continue
		}
		if seenPlaces[rs.Place] {
			verr.Add("places", CodeInvalidPlace, "place %d is used more than once", rs.Place)
			continue
		}
		seenPlaces[rs.Place] = true

		entry, ok := checkEntry(cfg, entries, rs.EntryID, rs.DivisionID, rs.CategoryID, verr)
		if !ok {
			continue
		}
		if seenEntries[entry.ID] {
			verr.Add("entries", CodeDuplicateSelection,
				"entry %d is selected for more than one place", entry.EntryNumber)
			continue
		}
		seenEntries[entry.ID] = true

		place := rs.Place
		sels = append(sels, models.Selection{
			EntryID:    entry.ID,
			DivisionID: entry.DivisionID,
			CategoryID: entry.CategoryID,
			Place:      &place,
		})
	}

	sort.Slice(sels, func(i, j int) bool { return *sels[i].Place < *sels[j].Place })
	return sels
}

func validateRatings(cfg *models.ResolvedConfig, entries map[int]models.Entry, ratings map[int]float64, verr *ValidationError) []models.Selection {
	sels := make([]models.Selection, 0, len(ratings))
	for _, entryID := range sortedKeys(ratings) {
		entry, ok := checkEntry(cfg, entries, entryID, nil, nil, verr)
		if !ok {
			continue
		}
		rating := ratings[entryID]
		min, max := cfg.Settings.MinRating, cfg.Settings.MaxRating
		if rating < min || (max > 0 && rating > max) {
			verr.Add("ratings", CodeRatingOutOfRange,
				"rating %g for entry %d is outside [%g, %g]", rating, entry.EntryNumber, min, max)
			continue
		}
		r := rating
		sels = append(sels, models.Selection{
			EntryID:    entry.ID,
			DivisionID: entry.DivisionID,
			CategoryID: entry.CategoryID,
			Rating:     &r,
		})
	}
	return sels
}

func validateApprovals(cfg *models.ResolvedConfig, entries map[int]models.Entry, approvals []int, verr *ValidationError) []models.Selection {
	if cfg.Settings.MaxSelections > 0 && len(approvals) > cfg.Settings.MaxSelections {
		verr.Add("selections", CodeTooManySelections,
			"%d entries selected, at most %d are allowed", len(approvals), cfg.Settings.MaxSelections)
	}

	seen := make(map[int]bool)
	sels := make([]models.Selection, 0, len(approvals))
	sorted := append([]int(nil), approvals...)
	sort.Ints(sorted)
	for _, entryID := range sorted {
		if seen[entryID] {
			verr.Add("selections", CodeDuplicateSelection,
				"entry %d is selected more than once", entryNumber(entries, entryID))
			continue
		}
		seen[entryID] = true

		entry, ok := checkEntry(cfg, entries, entryID, nil, nil, verr)
		if !ok {
			continue
		}
		sels = append(sels, models.Selection{
			EntryID:    entry.ID,
			DivisionID: entry.DivisionID,
			CategoryID: entry.CategoryID,
		})
	}
	return sels
}

func validateAllocations(cfg *models.ResolvedConfig, entries map[int]models.Entry, allocations map[int]float64, verr *ValidationError) []models.Selection {
	var total float64
	sels := make([]models.Selection, 0, len(allocations))
	for _, entryID := range sortedKeys(allocations) {
		entry, ok := checkEntry(cfg, entries, entryID, nil, nil, verr)
		if !ok {
			continue
		}
		points := allocations[entryID]
		if points <= 0 {
			verr.Add("allocations", CodeTooManySelections,
				"allocation for entry %d must be positive", entry.EntryNumber)
			continue
		}
		if cfg.MaxVotesPerEntry > 0 && points > float64(cfg.MaxVotesPerEntry) {
			verr.Add("allocations", CodeTooManySelections,
				"allocation %g for entry %d exceeds the per-entry limit of %d", points, entry.EntryNumber, cfg.MaxVotesPerEntry)
			continue
		}
		total += points
		sels = append(sels, models.Selection{
			EntryID:    entry.ID,
			DivisionID: entry.DivisionID,
			CategoryID: entry.CategoryID,
			Points:     points,
		})
	}
	if cfg.MaxVotesPerUser > 0 && total > float64(cfg.MaxVotesPerUser) {
		verr.Add("allocations", CodeTooManySelections,
			"allocated %g points in total, the event allows at most %d per voter", total, cfg.MaxVotesPerUser)
	}
	return sels
}

// checkEntry verifies a referenced entry exists, belongs to the event, and
// matches any stated division/category scope.
func checkEntry(cfg *models.ResolvedConfig, entries map[int]models.Entry, entryID int, divisionID, categoryID *int, verr *ValidationError) (models.Entry, bool) {
	entry, ok := entries[entryID]
	if !ok {
		verr.Add("entries", CodeInvalidEntry, "entry %d does not exist in this event", entryID)
		return models.Entry{}, false
	}
	if divisionID != nil && (entry.DivisionID == nil || *entry.DivisionID != *divisionID) {
		verr.Add("entries", CodeInvalidEntry,
			"entry %d does not belong to division %d", entry.EntryNumber, *divisionID)
		return models.Entry{}, false
	}
	if categoryID != nil && (entry.CategoryID == nil || *entry.CategoryID != *categoryID) {
		verr.Add("entries", CodeInvalidEntry,
			"entry %d does not belong to category %d", entry.EntryNumber, *categoryID)
		return models.Entry{}, false
	}
	return entry, true
}

// entryNumber resolves the voter-facing number of an entry, falling back to
// the raw ID for unknown entries.
func entryNumber(entries map[int]models.Entry, entryID int) int {
	if entry, ok := entries[entryID]; ok {
		return entry.EntryNumber
	}
	return entryID
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
