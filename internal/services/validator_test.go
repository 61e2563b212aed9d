package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsiemon2/eventvote/internal/models"
)

func testEntries() map[int]models.Entry {
	div1, div2 := 1, 2
	return map[int]models.Entry{
		10: {ID: 10, EventID: 1, EntryNumber: 1, DivisionID: &div1},
		20: {ID: 20, EventID: 1, EntryNumber: 2, DivisionID: &div1},
		30: {ID: 30, EventID: 1, EntryNumber: 3, DivisionID: &div2},
	}
}

func TestValidateBallot_EmptyBallot(t *testing.T) {
	cfg := rankedConfig()
	_, verr := validateBallot(cfg, testEntries(), nil, models.Ballot{Category: models.CategoryRanked})
	require.NotNil(t, verr)
	assert.True(t, verr.Has(CodeEmptyBallot))
}

func TestValidateBallot_RankedHappyPath(t *testing.T) {
	cfg := rankedConfig()
	ballot := models.Ballot{
		Category: models.CategoryRanked,
		Ranked: []models.RankedSelection{
			{Place: 2, EntryID: 20},
			{Place: 1, EntryID: 10},
		},
	}

	sels, verr := validateBallot(cfg, testEntries(), nil, ballot)
	require.Nil(t, verr)
	require.Len(t, sels, 2)

	// Normalized selections come back in place order
	assert.Equal(t, 10, sels[0].EntryID)
	assert.Equal(t, 1, *sels[0].Place)
	assert.Equal(t, 20, sels[1].EntryID)
	assert.Equal(t, 2, *sels[1].Place)
}

func TestValidateBallot_SameEntryInTwoPlaces(t *testing.T) {
	cfg := rankedConfig()
	ballot := models.Ballot{
		Category: models.CategoryRanked,
		Ranked: []models.RankedSelection{
			{Place: 1, EntryID: 10},
			{Place: 2, EntryID: 10},
		},
	}

	sels, verr := validateBallot(cfg, testEntries(), nil, ballot)
	require.NotNil(t, verr)
	assert.Nil(t, sels)
	assert.True(t, verr.Has(CodeDuplicateSelection))
}

func TestValidateBallot_PlaceOutOfRange(t *testing.T) {
	cfg := rankedConfig()
	ballot := models.Ballot{
		Category: models.CategoryRanked,
		Ranked:   []models.RankedSelection{{Place: 4, EntryID: 10}},
	}

	_, verr := validateBallot(cfg, testEntries(), nil, ballot)
	require.NotNil(t, verr)
	assert.True(t, verr.Has(CodeInvalidPlace))
}

func TestValidateBallot_DuplicatePlace(t *testing.T) {
	cfg := rankedConfig()
	ballot := models.Ballot{
		Category: models.CategoryRanked,
		Ranked: []models.RankedSelection{
			{Place: 1, EntryID: 10},
			{Place: 1, EntryID: 20},
		},
	}

	_, verr := validateBallot(cfg, testEntries(), nil, ballot)
	require.NotNil(t, verr)
	assert.True(t, verr.Has(CodeInvalidPlace))
}

func TestValidateBallot_UnknownEntry(t *testing.T) {
	cfg := rankedConfig()
	ballot := models.Ballot{
		Category: models.CategoryRanked,
		Ranked:   []models.RankedSelection{{Place: 1, EntryID: 999}},
	}

	_, verr := validateBallot(cfg, testEntries(), nil, ballot)
	require.NotNil(t, verr)
	assert.True(t, verr.Has(CodeInvalidEntry))
}

func TestValidateBallot_DivisionScopeMismatch(t *testing.T) {
	cfg := rankedConfig()
	ballot := models.Ballot{
		Category: models.CategoryRanked,
		// entry 30 is in division 2
		Ranked: []models.RankedSelection{{Place: 1, EntryID: 30, DivisionID: intp(1)}},
	}

	_, verr := validateBallot(cfg, testEntries(), nil, ballot)
	require.NotNil(t, verr)
	assert.True(t, verr.Has(CodeInvalidEntry))
}

func TestValidateBallot_SelfVote(t *testing.T) {
	cfg := rankedConfig()
	ballot := models.Ballot{
		Category: models.CategoryRanked,
		Ranked:   []models.RankedSelection{{Place: 1, EntryID: 10}},
	}

	_, verr := validateBallot(cfg, testEntries(), map[int]bool{10: true}, ballot)
	require.NotNil(t, verr)
	assert.True(t, verr.Has(CodeSelfVote))
}

func TestValidateBallot_SelfVoteAllowed(t *testing.T) {
	cfg := rankedConfig()
	cfg.AllowSelfVoting = true
	ballot := models.Ballot{
		Category: models.CategoryRanked,
		Ranked:   []models.RankedSelection{{Place: 1, EntryID: 10}},
	}

	sels, verr := validateBallot(cfg, testEntries(), map[int]bool{10: true}, ballot)
	require.Nil(t, verr)
	assert.Len(t, sels, 1)
}

func TestValidateBallot_CollectsAllViolations(t *testing.T) {
	cfg := rankedConfig()
	ballot := models.Ballot{
		Category: models.CategoryRanked,
		Ranked: []models.RankedSelection{
			{Place: 9, EntryID: 10},  // place out of range
			{Place: 1, EntryID: 999}, // unknown entry
			{Place: 2, EntryID: 20},  // fine, but self-owned
		},
	}

	_, verr := validateBallot(cfg, testEntries(), map[int]bool{20: true}, ballot)
	require.NotNil(t, verr)
	assert.True(t, verr.Has(CodeInvalidPlace))
	assert.True(t, verr.Has(CodeInvalidEntry))
	assert.True(t, verr.Has(CodeSelfVote))
	assert.Len(t, verr.Violations, 3)
}

func TestValidateBallot_RatingBounds(t *testing.T) {
	cfg := &models.ResolvedConfig{
		Event:    models.Event{ID: 1, IsActive: true},
		Category: models.CategoryRating,
		Settings: models.VotingTypeSettings{MinRating: 1, MaxRating: 5},
	}
	ballot := models.Ballot{
		Category: models.CategoryRating,
		Ratings:  map[int]float64{10: 4.5, 20: 7},
	}

	_, verr := validateBallot(cfg, testEntries(), nil, ballot)
	require.NotNil(t, verr)
	assert.True(t, verr.Has(CodeRatingOutOfRange))
	assert.Len(t, verr.Violations, 1)
}

func TestValidateBallot_MinRatingWithoutMax(t *testing.T) {
	cfg := &models.ResolvedConfig{
		Event:    models.Event{ID: 1, IsActive: true},
		Category: models.CategoryRating,
		Settings: models.VotingTypeSettings{MinRating: 1},
	}
	ballot := models.Ballot{
		Category: models.CategoryRating,
		Ratings:  map[int]float64{10: 0.5, 20: 3},
	}

	_, verr := validateBallot(cfg, testEntries(), nil, ballot)
	require.NotNil(t, verr)
	assert.True(t, verr.Has(CodeRatingOutOfRange))
	assert.Len(t, verr.Violations, 1)
}

func TestValidateBallot_NegativeRatingWithoutBounds(t *testing.T) {
	cfg := &models.ResolvedConfig{
		Event:    models.Event{ID: 1, IsActive: true},
		Category: models.CategoryRating,
	}
	ballot := models.Ballot{
		Category: models.CategoryRating,
		Ratings:  map[int]float64{10: -2},
	}

	_, verr := validateBallot(cfg, testEntries(), nil, ballot)
	require.NotNil(t, verr)
	assert.True(t, verr.Has(CodeRatingOutOfRange))
}

func TestValidateBallot_ApprovalLimits(t *testing.T) {
	cfg := &models.ResolvedConfig{
		Event:    models.Event{ID: 1, IsActive: true},
		Category: models.CategoryApproval,
		Settings: models.VotingTypeSettings{MaxSelections: 2},
	}
	ballot := models.Ballot{
		Category:  models.CategoryApproval,
		Approvals: []int{10, 20, 30},
	}

	_, verr := validateBallot(cfg, testEntries(), nil, ballot)
	require.NotNil(t, verr)
	assert.True(t, verr.Has(CodeTooManySelections))
}

func TestValidateBallot_ApprovalDuplicate(t *testing.T) {
	cfg := &models.ResolvedConfig{
		Event:    models.Event{ID: 1, IsActive: true},
		Category: models.CategoryApproval,
	}
	ballot := models.Ballot{
		Category:  models.CategoryApproval,
		Approvals: []int{10, 10},
	}

	_, verr := validateBallot(cfg, testEntries(), nil, ballot)
	require.NotNil(t, verr)
	assert.True(t, verr.Has(CodeDuplicateSelection))
}

func TestValidateBallot_AllocationCaps(t *testing.T) {
	cfg := &models.ResolvedConfig{
		Event:            models.Event{ID: 1, IsActive: true},
		Category:         models.CategoryCumulative,
		MaxVotesPerUser:  10,
		MaxVotesPerEntry: 5,
	}

	// Per-entry cap
	_, verr := validateBallot(cfg, testEntries(), nil, models.Ballot{
		Category:    models.CategoryCumulative,
		Allocations: map[int]float64{10: 6},
	})
	require.NotNil(t, verr)
	assert.True(t, verr.Has(CodeTooManySelections))

	// Total cap across entries
	_, verr = validateBallot(cfg, testEntries(), nil, models.Ballot{
		Category:    models.CategoryCumulative,
		Allocations: map[int]float64{10: 5, 20: 4, 30: 3},
	})
	require.NotNil(t, verr)
	assert.True(t, verr.Has(CodeTooManySelections))

	// Within both caps
	sels, verr := validateBallot(cfg, testEntries(), nil, models.Ballot{
		Category:    models.CategoryCumulative,
		Allocations: map[int]float64{10: 5, 20: 4},
	})
	require.Nil(t, verr)
	assert.Len(t, sels, 2)
}

func TestValidateBallot_AllocationMustBePositive(t *testing.T) {
	cfg := &models.ResolvedConfig{
		Event:    models.Event{ID: 1, IsActive: true},
		Category: models.CategoryWeighted,
	}
	_, verr := validateBallot(cfg, testEntries(), nil, models.Ballot{
		Category:    models.CategoryWeighted,
		Allocations: map[int]float64{10: -1},
	})
	require.NotNil(t, verr)
}

func TestValidateBallot_MaxVotesPerUserRanked(t *testing.T) {
	cfg := rankedConfig()
	cfg.MaxVotesPerUser = 2
	ballot := models.Ballot{
		Category: models.CategoryRanked,
		Ranked: []models.RankedSelection{
			{Place: 1, EntryID: 10},
			{Place: 2, EntryID: 20},
			{Place: 3, EntryID: 30},
		},
	}

	_, verr := validateBallot(cfg, testEntries(), nil, ballot)
	require.NotNil(t, verr)
	assert.True(t, verr.Has(CodeTooManySelections))
}
