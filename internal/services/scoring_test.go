package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsiemon2/eventvote/internal/models"
)

func rankedConfig() *models.ResolvedConfig {
	return &models.ResolvedConfig{
		Event:    models.Event{ID: 1, IsActive: true},
		Category: models.CategoryRanked,
		Places:   map[int]float64{1: 3, 2: 2, 3: 1},
		MaxPlace: 3,
	}
}

func intp(v int) *int          { return &v }
func floatp(v float64) *float64 { return &v }

func TestScoreBallot_RankedPlacePoints(t *testing.T) {
	cfg := rankedConfig()
	sels := []models.Selection{
		{EntryID: 10, Place: intp(1)},
		{EntryID: 20, Place: intp(2)},
		{EntryID: 30, Place: intp(3)},
	}

	votes := scoreBallot(cfg, sels, 1.0, "ballot-1")
	require.Len(t, votes, 3)

	assert.Equal(t, 3.0, votes[0].BasePoints)
	assert.Equal(t, 2.0, votes[1].BasePoints)
	assert.Equal(t, 1.0, votes[2].BasePoints)
	for _, v := range votes {
		assert.Equal(t, v.BasePoints, v.FinalPoints)
		assert.Equal(t, models.VoteLive, v.Status)
		assert.Equal(t, "ballot-1", v.BallotID)
	}
}

func TestScoreBallot_WeightMultiplier(t *testing.T) {
	cfg := rankedConfig()
	sels := []models.Selection{{EntryID: 10, Place: intp(1)}}

	votes := scoreBallot(cfg, sels, 2.0, "b")
	require.Len(t, votes, 1)

	assert.Equal(t, 3.0, votes[0].BasePoints)
	assert.Equal(t, 2.0, votes[0].WeightMultiplier)
	assert.Equal(t, 6.0, votes[0].FinalPoints)
}

func TestScoreBallot_RoundsToTwoDecimals(t *testing.T) {
	cfg := rankedConfig()
	cfg.Places[1] = 1.0
	sels := []models.Selection{{EntryID: 10, Place: intp(1)}}

	votes := scoreBallot(cfg, sels, 1.333, "b")
	require.Len(t, votes, 1)
	assert.Equal(t, 1.33, votes[0].FinalPoints)

	cfg.Places[1] = 3.0
	votes = scoreBallot(cfg, sels, 1.11, "b")
	assert.Equal(t, 3.33, votes[0].FinalPoints)
}

func TestScoreBallot_Deterministic(t *testing.T) {
	cfg := rankedConfig()
	sels := []models.Selection{
		{EntryID: 10, Place: intp(1)},
		{EntryID: 20, Place: intp(2)},
	}

	first := scoreBallot(cfg, sels, 1.5, "b")
	second := scoreBallot(cfg, sels, 1.5, "b")
	assert.Equal(t, first, second)
}

func TestBasePoints_Rating(t *testing.T) {
	cfg := &models.ResolvedConfig{Category: models.CategoryRating}
	got := basePoints(cfg, models.Selection{EntryID: 1, Rating: floatp(4.5)})
	assert.Equal(t, 4.5, got)
}

func TestBasePoints_ApprovalDefaultsToOne(t *testing.T) {
	cfg := &models.ResolvedConfig{Category: models.CategoryApproval}
	assert.Equal(t, 1.0, basePoints(cfg, models.Selection{EntryID: 1}))

	cfg.Settings.PerVotePoints = 2.5
	assert.Equal(t, 2.5, basePoints(cfg, models.Selection{EntryID: 1}))
}

func TestBasePoints_AllocationCarriesOwnValue(t *testing.T) {
	cfg := &models.ResolvedConfig{Category: models.CategoryCumulative}
	got := basePoints(cfg, models.Selection{EntryID: 1, Points: 7})
	assert.Equal(t, 7.0, got)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 6.0, round2(6.000000001))
	assert.Equal(t, 1.67, round2(5.0/3.0))
	assert.Equal(t, 0.0, round2(0))
}
