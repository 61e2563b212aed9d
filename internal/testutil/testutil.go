package testutil

import (
	"context"
	"testing"

	"github.com/dsiemon2/eventvote/internal/models"
	"github.com/dsiemon2/eventvote/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// Fixture describes one fully configured test event
type Fixture struct {
	EventID      int
	VotingTypeID int
	EntryIDs     []int
	DivisionID   int
}

// RankedEvent seeds an active event with a 3-place ranked voting type
// (3/2/1 points), one division, and the given number of entries.
func RankedEvent(t *testing.T, repo *repository.Repository, entries int) Fixture {
	t.Helper()
	return seedEvent(t, repo, entries, true)
}

// NoChangesEvent is RankedEvent with resubmission disabled on the event
func NoChangesEvent(t *testing.T, repo *repository.Repository, entries int) Fixture {
	t.Helper()
	return seedEvent(t, repo, entries, false)
}

func seedEvent(t *testing.T, repo *repository.Repository, entries int, allowChanges bool) Fixture {
	t.Helper()
	ctx := context.Background()

	eventID, err := repo.CreateEvent(ctx, "Test Event", true, allowChanges)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	vtID, err := repo.CreateVotingType(ctx, models.VotingType{
		Name:     "Top Three",
		Category: models.CategoryRanked,
		Places: []models.PlaceConfig{
			{Place: 1, Points: 3},
			{Place: 2, Points: 2},
			{Place: 3, Points: 1},
		},
	})
	if err != nil {
		t.Fatalf("create voting type: %v", err)
	}

	if _, err := repo.CreateEventVotingConfig(ctx, models.EventVotingConfig{
		EventID:      int(eventID),
		VotingTypeID: int(vtID),
	}); err != nil {
		t.Fatalf("create voting config: %v", err)
	}

	divID, err := repo.CreateDivision(ctx, int(eventID), "Open", "open")
	if err != nil {
		t.Fatalf("create division: %v", err)
	}

	f := Fixture{
		EventID:      int(eventID),
		VotingTypeID: int(vtID),
		DivisionID:   int(divID),
	}

	for i := 0; i < entries; i++ {
		div := int(divID)
		entryID, err := repo.CreateEntry(ctx, models.Entry{
			EventID:     int(eventID),
			EntryNumber: i + 1,
			Title:       "Entry",
			DivisionID:  &div,
		})
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
		f.EntryIDs = append(f.EntryIDs, int(entryID))
	}

	return f
}
