package repository

import (
	"context"

	"github.com/dsiemon2/eventvote/internal/models"
)

// EventRepository defines event, division, entry, and participant lookups.
// The surrounding CRUD app owns these records; the voting core reads them and
// only the fixture-style create methods mutate them.
type EventRepository interface {
	GetEvent(ctx context.Context, id int) (*models.Event, error)
	CreateEvent(ctx context.Context, name string, active, allowVoteChanges bool) (int64, error)
	SetEventActive(ctx context.Context, id int, active bool) error
	DeleteEvent(ctx context.Context, id int) error
	CreateDivision(ctx context.Context, eventID int, name, divisionType string) (int64, error)
	GetDivision(ctx context.Context, id int) (*models.Division, error)
	ListDivisions(ctx context.Context, eventID int) ([]models.Division, error)
	CreateCategory(ctx context.Context, eventID int, name string) (int64, error)
	ListCategories(ctx context.Context, eventID int) ([]models.Category, error)
	CreateParticipant(ctx context.Context, eventID int, name string, userID *int) (int64, error)
	CreateEntry(ctx context.Context, e models.Entry) (int64, error)
	GetEntry(ctx context.Context, id int) (*models.Entry, error)
	ListEntries(ctx context.Context, eventID int) ([]models.Entry, error)
	UserEntryIDs(ctx context.Context, eventID, userID int) (map[int]bool, error)
	GetEventStats(ctx context.Context, eventID int) (map[string]interface{}, error)
}

// ConfigRepository defines voting type and configuration lookups
type ConfigRepository interface {
	CreateVotingType(ctx context.Context, vt models.VotingType) (int64, error)
	GetVotingType(ctx context.Context, id int) (*models.VotingType, error)
	CreateEventVotingConfig(ctx context.Context, cfg models.EventVotingConfig) (int64, error)
	GetActiveVotingConfig(ctx context.Context, eventID int) (*models.EventVotingConfig, error)
	CreateWeightClass(ctx context.Context, wc models.WeightClass) (int64, error)
	ListWeightClasses(ctx context.Context, votingTypeID int) ([]models.WeightClass, error)
	AssignUserWeightClass(ctx context.Context, eventID, userID, weightClassID int, approved bool) error
	GetUserWeightMultiplier(ctx context.Context, eventID, userID int) (float64, error)
}

// VoteRepository defines ballot persistence operations
type VoteRepository interface {
	SaveBallot(ctx context.Context, eventID int, userID *int, supersede bool, votes []models.Vote) ([]models.SummaryKey, error)
	HasLiveBallot(ctx context.Context, eventID, userID int) (bool, error)
	ListLiveVotes(ctx context.Context, eventID, userID int) ([]models.Vote, error)
	RemoveBallot(ctx context.Context, eventID int, ballotID, actor, reason string) ([]models.SummaryKey, error)
	CountLiveVotes(ctx context.Context, eventID int) (int, error)
}

// SummaryRepository defines the aggregate store. RecomputeSummary and
// UpdateSummaryRanking are reserved for the summary aggregator; no other
// component writes vote_summaries.
type SummaryRepository interface {
	RecomputeSummary(ctx context.Context, key models.SummaryKey) error
	ListSummaryKeys(ctx context.Context, eventID int) ([]models.SummaryKey, error)
	GetSummary(ctx context.Context, key models.SummaryKey) (*models.VoteSummary, error)
	ListEventSummaries(ctx context.Context, eventID int) ([]ResultRow, error)
	UpdateSummaryRanking(ctx context.Context, summaryID, rank int) error
}

// FullRepository combines all repository interfaces.
// Use this when a service needs access to multiple domains.
type FullRepository interface {
	EventRepository
	ConfigRepository
	VoteRepository
	SummaryRepository
	Ping(ctx context.Context) error
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
