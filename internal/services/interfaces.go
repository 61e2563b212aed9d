package services

import (
	"context"

	"github.com/dsiemon2/eventvote/internal/models"
)

// ConfigResolver resolves an event's effective voting rules
type ConfigResolver interface {
	Resolve(ctx context.Context, eventID int) (*models.ResolvedConfig, error)
}

// SummaryRefresher triggers recomputation of denormalized vote summaries
type SummaryRefresher interface {
	RefreshKeys(ctx context.Context, keys []models.SummaryKey)
	RebuildEvent(ctx context.Context, eventID int) error
}

// VotingServicer defines the interface for ballot operations
type VotingServicer interface {
	Validate(ctx context.Context, eventID int, voter Voter, ballot models.Ballot) ([]models.Selection, *models.ResolvedConfig, error)
	Submit(ctx context.Context, eventID int, voter Voter, ballot models.Ballot) (*SubmitResult, error)
	MyBallot(ctx context.Context, eventID, userID int) ([]models.Vote, error)
	HasVoted(ctx context.Context, eventID, userID int) (bool, error)
	RemoveBallot(ctx context.Context, eventID int, ballotID, actor, reason string) error
}

// ResultsServicer defines the interface for results operations
type ResultsServicer interface {
	GetResults(ctx context.Context, eventID int) (*EventResults, error)
	GetDivisionResults(ctx context.Context, eventID, divisionID int) (*EventResults, error)
	GetDivisionTypeResults(ctx context.Context, eventID int, divisionType string) (*EventResults, error)
	GetLeaderboard(ctx context.Context, eventID, limit int, divisionID *int) (*EventResults, error)
	GetSummary(ctx context.Context, eventID int) (map[string]interface{}, error)
	Poll(ctx context.Context, eventID int) (*PollResults, error)
}

// Ensure concrete types implement interfaces
var (
	_ ConfigResolver   = (*ConfigService)(nil)
	_ SummaryRefresher = (*SummaryService)(nil)
	_ VotingServicer   = (*VotingService)(nil)
	_ ResultsServicer  = (*ResultsService)(nil)
)
