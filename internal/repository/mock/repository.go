package mock

import (
	"context"

	"github.com/dsiemon2/eventvote/internal/models"
	"github.com/dsiemon2/eventvote/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database
// manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.SaveBallotError = errors.New("database error")
//	svc := services.NewVotingService(log, mockRepo, cfgSvc, sumSvc)
//	_, err := svc.Submit(ctx, eventID, voter, ballot)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Event Errors =====
	GetEventError      error
	GetDivisionError   error
	ListDivisionsError error
	ListEntriesError   error
	UserEntryIDsError  error
	GetEventStatsError error

	// ===== Config Errors =====
	GetActiveVotingConfigError   error
	GetVotingTypeError           error
	ListWeightClassesError       error
	GetUserWeightMultiplierError error

	// ===== Vote Errors =====
	SaveBallotError     error
	HasLiveBallotError  error
	ListLiveVotesError  error
	RemoveBallotError   error
	CountLiveVotesError error

	// ===== Summary Errors =====
	RecomputeSummaryError     error
	ListSummaryKeysError      error
	GetSummaryError           error
	ListEventSummariesError   error
	UpdateSummaryRankingError error

	// RecomputeSummaryFailures fails the first N recompute calls before
	// delegating, for exercising the retry path.
	RecomputeSummaryFailures int
	recomputeCalls           int
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Event Methods =====

func (m *Repository) GetEvent(ctx context.Context, id int) (*models.Event, error) {
	if m.GetEventError != nil {
		return nil, m.GetEventError
	}
	return m.FullRepository.GetEvent(ctx, id)
}

func (m *Repository) GetDivision(ctx context.Context, id int) (*models.Division, error) {
	if m.GetDivisionError != nil {
		return nil, m.GetDivisionError
	}
	return m.FullRepository.GetDivision(ctx, id)
}

func (m *Repository) ListDivisions(ctx context.Context, eventID int) ([]models.Division, error) {
	if m.ListDivisionsError != nil {
		return nil, m.ListDivisionsError
	}
	return m.FullRepository.ListDivisions(ctx, eventID)
}

func (m *Repository) ListEntries(ctx context.Context, eventID int) ([]models.Entry, error) {
	if m.ListEntriesError != nil {
		return nil, m.ListEntriesError
	}
	return m.FullRepository.ListEntries(ctx, eventID)
}

func (m *Repository) UserEntryIDs(ctx context.Context, eventID, userID int) (map[int]bool, error) {
	if m.UserEntryIDsError != nil {
		return nil, m.UserEntryIDsError
	}
	return m.FullRepository.UserEntryIDs(ctx, eventID, userID)
}

func (m *Repository) GetEventStats(ctx context.Context, eventID int) (map[string]interface{}, error) {
	if m.GetEventStatsError != nil {
		return nil, m.GetEventStatsError
	}
	return m.FullRepository.GetEventStats(ctx, eventID)
}

// ===== Config Methods =====

func (m *Repository) GetActiveVotingConfig(ctx context.Context, eventID int) (*models.EventVotingConfig, error) {
	if m.GetActiveVotingConfigError != nil {
		return nil, m.GetActiveVotingConfigError
	}
	return m.FullRepository.GetActiveVotingConfig(ctx, eventID)
}

func (m *Repository) GetVotingType(ctx context.Context, id int) (*models.VotingType, error) {
	if m.GetVotingTypeError != nil {
		return nil, m.GetVotingTypeError
	}
	return m.FullRepository.GetVotingType(ctx, id)
}

func (m *Repository) ListWeightClasses(ctx context.Context, votingTypeID int) ([]models.WeightClass, error) {
	if m.ListWeightClassesError != nil {
		return nil, m.ListWeightClassesError
	}
	return m.FullRepository.ListWeightClasses(ctx, votingTypeID)
}

func (m *Repository) GetUserWeightMultiplier(ctx context.Context, eventID, userID int) (float64, error) {
	if m.GetUserWeightMultiplierError != nil {
		return 0, m.GetUserWeightMultiplierError
	}
	return m.FullRepository.GetUserWeightMultiplier(ctx, eventID, userID)
}

// ===== Vote Methods =====

func (m *Repository) SaveBallot(ctx context.Context, eventID int, userID *int, supersede bool, votes []models.Vote) ([]models.SummaryKey, error) {
	if m.SaveBallotError != nil {
		return nil, m.SaveBallotError
	}
	return m.FullRepository.SaveBallot(ctx, eventID, userID, supersede, votes)
}

func (m *Repository) HasLiveBallot(ctx context.Context, eventID, userID int) (bool, error) {
	if m.HasLiveBallotError != nil {
		return false, m.HasLiveBallotError
	}
	return m.FullRepository.HasLiveBallot(ctx, eventID, userID)
}

func (m *Repository) ListLiveVotes(ctx context.Context, eventID, userID int) ([]models.Vote, error) {
	if m.ListLiveVotesError != nil {
		return nil, m.ListLiveVotesError
	}
	return m.FullRepository.ListLiveVotes(ctx, eventID, userID)
}

func (m *Repository) RemoveBallot(ctx context.Context, eventID int, ballotID, actor, reason string) ([]models.SummaryKey, error) {
	if m.RemoveBallotError != nil {
		return nil, m.RemoveBallotError
	}
	return m.FullRepository.RemoveBallot(ctx, eventID, ballotID, actor, reason)
}

func (m *Repository) CountLiveVotes(ctx context.Context, eventID int) (int, error) {
	if m.CountLiveVotesError != nil {
		return 0, m.CountLiveVotesError
	}
	return m.FullRepository.CountLiveVotes(ctx, eventID)
}

// ===== Summary Methods =====

func (m *Repository) RecomputeSummary(ctx context.Context, key models.SummaryKey) error {
	if m.RecomputeSummaryError != nil {
		return m.RecomputeSummaryError
	}
	if m.recomputeCalls < m.RecomputeSummaryFailures {
		m.recomputeCalls++
		return context.DeadlineExceeded
	}
	return m.FullRepository.RecomputeSummary(ctx, key)
}

func (m *Repository) ListSummaryKeys(ctx context.Context, eventID int) ([]models.SummaryKey, error) {
	if m.ListSummaryKeysError != nil {
		return nil, m.ListSummaryKeysError
	}
	return m.FullRepository.ListSummaryKeys(ctx, eventID)
}

func (m *Repository) GetSummary(ctx context.Context, key models.SummaryKey) (*models.VoteSummary, error) {
	if m.GetSummaryError != nil {
		return nil, m.GetSummaryError
	}
	return m.FullRepository.GetSummary(ctx, key)
}

func (m *Repository) ListEventSummaries(ctx context.Context, eventID int) ([]repository.ResultRow, error) {
	if m.ListEventSummariesError != nil {
		return nil, m.ListEventSummariesError
	}
	return m.FullRepository.ListEventSummaries(ctx, eventID)
}

func (m *Repository) UpdateSummaryRanking(ctx context.Context, summaryID, rank int) error {
	if m.UpdateSummaryRankingError != nil {
		return m.UpdateSummaryRankingError
	}
	return m.FullRepository.UpdateSummaryRanking(ctx, summaryID, rank)
}
