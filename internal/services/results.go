package services

import (
	"context"
	"sort"

	"github.com/dsiemon2/eventvote/internal/errors"
	"github.com/dsiemon2/eventvote/internal/logger"
	"github.com/dsiemon2/eventvote/internal/models"
	"github.com/dsiemon2/eventvote/internal/repository"
)

// ResultsServiceRepository defines the repository methods needed by ResultsService
type ResultsServiceRepository interface {
	repository.SummaryRepository
	GetEvent(ctx context.Context, id int) (*models.Event, error)
	GetDivision(ctx context.Context, id int) (*models.Division, error)
	GetEventStats(ctx context.Context, eventID int) (map[string]interface{}, error)
	CountLiveVotes(ctx context.Context, eventID int) (int, error)
}

// ResultsService serves ranked, tie-broken views over the aggregated summaries
type ResultsService struct {
	log  logger.Logger
	repo ResultsServiceRepository
}

// NewResultsService creates a new ResultsService
func NewResultsService(log logger.Logger, repo ResultsServiceRepository) *ResultsService {
	return &ResultsService{log: log, repo: repo}
}

// EventResults is the full ranked result list for an event
type EventResults struct {
	EventID int                    `json:"event_id"`
	Results []repository.ResultRow `json:"results"`
}

// PollResults pairs the ranked list with the event's live vote count so a
// polling client can compare vote_count to its last-seen value and skip
// re-rendering when nothing changed.
type PollResults struct {
	VoteCount int                    `json:"vote_count"`
	Results   []repository.ResultRow `json:"results"`
}

// lessRow is the tie-break comparator: descending total points, then more
// first places, then more votes, then lower entry ID. The last clause makes
// the order total, so equal inputs always rank identically.
func lessRow(a, b repository.ResultRow) bool {
	if a.TotalPoints != b.TotalPoints {
		return a.TotalPoints > b.TotalPoints
	}
	if a.FirstPlaceCount != b.FirstPlaceCount {
		return a.FirstPlaceCount > b.FirstPlaceCount
	}
	if a.VoteCount != b.VoteCount {
		return a.VoteCount > b.VoteCount
	}
	return a.EntryID < b.EntryID
}

// rankRows sorts rows into the served order and assigns 1-based ranks
func rankRows(rows []repository.ResultRow) {
	sort.Slice(rows, func(i, j int) bool { return lessRow(rows[i], rows[j]) })
	for i := range rows {
		rows[i].Rank = i + 1
	}
}

// ranked loads an event's summary rows and ranks them fresh; the cached
// ranking column is a display hint and is never trusted for serving.
func (s *ResultsService) ranked(ctx context.Context, eventID int) ([]repository.ResultRow, error) {
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListEventSummaries(ctx, eventID)
	if err != nil {
		return nil, err
	}
	rankRows(rows)
	return rows, nil
}

// GetResults retrieves the full ranked results for an event
func (s *ResultsService) GetResults(ctx context.Context, eventID int) (*EventResults, error) {
	rows, err := s.ranked(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &EventResults{EventID: eventID, Results: rows}, nil
}

// GetDivisionResults retrieves results scoped to one division, re-ranked
// within the division.
func (s *ResultsService) GetDivisionResults(ctx context.Context, eventID, divisionID int) (*EventResults, error) {
	div, err := s.repo.GetDivision(ctx, divisionID)
	if err != nil {
		return nil, err
	}
	if div.EventID != eventID {
		return nil, errors.NotFoundf("division %d not found in event %d", divisionID, eventID)
	}

	rows, err := s.ranked(ctx, eventID)
	if err != nil {
		return nil, err
	}
	scoped := filterRows(rows, func(r repository.ResultRow) bool {
		return r.DivisionID != nil && *r.DivisionID == divisionID
	})
	rankRows(scoped)
	return &EventResults{EventID: eventID, Results: scoped}, nil
}

// GetDivisionTypeResults retrieves results for every division sharing a type
// label (e.g. all "Professional" divisions), re-ranked within the cohort.
func (s *ResultsService) GetDivisionTypeResults(ctx context.Context, eventID int, divisionType string) (*EventResults, error) {
	rows, err := s.ranked(ctx, eventID)
	if err != nil {
		return nil, err
	}
	scoped := filterRows(rows, func(r repository.ResultRow) bool {
		return r.DivisionType == divisionType
	})
	rankRows(scoped)
	return &EventResults{EventID: eventID, Results: scoped}, nil
}

// GetLeaderboard retrieves the top-N results, optionally scoped to a division
func (s *ResultsService) GetLeaderboard(ctx context.Context, eventID, limit int, divisionID *int) (*EventResults, error) {
	var results *EventResults
	var err error
	if divisionID != nil {
		results, err = s.GetDivisionResults(ctx, eventID, *divisionID)
	} else {
		results, err = s.GetResults(ctx, eventID)
	}
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(results.Results) > limit {
		results.Results = results.Results[:limit]
	}
	return results, nil
}

// GetSummary retrieves aggregate counts for dashboard display
func (s *ResultsService) GetSummary(ctx context.Context, eventID int) (map[string]interface{}, error) {
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.GetEventStats(ctx, eventID)
}

// Poll retrieves the live vote count together with the ranked results.
// Reads are eventually consistent with the newest committed vote; the vote
// count converges within one aggregation cycle and is the cheap change check.
func (s *ResultsService) Poll(ctx context.Context, eventID int) (*PollResults, error) {
	rows, err := s.ranked(ctx, eventID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountLiveVotes(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &PollResults{VoteCount: count, Results: rows}, nil
}

func filterRows(rows []repository.ResultRow, keep func(repository.ResultRow) bool) []repository.ResultRow {
	filtered := make([]repository.ResultRow, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
