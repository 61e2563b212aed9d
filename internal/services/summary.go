package services

import (
	"context"
	"time"

	"github.com/dsiemon2/eventvote/internal/logger"
	"github.com/dsiemon2/eventvote/internal/models"
	"github.com/dsiemon2/eventvote/internal/repository"
)

// SummaryServiceRepository defines the repository methods needed by SummaryService
type SummaryServiceRepository interface {
	repository.SummaryRepository
}

const (
	refreshAttempts = 3
	refreshBackoff  = 50 * time.Millisecond
)

// SummaryService owns the vote_summaries table. Every value it writes is a
// full replacement derived from live vote rows, so recomputation is
// idempotent: running it twice yields identical rows, and it is safe to
// re-run after a crash or for different keys concurrently.
type SummaryService struct {
	log  logger.Logger
	repo SummaryServiceRepository
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(log logger.Logger, repo SummaryServiceRepository) *SummaryService {
	return &SummaryService{log: log, repo: repo}
}

// RefreshKeys recomputes the summaries for the given keys and refreshes the
// cached rankings of the affected events. Transient failures are retried with
// backoff; a key that still fails is logged and skipped — the vote write that
// triggered the refresh has already committed and the summary can always be
// rebuilt later.
func (s *SummaryService) RefreshKeys(ctx context.Context, keys []models.SummaryKey) {
	events := make(map[int]bool)
	for _, key := range keys {
		if err := s.recomputeWithRetry(ctx, key); err != nil {
			s.log.Error("summary recompute failed", "event_id", key.EventID, "entry_id", key.EntryID, "error", err)
			continue
		}
		events[key.EventID] = true
	}
	for eventID := range events {
		if err := s.refreshRankings(ctx, eventID); err != nil {
			s.log.Error("ranking refresh failed", "event_id", eventID, "error", err)
		}
	}
}

// RebuildEvent recomputes every summary row of an event from scratch,
// including keys vacated by superseded or removed ballots, which refresh to
// zero. The result is identical to what incremental refreshes produce.
func (s *SummaryService) RebuildEvent(ctx context.Context, eventID int) error {
	keys, err := s.repo.ListSummaryKeys(ctx, eventID)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.repo.RecomputeSummary(ctx, key); err != nil {
			return err
		}
	}
	if err := s.refreshRankings(ctx, eventID); err != nil {
		return err
	}
	s.log.Info("event summaries rebuilt", "event_id", eventID, "keys", len(keys))
	return nil
}

func (s *SummaryService) recomputeWithRetry(ctx context.Context, key models.SummaryKey) error {
	var err error
	for attempt := 0; attempt < refreshAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(refreshBackoff << attempt):
			}
		}
		if err = s.repo.RecomputeSummary(ctx, key); err == nil {
			return nil
		}
	}
	return err
}

// refreshRankings recomputes the cached rank of every summary row of an
// event in a single pass, using the same total order the results query serves.
func (s *SummaryService) refreshRankings(ctx context.Context, eventID int) error {
	rows, err := s.repo.ListEventSummaries(ctx, eventID)
	if err != nil {
		return err
	}
	rankRows(rows)
	for _, row := range rows {
		if err := s.repo.UpdateSummaryRanking(ctx, row.SummaryID, row.Rank); err != nil {
			return err
		}
	}
	return nil
}
