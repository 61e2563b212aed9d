package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dsiemon2/eventvote/internal/errors"
	"github.com/dsiemon2/eventvote/internal/logger"
	"github.com/dsiemon2/eventvote/internal/models"
	"github.com/dsiemon2/eventvote/internal/repository"
)

// VotingServiceRepository defines the repository methods needed by VotingService
type VotingServiceRepository interface {
	repository.VoteRepository
	ListEntries(ctx context.Context, eventID int) ([]models.Entry, error)
	UserEntryIDs(ctx context.Context, eventID, userID int) (map[int]bool, error)
	GetUserWeightMultiplier(ctx context.Context, eventID, userID int) (float64, error)
}

// Voter identifies the caster of a ballot. UserID is nil for anonymous
// voters, whose rows carry the IP and fingerprint instead.
type Voter struct {
	UserID      *int
	IP          string
	Fingerprint string
}

// SubmitResult contains the result of a ballot submission
type SubmitResult struct {
	BallotID  string  `json:"ballot_id"`
	VoteCount int     `json:"vote_count"`
	Points    float64 `json:"points"`
}

// VotingService handles ballot validation, scoring, and the atomic write
type VotingService struct {
	log     logger.Logger
	repo    VotingServiceRepository
	config  ConfigResolver
	summary SummaryRefresher

	now func() time.Time
}

// NewVotingService creates a new VotingService
func NewVotingService(log logger.Logger, repo VotingServiceRepository, config ConfigResolver, summary SummaryRefresher) *VotingService {
	return &VotingService{
		log:     log,
		repo:    repo,
		config:  config,
		summary: summary,
		now:     time.Now,
	}
}

// Validate dry-runs a ballot through the full rule set without persisting
// anything. Returns the normalized selections on success.
func (s *VotingService) Validate(ctx context.Context, eventID int, voter Voter, ballot models.Ballot) ([]models.Selection, *models.ResolvedConfig, error) {
	cfg, err := s.config.Resolve(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}

	if !cfg.VotingOpen(s.now()) {
		return nil, nil, ErrVotingClosed
	}

	entryList, err := s.repo.ListEntries(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	entries := make(map[int]models.Entry, len(entryList))
	for _, e := range entryList {
		entries[e.ID] = e
	}

	owned := map[int]bool{}
	if voter.UserID != nil && !cfg.AllowSelfVoting {
		owned, err = s.repo.UserEntryIDs(ctx, eventID, *voter.UserID)
		if err != nil {
			return nil, nil, err
		}
	}

	if voter.UserID != nil && !cfg.AllowVoteChanges {
		voted, err := s.repo.HasLiveBallot(ctx, eventID, *voter.UserID)
		if err != nil {
			return nil, nil, err
		}
		if voted {
			return nil, nil, ErrAlreadyVoted
		}
	}

	sels, verr := validateBallot(cfg, entries, owned, ballot)
	if verr != nil {
		return nil, nil, verr
	}
	return sels, cfg, nil
}

// Submit validates, scores, and atomically persists a ballot, then triggers
// summary recomputation for every key the write touched. A write-time race on
// the one-live-ballot invariant surfaces as ErrAlreadyVoted, the same error a
// pre-validated duplicate gets — it is the same condition observed late.
func (s *VotingService) Submit(ctx context.Context, eventID int, voter Voter, ballot models.Ballot) (*SubmitResult, error) {
	sels, cfg, err := s.Validate(ctx, eventID, voter, ballot)
	if err != nil {
		return nil, err
	}

	multiplier := 1.0
	if voter.UserID != nil {
		multiplier, err = s.repo.GetUserWeightMultiplier(ctx, eventID, *voter.UserID)
		if err != nil {
			return nil, err
		}
	}

	ballotID := uuid.NewString()
	votes := scoreBallot(cfg, sels, multiplier, ballotID)
	for i := range votes {
		votes[i].VoterIP = voter.IP
		votes[i].VoterFingerprint = voter.Fingerprint
	}

	touched, err := s.repo.SaveBallot(ctx, eventID, voter.UserID, cfg.AllowVoteChanges, votes)
	if err == repository.ErrLiveBallotExists {
		return nil, ErrAlreadyVoted
	}
	if err != nil {
		return nil, err
	}

	var total float64
	for _, v := range votes {
		total += v.FinalPoints
	}
	s.log.Info("ballot recorded", "event_id", eventID, "ballot_id", ballotID,
		"votes", len(votes), "points", total, "multiplier", multiplier)

	// The committed votes are the source of truth; the summary is disposable
	// and rebuildable, so a refresh failure never fails the submission.
	s.summary.RefreshKeys(ctx, touched)

	return &SubmitResult{BallotID: ballotID, VoteCount: len(votes), Points: total}, nil
}

// MyBallot returns the caller's live ballot rows for an event (empty if none)
func (s *VotingService) MyBallot(ctx context.Context, eventID, userID int) ([]models.Vote, error) {
	return s.repo.ListLiveVotes(ctx, eventID, userID)
}

// HasVoted reports whether the user has a live ballot for the event
func (s *VotingService) HasVoted(ctx context.Context, eventID, userID int) (bool, error) {
	return s.repo.HasLiveBallot(ctx, eventID, userID)
}

// RemoveBallot soft-removes a ballot with an audit reason and refreshes the
// vacated summary keys.
func (s *VotingService) RemoveBallot(ctx context.Context, eventID int, ballotID, actor, reason string) error {
	keys, err := s.repo.RemoveBallot(ctx, eventID, ballotID, actor, reason)
	if err == repository.ErrNotFound {
		return errors.NotFoundf("ballot %s not found", ballotID)
	}
	if err != nil {
		return err
	}
	s.log.Info("ballot removed", "event_id", eventID, "ballot_id", ballotID, "actor", actor, "reason", reason)
	s.summary.RefreshKeys(ctx, keys)
	return nil
}
