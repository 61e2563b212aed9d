package services

import (
	"context"

	"github.com/dsiemon2/eventvote/internal/errors"
	"github.com/dsiemon2/eventvote/internal/logger"
	"github.com/dsiemon2/eventvote/internal/models"
	"github.com/dsiemon2/eventvote/internal/repository"
)

// ConfigServiceRepository defines the repository methods needed by ConfigService
type ConfigServiceRepository interface {
	GetEvent(ctx context.Context, id int) (*models.Event, error)
	GetActiveVotingConfig(ctx context.Context, eventID int) (*models.EventVotingConfig, error)
	GetVotingType(ctx context.Context, id int) (*models.VotingType, error)
	ListWeightClasses(ctx context.Context, votingTypeID int) ([]models.WeightClass, error)
}

// ConfigService resolves an event's effective voting rules
type ConfigService struct {
	log  logger.Logger
	repo ConfigServiceRepository
}

// NewConfigService creates a new ConfigService
func NewConfigService(log logger.Logger, repo ConfigServiceRepository) *ConfigService {
	return &ConfigService{log: log, repo: repo}
}

// Resolve loads the event's active voting configuration and produces the
// effective rules: category, place points after overrides, vote limits,
// self-voting flag, window, and the voting type's weight classes. This is a
// pure read; it never mutates anything.
func (s *ConfigService) Resolve(ctx context.Context, eventID int) (*models.ResolvedConfig, error) {
	evt, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.repo.GetActiveVotingConfig(ctx, eventID)
	if err == repository.ErrNotFound {
		return nil, errors.Configurationf("event %d has no active voting configuration", eventID)
	}
	if err != nil {
		return nil, err
	}

	vt, err := s.repo.GetVotingType(ctx, cfg.VotingTypeID)
	if err != nil {
		return nil, err
	}
	if !vt.Category.Valid() {
		return nil, errors.Configurationf("voting type %d has unknown category %q", vt.ID, vt.Category)
	}

	places, maxPlace, err := mergePlaces(vt, cfg.PlaceOverrides)
	if err != nil {
		return nil, err
	}
	if vt.Category == models.CategoryRanked && maxPlace == 0 {
		return nil, errors.Configurationf("ranked voting type %d has no place config", vt.ID)
	}

	classes, err := s.repo.ListWeightClasses(ctx, vt.ID)
	if err != nil {
		return nil, err
	}

	return &models.ResolvedConfig{
		Event:            *evt,
		Category:         vt.Category,
		Places:           places,
		MaxPlace:         maxPlace,
		MaxVotesPerUser:  cfg.MaxVotesPerUser,
		MaxVotesPerEntry: cfg.MaxVotesPerEntry,
		AllowSelfVoting:  cfg.AllowSelfVoting,
		AllowVoteChanges: evt.AllowVoteChanges,
		StartsAt:         cfg.StartsAt,
		EndsAt:           cfg.EndsAt,
		Settings:         vt.Settings,
		WeightClasses:    classes,
	}, nil
}

// mergePlaces layers event overrides on top of the base place config.
// Place numbers must be unique and contiguous from 1, and an override may
// only adjust the points of a place the base config defines.
func mergePlaces(vt *models.VotingType, overrides map[int]float64) (map[int]float64, int, error) {
	places := make(map[int]float64, len(vt.Places))
	maxPlace := 0
	for _, pc := range vt.Places {
		if _, dup := places[pc.Place]; dup {
			return nil, 0, errors.Configurationf("voting type %d defines place %d twice", vt.ID, pc.Place)
		}
		places[pc.Place] = pc.Points
		if pc.Place > maxPlace {
			maxPlace = pc.Place
		}
	}
	if len(places) != maxPlace {
		return nil, 0, errors.Configurationf("voting type %d places are not contiguous from 1", vt.ID)
	}

	for place, points := range overrides {
		if _, ok := places[place]; !ok {
			return nil, 0, errors.Configurationf("place override references place %d absent from the base config", place)
		}
		places[place] = points
	}
	return places, maxPlace, nil
}
