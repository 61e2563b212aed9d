package handlers

import (
	"context"

	"github.com/dsiemon2/eventvote/internal/logger"
	"github.com/dsiemon2/eventvote/internal/services"
)

// Pinger reports storage liveness
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Voting  services.VotingServicer
	Results services.ResultsServicer
	Config  services.ConfigResolver
	Summary services.SummaryRefresher
	Store   Pinger
	Log     logger.Logger
	BaseURL string
	LogHTTP bool
}

// New creates a new Handlers instance with all dependencies
func New(
	voting services.VotingServicer,
	results services.ResultsServicer,
	config services.ConfigResolver,
	summary services.SummaryRefresher,
	store Pinger,
	log logger.Logger,
	baseURL string,
	logHTTP bool,
) *Handlers {
	return &Handlers{
		Voting:  voting,
		Results: results,
		Config:  config,
		Summary: summary,
		Store:   store,
		Log:     log,
		BaseURL: baseURL,
		LogHTTP: logHTTP,
	}
}
