package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dsiemon2/eventvote/internal/config"
	"github.com/dsiemon2/eventvote/internal/handlers"
	"github.com/dsiemon2/eventvote/internal/logger"
	"github.com/dsiemon2/eventvote/internal/repository"
	"github.com/dsiemon2/eventvote/internal/services"
)

// App holds all application dependencies
type App struct {
	log      logger.Logger
	cfg      *config.Config
	handlers *handlers.Handlers
	repo     *repository.Repository
}

// New creates and initializes a new application instance
func New(log logger.Logger, cfg *config.Config) (*App, error) {
	repo, err := repository.New(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	configService := services.NewConfigService(log, repo)
	summaryService := services.NewSummaryService(log, repo)
	votingService := services.NewVotingService(log, repo, configService, summaryService)
	resultsService := services.NewResultsService(log, repo)

	h := handlers.New(
		votingService,
		resultsService,
		configService,
		summaryService,
		repo,
		log,
		cfg.Server.BaseURL,
		cfg.Logging.HTTP,
	)

	return &App{
		log:      log,
		cfg:      cfg,
		handlers: h,
		repo:     repo,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close releases app resources
func (a *App) Close() error {
	return a.repo.Close()
}

// Run starts the HTTP server
func (a *App) Run(addr string) error {
	a.log.Info("server starting", "addr", addr, "base_url", a.cfg.Server.BaseURL)
	return http.ListenAndServe(addr, a.Router())
}
