package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dsiemon2/eventvote/internal/auth"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logged := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.LogHTTP {
			logged.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(auth.Middleware)

	r.Get("/healthz", h.handleHealthz)

	r.Route("/events/{event}", func(r chi.Router) {
		// Ballots
		r.Post("/votes", h.handleSubmitVote)
		r.Post("/votes/validate", h.handleValidateVote)
		r.Get("/votes/mine", auth.RequireUser(h.handleMyBallot))
		r.Get("/votes/has-voted", h.handleHasVoted)
		r.Delete("/votes/{ballot}", auth.RequireUser(h.handleRemoveBallot))

		// Results
		r.Get("/results", h.handleGetResults)
		r.Get("/results/division/{division}", h.handleGetDivisionResults)
		r.Get("/results/division-type/{type}", h.handleGetDivisionTypeResults)
		r.Get("/results/leaderboard", h.handleGetLeaderboard)
		r.Get("/results/summary", h.handleGetResultsSummary)
		r.Get("/results/poll", h.handlePollResults)
		r.Post("/results/rebuild", auth.RequireUser(h.handleRebuildResults))

		// Organizer handout
		r.Get("/qr", h.handleEventQR)
	})

	return r
}
