// Package server exposes the HTTP API.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/money-gurus/guru-server/internal/advisor"
	"github.com/money-gurus/guru-server/internal/store"
)

// Server wires the advisor and store into HTTP handlers.
type Server struct {
	store          store.Store
	advisor        *advisor.Advisor
	aiConfigured   bool
	requestTimeout time.Duration
	allowedOrigins []string
}

// Option configures the Server.
type Option func(*Server)

// WithRequestTimeout bounds each AI request end to end, covering the
// whole fallback chain.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.requestTimeout = d
	}
}

// WithAllowedOrigins sets the CORS allow list.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// WithAIConfigured marks whether an API credential is present. When
// false, AI endpoints fail fast with a configuration error instead of
// attempting any model.
func WithAIConfigured(ok bool) Option {
	return func(s *Server) {
		s.aiConfigured = ok
	}
}

// New creates a Server.
func New(st store.Store, adv *advisor.Advisor, opts ...Option) *Server {
	s := &Server{
		store:          st,
		advisor:        adv,
		aiConfigured:   true,
		requestTimeout: 2 * time.Minute,
		allowedOrigins: []string{"*"},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Router builds the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/score", s.handleScore)
		r.Post("/chat", s.handleChat)
		r.Post("/goal-plan", s.handleGoalPlan)

		r.Post("/new-month", s.handleNewMonth)
		r.Post("/history", s.handleHistory)
		r.Post("/delete-month", s.handleDeleteMonth)
		r.Post("/portfolio", s.handlePortfolio)
		r.Post("/budgets", s.handleBudgets)
		r.Post("/settings", s.handleSettings)

		r.Route("/leaderboard", func(r chi.Router) {
			r.Post("/join", s.handleLeaderboardJoin)
			r.Post("/scores", s.handleLeaderboardScores)
		})

		r.Get("/export", s.handleExport)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
