package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/cyclelift/internal/metrics"
	"github.com/claude/cyclelift/internal/tracker"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	tracker *tracker.Tracker
	metrics *metrics.Manager
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(t *tracker.Tracker, m *metrics.Manager, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		tracker: t,
		metrics: m,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(RequestMetrics(s.metrics))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Reads (no auth; tsnet handles access)
		r.Get("/plans", s.handleListPlans)
		r.Get("/plans/{id}", s.handleGetPlan)
		r.Get("/plans/{id}/days/{day}", s.handleDay)
		r.Get("/plans/{id}/days/{day}/exercises/{exerciseID}", s.handleEffectiveSets)

		r.Get("/routines", s.handleListRoutines)
		r.Get("/routines/{id}", s.handleGetRoutine)

		r.Get("/exercises", s.handleListExercises)
		r.Get("/exercises/{id}", s.handleGetExercise)
		r.Get("/exercises/{id}/history", s.handleHistory)
		r.Get("/exercises/{id}/weekly-sets", s.handleWeeklySets)
		r.Get("/exercises/{id}/goal-trend", s.handleGoalTrend)
		r.Get("/exercises/{id}/goals", s.handleGoalReport)

		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/{date}", s.handleGetSession)
		r.Get("/sessions/{date}/medals", s.handleSessionMedals)

		// Writes (API key required)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))

			r.Post("/plans", s.handleCreatePlan)
			r.Put("/plans/{id}", s.handlePutPlan)
			r.Delete("/plans/{id}", s.handleDeletePlan)
			r.Post("/plans/migrate", s.handleMigratePlans)
			r.Put("/plans/{id}/mesocycle", s.handleMesocycle)
			r.Post("/plans/{id}/copy-day", s.handleCopyDay)
			r.Route("/plans/{id}/cycles/{cycle}/days/{day}", func(r chi.Router) {
				r.Post("/modifiers", s.handleAddModifier)
				r.Delete("/modifiers/{metric}", s.handleRemoveModifier)
				r.Put("/overrides/{exerciseID}", s.handleSetOverride)
				r.Delete("/overrides/{exerciseID}", s.handleClearOverride)
			})

			r.Post("/routines", s.handleCreateRoutine)
			r.Put("/routines/{id}", s.handlePutRoutine)
			r.Delete("/routines/{id}", s.handleDeleteRoutine)

			r.Post("/exercises", s.handleCreateExercise)
			r.Put("/exercises/{id}", s.handlePutExercise)
			r.Delete("/exercises/{id}", s.handleDeleteExercise)

			r.Put("/sessions/{date}", s.handlePutSession)
			r.Delete("/sessions/{date}", s.handleDeleteSession)
		})
	})
}

// SetMetricsHandler mounts the Prometheus scrape endpoint.
func (s *Server) SetMetricsHandler(h http.Handler) {
	s.router.Handle("/metrics", h)
}

// SetMCPHandler mounts the MCP streamable HTTP endpoint.
func (s *Server) SetMCPHandler(h http.Handler) {
	s.router.Handle("/mcp", h)
}
