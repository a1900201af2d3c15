package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/navigator-ai/navcore/internal/compact"
	"github.com/navigator-ai/navcore/internal/config"
	"github.com/navigator-ai/navcore/internal/llm"
	"github.com/navigator-ai/navcore/internal/snapshot"
	"github.com/navigator-ai/navcore/internal/task"
)

// Server is the HTTP API server for navcore.
type Server struct {
	router chi.Router
	store  *task.Store
	model  llm.Generator
	stats  *llm.Stats
	snaps  *snapshot.Writer
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server. stats and snaps may
// be nil; the matching features degrade gracefully.
func NewServer(store *task.Store, model llm.Generator, stats *llm.Stats, snaps *snapshot.Writer, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store: store,
		model: model,
		stats: stats,
		snaps: snaps,
		log:   log,
		cfg:   cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// API endpoints. Bearer auth only when a key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/dom/parse", s.handleParseDOM)

		r.Post("/tasks/create", s.handleCreateTask)
		r.Post("/tasks/update", s.handleUpdateTask)
		r.Get("/tasks/{taskID}/history", s.handleTaskHistory)

		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) compactConfig() compact.Config {
	c := compact.DefaultConfig()
	c.MaxTextLength = s.cfg.MaxTextLength
	c.MaxElements = s.cfg.MaxElements
	c.MaxDepth = s.cfg.MaxDepth
	c.MinTextLength = s.cfg.MinTextLength
	c.MaxSummaryTokens = s.cfg.MaxSummaryTokens
	return c
}
