package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lazypower/keepsharp/internal/engine"
	"github.com/lazypower/keepsharp/internal/logger"
)

// maxImportBytes caps the size of an uploaded backup.
const maxImportBytes = 32 << 20

// Server is the keepsharp HTTP API server.
type Server struct {
	engine  *engine.Engine
	log     *logger.Logger
	router  chi.Router
	version string
	started time.Time

	// importLimit caps the import request body in bytes.
	importLimit int64
}

// New creates a new Server over the given engine and version string.
func New(e *engine.Engine, log *logger.Logger, version string) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		engine:      e,
		log:         log.With("component", "http"),
		version:     version,
		started:     time.Now(),
		importLimit: maxImportBytes,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/skills", s.handleListSkills)
		r.Post("/skills", s.handleCreateSkill)
		r.Get("/skills/{skillID}", s.handleGetSkill)
		r.Patch("/skills/{skillID}", s.handleUpdateSkill)
		r.Delete("/skills/{skillID}", s.handleDeleteSkill)
		r.Post("/skills/{skillID}/logs", s.handleLogPractice)

		r.Get("/logs", s.handleListLogs)
		r.Delete("/logs/{logID}", s.handleDeleteLog)

		r.Get("/dashboard", s.handleDashboard)
		r.Get("/alerts", s.handleAlerts)
		r.Get("/history", s.handleHistory)
		r.Get("/categories", s.handleCategories)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleUpdateSettings)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.engine.Check(r.Context()); err != nil {
		s.log.Warn("storage check failed", "error", err)
		dbOK = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
	})
}
