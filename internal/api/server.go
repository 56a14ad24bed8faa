// Package api implements the HTTP layer for the smart city readiness
// assessment. Handlers are methods on *Server. Each handler file is
// responsible for one resource group and only imports the dependencies it
// actually uses.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/nyashahama/smartcity-readiness-backend/internal/catalog"
	"github.com/nyashahama/smartcity-readiness-backend/internal/scoring"
	"github.com/nyashahama/smartcity-readiness-backend/internal/store"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// BaseURL is used to build the result link returned on submit.
	// e.g. "https://readiness.example.org"
	BaseURL string

	// Env is "production", "staging", or "development".
	Env string

	// AllowedOrigins feeds the CORS middleware. When empty, development
	// allows any origin and other environments allow none.
	AllowedOrigins []string

	// RequestTimeout bounds every request. Zero means 30 seconds.
	RequestTimeout time.Duration
}

// Store is the persistence surface the handlers need. *store.Store satisfies
// it; tests substitute an in-memory stub.
type Store interface {
	Ping(ctx context.Context) error
	CreateSession(ctx context.Context, anonToken string, seed []store.Answer) (store.Session, error)
	GetSessionByAnonToken(ctx context.Context, token string) (store.Session, error)
	UpsertAnswers(ctx context.Context, sessionID uuid.UUID, answers []store.Answer) (int, error)
	GetAnswers(ctx context.Context, sessionID uuid.UUID) (scoring.AnswerSet, error)
	SaveResult(ctx context.Context, p store.SaveResultParams) (store.StoredResult, error)
	GetResultByAccessToken(ctx context.Context, token string) (store.StoredResult, error)
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	store Store

	// catalog is read-only after startup and shared by every request.
	catalog *catalog.Catalog

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to an http.Server.
func NewServer(st Store, cat *catalog.Catalog, cfg Config, logger *slog.Logger) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	s := &Server{
		store:   st,
		catalog: cat,
		cfg:     cfg,
		logger:  logger,
	}
	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(s.corsOptions()))
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/healthz", s.handleHealthz)

	// ── API ───────────────────────────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {

		// Stateless: catalog listing and one-shot scoring.
		r.Get("/catalog", s.handleGetCatalog)
		r.Post("/score", s.handleScore)

		// Sessions: no auth required (anonymous creation).
		r.Post("/session", s.handleCreateSession)

		// Session-scoped routes require a valid X-Anon-Token header.
		r.Route("/session/{sessionID}", func(r chi.Router) {
			r.Use(s.requireAnonToken)
			r.Put("/answers", s.handleUpsertAnswers)
			r.Get("/progress", s.handleGetProgress)
			r.Post("/submit", s.handleSubmit)
		})

		// Result access: no auth (opaque access token in URL).
		r.Get("/result/{accessToken}", s.handleGetResult)
	})

	return r
}

func (s *Server) corsOptions() cors.Options {
	opts := cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Anon-Token", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         86400,
	}
	// An empty list means "any origin" to the cors package. Only development
	// gets that; elsewhere cross-origin requests need an explicit allow list.
	if len(opts.AllowedOrigins) == 0 && s.cfg.Env != "development" {
		opts.AllowOriginFunc = func(*http.Request, string) bool { return false }
	}
	return opts
}

// handleHealthz reports 200 when the database answers a ping and 503
// otherwise.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("healthz: database unreachable", "error", err, logField(r))
		respondErr(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	w.WriteHeader(http.StatusOK)
}
