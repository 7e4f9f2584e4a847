package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/teipress/teipress/internal/config"
	"github.com/teipress/teipress/internal/isomorph"
	"github.com/teipress/teipress/internal/tei"
)

// Server is the HTTP API surface over the parser, serializer and validator.
type Server struct {
	router     chi.Router
	serializer *tei.Serializer
	checker    *isomorph.Checker
	log        *slog.Logger
	cfg        config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(serializer *tei.Serializer, checker *isomorph.Checker, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		serializer: serializer,
		checker:    checker,
		log:        log,
		cfg:        cfg,
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

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/parse", s.handleParse)
		r.Post("/api/serialize", s.handleSerialize)
		r.Post("/api/validate", s.handleValidate)
		r.Post("/api/validate/batch", s.handleValidateBatch)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
