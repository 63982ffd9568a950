// Package server exposes stylesheet flattening over HTTP.
package server

import (
	"net/http"

	"github.com/dhamidi/flatcss/parser"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("flatcss.server")

// Server is the HTTP API for flatcss.
type Server struct {
	router chi.Router
	cfg    Config
}

// NewServer creates and configures the HTTP server.
func NewServer(cfg Config) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	s := &Server{cfg: cfg}
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
	r.Use(RequestLogger(log))

	r.Get("/health", s.handleHealth)
	r.Post("/flatten", s.handleFlatten)
	r.Post("/parse", s.handleParse)

	s.router = r
}

func (s *Server) parserOptions() []parser.Option {
	if s.cfg.StrictAtRules {
		return []parser.Option{parser.WithStrictAtRules()}
	}
	return nil
}
