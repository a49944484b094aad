package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gleydsonsoares/openbsd-ldapd/internal/backend"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/logging"
)

// ServerConfig holds the write API server configuration.
type ServerConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns default configuration.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:      ":8080",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// Server is the write API server.
type Server struct {
	config   *ServerConfig
	logger   logging.Logger
	handlers *Handlers
	server   *http.Server
}

// NewServer creates a write API server over the given backend.
func NewServer(cfg *ServerConfig, b *backend.Backend, logger logging.Logger) *Server {
	if cfg == nil {
		cfg = DefaultServerConfig()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	handlers := NewHandlers(b, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/entries", handlers.HandleAdd)
	mux.HandleFunc("DELETE /api/v1/entries/{dn}", handlers.HandleDelete)
	mux.HandleFunc("PATCH /api/v1/entries/{dn}", handlers.HandleModify)

	return &Server{
		config:   cfg,
		logger:   logger,
		handlers: handlers,
		server: &http.Server{
			Addr:         cfg.Address,
			Handler:      mux,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Handler exposes the routed handler, for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// ListenAndServe runs the server until Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("write api listening", "address", s.config.Address)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
