// Package http serves the dispatch API.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"urbanflux/config"
)

// Server wraps the HTTP listener and its middleware stack.
type Server struct {
	server *http.Server
	config ServerConfig
	logger *zap.Logger
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	MaxBodyBytes    int64
}

// ServerConfigFrom maps the http section of the service config.
func ServerConfigFrom(cfg *config.Config) ServerConfig {
	return ServerConfig{
		Port:            cfg.Http.Port,
		ReadTimeout:     cfg.Http.ReadTimeout,
		WriteTimeout:    cfg.Http.WriteTimeout,
		ShutdownTimeout: cfg.Http.ShutdownTimeout,
		AllowedOrigins:  cfg.Http.AllowedOrigins,
		MaxBodyBytes:    cfg.Http.MaxBodyBytes,
	}
}

func NewServer(cfg ServerConfig, api *API, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	api.RegisterHandlers(mux)

	chain := Chain(
		RecoveryMiddleware(logger),
		LoggerMiddleware(logger),
		SecurityHeadersMiddleware,
		CORSMiddleware(cfg.AllowedOrigins),
		RequestSizeMiddleware(cfg.MaxBodyBytes),
		MetricsMiddleware,
	)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      chain(mux),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  120 * time.Second,
		},
		config: cfg,
		logger: logger,
	}
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop drains in-flight requests for at most the shutdown timeout.
func (s *Server) Stop() error {
	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func (s *Server) Addr() string {
	return s.server.Addr
}
