package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmadland/hearthcloud-core/internal/directory"
	"github.com/jmadland/hearthcloud-core/internal/engine"
	"github.com/jmadland/hearthcloud-core/internal/infrastructure/config"
	"github.com/jmadland/hearthcloud-core/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// requests to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config     config.APIConfig
	Logger     *logging.Logger
	Directory  directory.Directory
	Dispatcher *engine.Dispatcher
	Version    string
}

// Server is the HTTP API server for Hearthcloud Core.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg        config.APIConfig
	logger     *logging.Logger
	directory  directory.Directory
	dispatcher *engine.Dispatcher
	version    string
	server     *http.Server
}

// New creates an API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Directory == nil {
		return nil, fmt.Errorf("device directory is required")
	}
	if deps.Dispatcher == nil {
		return nil, fmt.Errorf("command dispatcher is required")
	}

	return &Server{
		cfg:        deps.Config,
		logger:     deps.Logger,
		directory:  deps.Directory,
		dispatcher: deps.Dispatcher,
		version:    deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// The listener runs in a background goroutine; the server is stopped
// with Close().
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       s.cfg.Timeouts.ReadTimeout(),
		ReadHeaderTimeout: s.cfg.Timeouts.ReadTimeout(),
		WriteTimeout:      s.cfg.Timeouts.WriteTimeout(),
		IdleTimeout:       s.cfg.Timeouts.IdleTimeout(),
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server, waiting up to
// gracefulShutdownTimeout for in-flight requests to complete.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}
