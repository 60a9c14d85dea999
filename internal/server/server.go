// ABOUTME: HTTP server wiring for tasky-server
// ABOUTME: Builds the store, auth stack, task service, and routes; manages graceful shutdown

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/taskyhq/tasky-server/internal/auth"
	"github.com/taskyhq/tasky-server/internal/config"
	"github.com/taskyhq/tasky-server/internal/store"
	"github.com/taskyhq/tasky-server/internal/suggest"
	"github.com/taskyhq/tasky-server/internal/task"
)

// Server owns the HTTP server and the services behind it
type Server struct {
	config     *config.Config
	logger     *slog.Logger
	store      *store.SQLiteStore
	auth       *auth.Service
	registry   *auth.SessionRegistry
	tasks      *task.Service
	suggest    *suggest.Client
	httpServer *http.Server
}

// New creates a Server instance with the given configuration.
// The SQLite store is opened (and its schema created) immediately.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	sqlStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	registry := auth.NewSessionRegistry(sqlStore, cfg.Auth.SessionTTL)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	s := &Server{
		config:   cfg,
		logger:   logger.With("component", "server"),
		store:    sqlStore,
		auth:     auth.NewService(sqlStore, hasher, registry, logger),
		registry: registry,
		tasks:    task.NewService(sqlStore, logger),
		suggest:  suggest.NewClient(cfg.Suggest, logger),
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// routes builds the HTTP mux. Every task route and logout sit behind the
// auth middleware; nothing resource-scoped is reachable without a token.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Public endpoints
	mux.HandleFunc("/", s.handleWelcome)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/auth/register", s.handleRegister)
	mux.HandleFunc("/api/auth/login", s.handleLogin)

	// Authenticated endpoints
	authMiddleware := auth.Middleware(s.registry, s.store, s.logger)
	mux.Handle("/api/auth/logout", authMiddleware(http.HandlerFunc(s.handleLogout)))
	mux.Handle("/api/tasks", authMiddleware(http.HandlerFunc(s.handleTasks)))
	mux.Handle("/api/tasks/", authMiddleware(http.HandlerFunc(s.handleTaskRoutes)))

	return mux
}

// Handler exposes the configured mux, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
// Returns nil on graceful shutdown, or an error if the server fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		s.logger.Error("server error", "error", serverErr)
	}

	shutdownErr := s.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the original context is already canceled.
func (s *Server) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown stops the HTTP server and closes the store
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}

// handleWelcome handles GET / requests. The mux routes every unregistered
// path here, so anything other than the root is a 404.
func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.sendJSONError(w, http.StatusNotFound, "not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Tasky API"})
}

// handleHealth handles GET /health requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
