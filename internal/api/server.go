package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/ledgerclean/internal/adapters/export"
	"github.com/eshaffer321/ledgerclean/internal/api/handlers"
	"github.com/eshaffer321/ledgerclean/internal/api/middleware"
	"github.com/eshaffer321/ledgerclean/internal/application/clean"
	"github.com/eshaffer321/ledgerclean/internal/infrastructure/runstore"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
	// CleanDefaults apply to uploads that do not override them by query.
	CleanDefaults clean.Options
	ExportFormat  export.Format
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		CleanDefaults:  clean.DefaultOptions(),
		ExportFormat:   export.DefaultFormat,
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	store      *runstore.Store
	cleaner    *clean.Service
}

// NewServer creates a new API server. A nil store starts empty.
func NewServer(cfg Config, store *runstore.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if store == nil {
		store = runstore.NewStore()
	}

	s := &Server{
		config:  cfg,
		router:  chi.NewRouter(),
		logger:  logger,
		store:   store,
		cleaner: clean.NewService(logger),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	// CORS
	corsConfig := middleware.DefaultCORSConfig()
	if len(s.config.AllowedOrigins) > 0 {
		corsConfig.AllowedOrigins = s.config.AllowedOrigins
	}
	s.router.Use(middleware.CORS(corsConfig))

	// Request logging
	s.router.Use(middleware.Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler(s.store)
	s.router.Get("/health", healthHandler.ServeHTTP)

	s.router.Route("/api/runs", func(r chi.Router) {
		runsHandler := handlers.NewRunsHandler(s.store, s.cleaner, s.config.CleanDefaults, s.logger)
		r.Post("/", runsHandler.Create)
		r.Get("/", runsHandler.List)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", runsHandler.Get)

			// Review
			reviewHandler := handlers.NewReviewHandler(s.store, s.logger)
			r.Get("/groups", reviewHandler.Groups)
			r.Post("/rows/{index}/toggle", reviewHandler.ToggleRow)
			r.Post("/groups/{groupID}/toggle", reviewHandler.ToggleGroup)
			r.Post("/remove-all", reviewHandler.RemoveAll)
			r.Post("/restore-all", reviewHandler.RestoreAll)
			r.Post("/undo", reviewHandler.Undo)
			r.Post("/redo", reviewHandler.Redo)

			// Export
			exportHandler := handlers.NewExportHandler(s.store, s.config.ExportFormat, s.logger)
			r.Get("/export", exportHandler.Export)
		})
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
