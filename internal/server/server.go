// Package server defines the core Server struct that composes the app's main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - Prometheus metrics and the pool stats collector
//   - database pool
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/newsapi/internal/config"
	"github.com/deppfellow/newsapi/internal/database"
	loggerPkg "github.com/deppfellow/newsapi/internal/logger"
	"github.com/deppfellow/newsapi/internal/metrics"
)

// poolStatsInterval is how often pool gauges are refreshed.
const poolStatsInterval = 15 * time.Second

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself; that lives in httpServer and is
// configured by SetupHTTPServer.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService
	Metrics       *metrics.Metrics
	DB            *database.Database

	poolStats  *metrics.PoolStatsCollector
	httpServer *http.Server
}

// New constructs a Server: metrics are registered on the default Prometheus
// registry and the database pool is opened and pinged.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	m := metrics.New(logger)

	db, err := database.New(cfg, logger, loggerService, m)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	poolStats := metrics.NewPoolStatsCollector(db.Pool, m, poolStatsInterval)
	poolStats.Start()

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Metrics:       m,
		DB:            db,
		poolStats:     poolStats,
	}, nil
}

// SetupHTTPServer configures the internal net/http server around handler.
// Timeouts come from config in seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx
// expires, then releases the pool and flushes New Relic.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.poolStats != nil {
		s.poolStats.Stop()
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	if s.LoggerService != nil {
		s.LoggerService.Shutdown()
	}

	return nil
}
