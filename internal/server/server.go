// Package server defines the core Server struct that composes the
// application's main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - database pool
//   - redis client
//   - identity provider client
//   - background job worker server (asynq)
//   - background health monitor
//   - http.Server
//
// It provides constructors and start/shutdown logic to run the
// application cleanly.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/icangrow/icangrow-api/internal/config"
	"github.com/icangrow/icangrow-api/internal/database"
	"github.com/icangrow/icangrow-api/internal/lib/health"
	"github.com/icangrow/icangrow-api/internal/lib/identity"
	"github.com/icangrow/icangrow-api/internal/lib/job"
	loggerPkg "github.com/icangrow/icangrow-api/internal/logger"
)

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself; the internal *http.Server is
// configured in SetupHTTPServer and started in Start().
type Server struct {
	// Config holds all environment/config values for the app.
	Config *config.Config

	// Logger is the application's main structured logger.
	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application
	// instance. If New Relic is disabled, GetApplication returns nil.
	LoggerService *loggerPkg.LoggerService

	// DB holds the PostgreSQL pool wrapper.
	DB *database.Database

	// Redis is the Redis client backing rate limiting and Asynq.
	Redis *redis.Client

	// Identity talks to the hosted auth provider.
	Identity *identity.Client

	// Job runs background workers (Asynq) and provides a client for
	// enqueueing.
	Job *job.JobService

	httpServer *http.Server
	monitor    *health.Monitor
}

// New constructs a Server and initializes core dependencies.
//
// It does NOT start the HTTP server; that happens in SetupHTTPServer
// + Start.
//
// Redis connection failure does not block startup (it logs and
// continues); database and job worker failures do.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})

	// Instrument Redis commands when New Relic is enabled so they
	// show up in distributed traces.
	if loggerService != nil && loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Redis is optional at startup: background jobs degrade, the API
	// itself keeps serving.
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without Redis")
	}

	jobService := job.NewJobService(logger, cfg)
	if err := jobService.Start(); err != nil {
		return nil, fmt.Errorf("failed to start job server: %w", err)
	}

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Redis:         redisClient,
		Identity:      identity.NewClient(cfg, logger),
		Job:           jobService,
	}

	var nrApp *newrelic.Application
	if loggerService != nil {
		nrApp = loggerService.GetApplication()
	}

	server.monitor = health.NewMonitor(cfg.Observability.HealthChecks, db.Pool, redisClient, nrApp, logger)
	if err := server.monitor.Start(); err != nil {
		return nil, fmt.Errorf("failed to start health monitor: %w", err)
	}

	return server, nil
}

// SetupHTTPServer configures the internal net/http server with the
// given handler (the Echo router).
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		// Timeouts protect against slow clients holding connections.
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops or
// errors; call Shutdown from a signal handler for graceful exit.
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

// Shutdown gracefully stops the HTTP server and closes dependencies:
// inflight requests finish until ctx's deadline, then the database
// pool, job workers, health monitor and redis client are released.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	if s.monitor != nil {
		s.monitor.Stop()
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	if err := s.Redis.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}
