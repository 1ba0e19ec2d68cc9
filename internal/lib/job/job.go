// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - you enqueue tasks (producer) using asynq.Client
//   - a server runs workers that process those tasks (consumer)
package job

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/icangrow/icangrow-api/internal/config"
	"github.com/icangrow/icangrow-api/internal/lib/email"
)

// JobService holds the Asynq client (enqueue) and server (worker
// execution), plus the email client the handlers need.
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	server *asynq.Server
	email  *email.Client
	logger *zerolog.Logger
}

// NewJobService creates a JobService configured to use Redis from cfg.
//
// Queue weights distribute the worker pool by ratio so critical tasks
// get more of the concurrency share.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisAddr := cfg.Redis.Address

	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr: redisAddr,
	})

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	return &JobService{
		Client: client,
		server: server,
		email:  email.NewClient(cfg, logger),
		logger: logger,
	}
}

// Start registers task handlers and starts the background worker
// server. asynq's Start is non-blocking; processing errors surface
// through the returned error or the server's own logging.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskWelcome, j.handleWelcomeEmailTask)

	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	return nil
}

// Stop gracefully stops the job server and closes client resources.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	_ = j.Client.Close()
}
