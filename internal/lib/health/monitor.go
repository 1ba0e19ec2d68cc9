// Package health runs periodic dependency health checks in the
// background, independent of the /health endpoint.
//
// Failures are logged and, when APM is configured, recorded as New
// Relic custom events so degraded dependencies alert before users do.
package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/icangrow/icangrow-api/internal/config"
)

// Monitor schedules the configured checks on a cron interval.
type Monitor struct {
	cfg    config.HealthChecksConfig
	pool   *pgxpool.Pool
	redis  *redis.Client
	nrApp  *newrelic.Application
	logger *zerolog.Logger
	cron   *cron.Cron
}

// NewMonitor constructs a Monitor. Any of pool/redis/nrApp may be nil;
// nil dependencies are simply skipped.
func NewMonitor(cfg config.HealthChecksConfig, pool *pgxpool.Pool, redisClient *redis.Client, nrApp *newrelic.Application, logger *zerolog.Logger) *Monitor {
	return &Monitor{
		cfg:    cfg,
		pool:   pool,
		redis:  redisClient,
		nrApp:  nrApp,
		logger: logger,
		cron:   cron.New(),
	}
}

// Start schedules the checks. No-op when the monitor is disabled.
func (m *Monitor) Start() error {
	if !m.cfg.Enabled {
		return nil
	}

	spec := fmt.Sprintf("@every %s", m.cfg.Interval)
	if _, err := m.cron.AddFunc(spec, m.runChecks); err != nil {
		return fmt.Errorf("scheduling health checks: %w", err)
	}

	m.cron.Start()
	m.logger.Info().
		Dur("interval", m.cfg.Interval).
		Strs("checks", m.cfg.Checks).
		Msg("started background health monitor")

	return nil
}

// Stop halts the schedule and waits for a running check to finish.
func (m *Monitor) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

func (m *Monitor) runChecks() {
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.Timeout)
	defer cancel()

	for _, check := range m.cfg.Checks {
		switch check {
		case "database":
			m.checkDatabase(ctx)
		case "redis":
			m.checkRedis(ctx)
		default:
			m.logger.Warn().Str("check", check).Msg("unknown health check configured")
		}
	}
}

func (m *Monitor) checkDatabase(ctx context.Context) {
	if m.pool == nil {
		return
	}

	start := time.Now()
	if err := m.pool.Ping(ctx); err != nil {
		m.report("database", err, time.Since(start))
		return
	}

	m.logger.Debug().
		Dur("response_time", time.Since(start)).
		Msg("background database health check passed")
}

func (m *Monitor) checkRedis(ctx context.Context) {
	if m.redis == nil {
		return
	}

	start := time.Now()
	if err := m.redis.Ping(ctx).Err(); err != nil {
		m.report("redis", err, time.Since(start))
		return
	}

	m.logger.Debug().
		Dur("response_time", time.Since(start)).
		Msg("background redis health check passed")
}

func (m *Monitor) report(check string, err error, elapsed time.Duration) {
	m.logger.Error().
		Err(err).
		Str("check", check).
		Dur("response_time", elapsed).
		Msg("background health check failed")

	if m.nrApp != nil {
		m.nrApp.RecordCustomEvent("HealthCheckError", map[string]interface{}{
			"check_type":       check,
			"operation":        "background_health_check",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})
	}
}
