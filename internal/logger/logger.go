// Package logger configures the application's logging,
// monitoring, and observability.
//
// It uses zerolog for logging and integrates with New Relic to
// instrument the codebase, forwarding logs, metrics, and traces
// for debugging.
package logger

import (
	"os"
	"strings"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/icangrow/icangrow-api/internal/config"
)

// LoggerService wraps the optional New Relic application instance.
//
// When New Relic is not configured (empty license key), the service
// still exists but GetApplication returns nil, and every consumer is
// expected to degrade into a no-op.
type LoggerService struct {
	nrApp *newrelic.Application
}

// GetApplication returns the New Relic application, or nil when the
// agent is disabled.
func (s *LoggerService) GetApplication() *newrelic.Application {
	return s.nrApp
}

// Shutdown flushes remaining telemetry. Safe to call with a disabled agent.
func (s *LoggerService) Shutdown() {
	if s.nrApp != nil {
		s.nrApp.Shutdown(0)
	}
}

// New builds the application logger and the observability service.
//
// Behavior:
//   - log level comes from observability config (with env defaults)
//   - "console" format uses zerolog's ConsoleWriter, anything else JSON
//   - when a New Relic license key is present, the agent is started and
//     logs are routed through zerologWriter so they are forwarded with
//     trace context attached
func New(cfg *config.Config) (*zerolog.Logger, *LoggerService, error) {
	level := ParseLevel(cfg.Observability.GetLogLevel())

	service := &LoggerService{}

	obs := cfg.Observability
	if obs.NewRelic.LicenseKey != "" {
		opts := []newrelic.ConfigOption{
			newrelic.ConfigAppName(obs.ServiceName),
			newrelic.ConfigLicense(obs.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(obs.NewRelic.DistributedTracingEnabled),
			newrelic.ConfigAppLogForwardingEnabled(obs.NewRelic.AppLogForwardingEnabled),
		}
		if obs.NewRelic.DebugLogging {
			opts = append(opts, newrelic.ConfigDebugLogger(os.Stderr))
		}

		nrApp, err := newrelic.NewApplication(opts...)
		if err != nil {
			return nil, nil, err
		}
		service.nrApp = nrApp
	}

	var logger zerolog.Logger
	switch {
	case obs.Logging.Format == "console":
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	case service.nrApp != nil && obs.NewRelic.AppLogForwardingEnabled:
		// zerologWriter decorates each log line with linking metadata
		// and forwards it to New Relic alongside stdout.
		writer := zerologWriter.New(os.Stdout, service.nrApp)
		logger = zerolog.New(writer)
	default:
		logger = zerolog.New(os.Stdout)
	}

	logger = logger.Level(level).With().
		Timestamp().
		Str("service", obs.ServiceName).
		Str("env", obs.Environment).
		Logger()

	return &logger, service, nil
}

// ParseLevel converts a config level string into a zerolog level,
// defaulting to info on unknown input.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewPgxLogger returns a logger dedicated to pgx query tracing.
// SQL logging is chatty, so it gets its own component field and a
// console writer (it is only enabled in the local env).
func NewPgxLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Str("component", "pgx").
		Logger()
}

// GetPgxTraceLogLevel maps the app's zerolog level onto pgx tracelog levels.
func GetPgxTraceLogLevel(level zerolog.Level) tracelog.LogLevel {
	switch level {
	case zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	case zerolog.ErrorLevel:
		return tracelog.LogLevelError
	default:
		return tracelog.LogLevelNone
	}
}

// WithTraceContext returns a child logger carrying the transaction's
// trace.id and span.id so log lines correlate with distributed traces.
func WithTraceContext(l zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	if txn == nil {
		return l
	}

	md := txn.GetTraceMetadata()

	builder := l.With()
	if md.TraceID != "" {
		builder = builder.Str("trace.id", md.TraceID)
	}
	if md.SpanID != "" {
		builder = builder.Str("span.id", md.SpanID)
	}
	return builder.Logger()
}
