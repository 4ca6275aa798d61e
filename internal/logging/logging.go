// Package logging is the structured logging seam for the FraudLens
// service. One process-wide zerolog logger backs the whole binary;
// serve configures it once from the log section of the configuration,
// and long-lived components derive tagged child loggers through
// Component so provider, profile and breaker events stay attributable
// in aggregated output.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide logger. Init replaces it wholesale.
var Logger zerolog.Logger

// Level aliases zerolog's level type so callers never import zerolog
// just to configure verbosity.
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config carries the knobs the log section of the configuration maps
// onto. The zero value is not usable on its own; Init fills the gaps.
type Config struct {
	// Level is the minimum severity that reaches the sink.
	Level Level
	// Output receives the log stream. Nil means os.Stderr; the service
	// is a daemon and never writes logs anywhere else.
	Output io.Writer
	// Pretty switches from JSON lines to the human console writer, for
	// running serve in a terminal during triage-rule development.
	Pretty bool
	// TimeFormat stamps events; empty means RFC3339.
	TimeFormat string
}

// DefaultConfig is what the binary runs with before configuration is
// loaded: info-level JSON lines on stderr.
func DefaultConfig() Config {
	return Config{
		Level:      InfoLevel,
		Output:     os.Stderr,
		Pretty:     false,
		TimeFormat: time.RFC3339,
	}
}

// Init installs the global logger. Safe to call again; the serve
// command does exactly that once the effective configuration is known.
func Init(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.RFC3339
	}

	zerolog.TimeFieldFormat = cfg.TimeFormat

	var sink io.Writer = cfg.Output
	if cfg.Pretty {
		sink = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: cfg.TimeFormat,
		}
	}

	Logger = zerolog.New(sink).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a configuration string to a level, case-insensitively.
// Unrecognized input falls back to info rather than failing startup.
func ParseLevel(level string) Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	case "FATAL":
		return FatalLevel
	default:
		return InfoLevel
	}
}

// Debug starts a debug-level event on the global logger.
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Info starts an info-level event on the global logger.
func Info() *zerolog.Event {
	return Logger.Info()
}

// Warn starts a warn-level event on the global logger.
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Error starts an error-level event on the global logger.
func Error() *zerolog.Event {
	return Logger.Error()
}

// Fatal starts a fatal-level event; Msg or Send on it exits the process.
func Fatal() *zerolog.Event {
	return Logger.Fatal()
}

// With opens a child-logger context on the global logger.
func With() zerolog.Context {
	return Logger.With()
}

// Component derives a child logger tagged with a component name, so a
// subsystem's events (provider registration, profile reloads, breaker
// transitions) carry their origin. Derive after Init, not at package
// init time, or the child keeps pointing at the bootstrap logger.
func Component(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

// A bootstrap logger keeps the package usable before serve configures
// anything, so early config and flag errors are not lost.
func init() {
	Init(DefaultConfig())
}
