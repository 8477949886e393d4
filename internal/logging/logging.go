// Package logging builds the process logger.
//
// Logs always go to stderr: stdout carries the MCP protocol stream.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Environment variables read by FromEnv.
const (
	EnvLevel  = "IMAGE_MCP_LOG_LEVEL"
	EnvFormat = "IMAGE_MCP_LOG_FORMAT"
)

// New returns a timestamped zerolog logger writing to w at the given level.
// When console is true, output is human-readable instead of JSON.
func New(w io.Writer, level zerolog.Level, console bool) zerolog.Logger {
	if console {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// FromEnv builds a stderr logger from IMAGE_MCP_LOG_LEVEL and IMAGE_MCP_LOG_FORMAT.
func FromEnv() zerolog.Logger {
	console := strings.EqualFold(os.Getenv(EnvFormat), "console")
	return New(os.Stderr, ParseLevel(os.Getenv(EnvLevel)), console)
}

// ParseLevel maps debug|info|warn|error (case-insensitive) to a zerolog
// level. Anything else, including the empty string, selects info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Component returns a child logger tagged with a component field.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
