// Package logging builds the zerolog loggers used by the CLI and API server
package logging

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log output formats
const (
	FormatPretty = "pretty"
	FormatJSON   = "json"
)

// New returns a logger writing to w at the given level and format
func New(w io.Writer, level, format string) zerolog.Logger {
	if strings.ToLower(format) != FormatJSON {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: !isTerminal(w)}
	}
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

type requestIDKey struct{}

// WithRequestID stores a request id in ctx
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id stored in ctx, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// FromContext returns base with the request id of ctx attached
func FromContext(ctx context.Context, base zerolog.Logger) zerolog.Logger {
	if id := RequestID(ctx); id != "" {
		return base.With().Str("request_id", id).Logger()
	}
	return base
}
