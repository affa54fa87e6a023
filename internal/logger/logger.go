// Package logger builds the process logger and carries request-scoped
// loggers through contexts.
package logger

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// New returns a JSON logger writing to w with a "service" field and the level
// named by LOG_LEVEL. Unknown levels fall back to info.
func New(w io.Writer, service, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

// ParseLevel maps DEBUG, INFO, WARNING, ERROR and CRITICAL (any case) to
// zerolog levels. zerolog names such as "warn" are accepted too.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "WARNING":
		return zerolog.WarnLevel
	case "CRITICAL":
		return zerolog.FatalLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// FromContext returns the logger attached to ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zlog.Ctx(ctx)
}

// FromRequest returns the request-scoped logger.
func FromRequest(r *http.Request) *zerolog.Logger {
	return zlog.Ctx(r.Context())
}
