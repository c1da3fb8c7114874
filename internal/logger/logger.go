// Package logger configures the application's logging.
//
// It uses zerolog for structured logging and provides the adapters
// needed to surface SQL statement logs from the pgx driver through
// the same logger.
package logger

import (
	"os"
	"strings"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// New builds the application logger.
//
// In the local environment logs go to stderr through the console
// writer for readability; everywhere else they are emitted as JSON
// lines so collectors can parse them.
func New(env, level string) zerolog.Logger {
	lvl := ParseLevel(level)

	if env == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(lvl).
			With().
			Timestamp().
			Logger()
	}

	return zerolog.New(os.Stderr).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// ParseLevel converts a config string into a zerolog level,
// defaulting to info for unknown values.
func ParseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

// NewPgxLogger creates the logger handed to pgx's tracelog adapter.
//
// SQL statement logging is noisy, so it gets its own component field
// and inherits the global level rather than forcing debug.
func NewPgxLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Str("component", "pgx").
		Logger()
}

// GetPgxTraceLogLevel maps a zerolog level onto pgx's tracelog levels.
//
// tracelog uses its own ordering (Trace > Debug > Info > Warn > Error),
// so the mapping is explicit rather than a cast.
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
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return tracelog.LogLevelError
	default:
		return tracelog.LogLevelNone
	}
}
