// internal/observability/logger.go
package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvLogLevel overrides the level passed to InitLogger.
const EnvLogLevel = "GRIP_LOG_LEVEL"

// InitLogger builds the process logger and installs it as zerolog's global.
// Every line carries the app name and a per-process run id.
func InitLogger(app, level string, out io.Writer) zerolog.Logger {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		level = v
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("app", app).
		Str("run_id", uuid.NewString()).
		Logger()
	log.Logger = logger
	return logger
}

// ParseLevel maps a level name to a zerolog level; unknown names mean info.
func ParseLevel(raw string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
