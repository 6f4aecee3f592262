package bootstrap

import (
	"io"
	"os"
	"time"

	"github.com/artpar/notionorm/config"
	"github.com/rs/zerolog"
)

// NewLogger builds the process logger. Unknown levels fall back to info.
// A nil w writes to stderr so command output on stdout stays parseable.
func NewLogger(cfg config.LoggingConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	SetLevel(cfg.Level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// SetLevel sets the global log level and returns the level applied.
func SetLevel(s string) zerolog.Level {
	if s == "" {
		s = "info"
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	return level
}
