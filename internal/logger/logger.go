package logger

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New creates the root console logger. Components derive their own via
// log.With().Str("module", ...).
func New() zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return log.Output(output).With().Timestamp().Logger()
}

// NewWithLevel creates a root logger capped at the given level.
func NewWithLevel(level zerolog.Level) zerolog.Logger {
	return New().Level(level)
}
