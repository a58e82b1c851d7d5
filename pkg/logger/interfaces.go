package logger

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is the logging surface handed to components
type Logger interface {
	Debug() *zerolog.Event
	Info() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
	With() zerolog.Context
	WithComponent(component string) zerolog.Logger
}

type zerologLogger struct {
	logger zerolog.Logger
}

// New wraps a zerolog.Logger in the Logger interface
func New(l zerolog.Logger) Logger {
	return &zerologLogger{logger: l}
}

// NewComponentLogger returns a Logger built from the global logger and tagged with a component name
func NewComponentLogger(component string) Logger {
	return New(WithComponent(component))
}

func (z *zerologLogger) Debug() *zerolog.Event { return z.logger.Debug() }
func (z *zerologLogger) Info() *zerolog.Event  { return z.logger.Info() }
func (z *zerologLogger) Warn() *zerolog.Event  { return z.logger.Warn() }
func (z *zerologLogger) Error() *zerolog.Event { return z.logger.Error() }
func (z *zerologLogger) With() zerolog.Context { return z.logger.With() }

func (z *zerologLogger) WithComponent(component string) zerolog.Logger {
	return z.logger.With().Str("component", component).Logger()
}

// NewTestLogger creates a no-op logger for testing that discards all output
func NewTestLogger() Logger {
	return New(zerolog.New(io.Discard).Level(zerolog.Disabled))
}
