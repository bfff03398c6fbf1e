package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. Every package logs through the
// package-level helpers or a component-scoped logger from With.
func Init(serviceName string, debug bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	log.Logger = zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// With returns a logger scoped to a named component.
func With(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

func Debug() *zerolog.Event { return log.Debug() }

func Info() *zerolog.Event { return log.Info() }

func Warn() *zerolog.Event { return log.Warn() }

func Error() *zerolog.Event { return log.Error() }

// Fatal logs and exits with a nonzero code; the external supervisor restarts
// the process.
func Fatal() *zerolog.Event { return log.Fatal() }
