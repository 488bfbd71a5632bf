package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "noise-sentinel"

// New returns the process logger: JSON on stderr, or a console writer with debug level
// in development.
func New(env string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	log := zerolog.New(os.Stderr).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("env", env).
		Logger()
	if env == "development" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).Level(zerolog.DebugLevel)
	}
	return log
}
