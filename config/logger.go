package config

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger builds the process logger. Development gets a human readable
// console writer, every other environment writes JSON lines.
func NewLogger(cfg *Config, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.IsDevelopment() {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().
		Timestamp().
		Str("service", "res-ms").
		Logger()
}

// SetupLogger installs the logger as the global zerolog logger
func SetupLogger(cfg *Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = NewLogger(cfg, os.Stdout)
}
