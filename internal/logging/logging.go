package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/menta2k/skin-analyzer/internal/config"
)

// New builds a logger from the log configuration. A nil writer logs to stderr.
// Unknown levels fall back to info.
func New(cfg config.LogConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
