package app

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/menta2k/skin-analyzer/internal/config"
	"github.com/menta2k/skin-analyzer/internal/metrics"
	"github.com/menta2k/skin-analyzer/pkg/client"
	"github.com/menta2k/skin-analyzer/pkg/ollama"
	"github.com/menta2k/skin-analyzer/pkg/preview"
	"github.com/menta2k/skin-analyzer/pkg/remote"
)

// NewPredictor creates the configured backend, instrumented with metrics
func NewPredictor(cfg config.PredictorConfig, logger zerolog.Logger) (client.Predictor, error) {
	timeout := time.Duration(cfg.Timeout)
	logger = logger.With().Str("backend", cfg.Backend).Logger()

	var predictor client.Predictor
	switch cfg.Backend {
	case config.BackendHTTP:
		c, err := remote.NewClient(cfg.URL, remote.WithTimeout(timeout), remote.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create prediction client: %w", err)
		}
		predictor = c
	case config.BackendOllama:
		c, err := ollama.NewClient(cfg.URL,
			ollama.WithModel(cfg.Model),
			ollama.WithLabels(cfg.Labels),
			ollama.WithTimeout(timeout),
			ollama.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
		predictor = c
	default:
		return nil, fmt.Errorf("unknown backend: %s (use 'http' or 'ollama')", cfg.Backend)
	}

	return metrics.Instrument(predictor, cfg.Backend), nil
}

// NewPreviewer creates the previewer described by the preview configuration
func NewPreviewer(cfg config.PreviewConfig) *preview.Previewer {
	return preview.NewWithConfig(preview.Config{
		MaxSide:  cfg.MaxSide,
		Format:   cfg.Format,
		Quality:  cfg.Quality,
		Lossless: cfg.Lossless,
	})
}
