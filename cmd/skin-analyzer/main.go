package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	skinanalyzer "github.com/menta2k/skin-analyzer"
	"github.com/menta2k/skin-analyzer/internal/app"
	"github.com/menta2k/skin-analyzer/internal/config"
	"github.com/menta2k/skin-analyzer/internal/logging"
	"github.com/menta2k/skin-analyzer/internal/utils"
)

func main() {
	var in, configPath, backend, url, model, labels, previewOut string
	var timeout time.Duration
	var previewSize int
	var debug bool

	flag.StringVar(&in, "in", "", "input image path (jpg/png/bmp/webp)")
	flag.StringVar(&configPath, "config", "", "config file (yaml or json), defaults to "+config.GetConfigPath()+" if present")
	flag.StringVar(&backend, "backend", "", "backend to use: http or ollama")
	flag.StringVar(&url, "url", "", "endpoint URL (defaults: http=http://localhost:5000/predict, ollama=http://localhost:11434)")
	flag.StringVar(&model, "model", "", "vision model name (ollama only)")
	flag.StringVar(&labels, "labels", "", "comma separated class labels (ollama only)")
	flag.DurationVar(&timeout, "timeout", 0, "request timeout, 0 waits indefinitely")
	flag.IntVar(&previewSize, "preview-size", -1, "max long side of the preview image, 0 keeps the original")
	flag.StringVar(&previewOut, "preview-out", "", "write the preview data URL to this file")
	flag.BoolVar(&debug, "debug", false, "enable debug logging")
	flag.Parse()

	cfg := config.Default()
	if configPath == "" && utils.FileExists(config.GetConfigPath()) {
		configPath = config.GetConfigPath()
	}
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			logging.New(cfg.Log, nil).Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
		}
		cfg = loaded
	}

	// Flags override the config file
	if backend != "" {
		cfg.Predictor.Backend = backend
	}
	if url != "" {
		cfg.Predictor.URL = url
	}
	if model != "" {
		cfg.Predictor.Model = model
	}
	if labels != "" {
		cfg.Predictor.Labels = strings.Split(labels, ",")
	}
	if timeout > 0 {
		cfg.Predictor.Timeout = config.Duration(timeout)
	}
	if previewSize >= 0 {
		cfg.Preview.MaxSide = previewSize
	}
	if debug {
		cfg.Log.Level = "debug"
	}

	logger := logging.New(cfg.Log, nil)

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if in == "" {
		logger.Fatal().Msgf("usage: %s -in input.jpg [-backend http|ollama] [-url endpoint] [-config config.yaml]", filepath.Base(os.Args[0]))
	}
	if !utils.IsImageFile(in) {
		logger.Warn().Str("file", in).Msg("file does not have an image extension, sending anyway")
	}

	predictor, err := app.NewPredictor(cfg.Predictor, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create predictor")
	}

	analyzer := skinanalyzer.New(predictor,
		skinanalyzer.WithPreviewer(app.NewPreviewer(cfg.Preview)),
		skinanalyzer.WithLogger(logger))

	page, err := analyzer.AnalyzeFile(context.Background(), in)

	if previewOut != "" && page.Preview.Visible {
		if werr := os.WriteFile(previewOut, []byte(page.Preview.Text), 0o644); werr != nil {
			logger.Error().Err(werr).Str("path", previewOut).Msg("preview save failed")
		} else {
			logger.Info().Str("path", previewOut).Msg("wrote preview")
		}
	}

	if werr := page.WriteText(os.Stdout); werr != nil {
		logger.Error().Err(werr).Msg("failed to write result")
		os.Exit(1)
	}
	if err != nil {
		os.Exit(1)
	}
}
