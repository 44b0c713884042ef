package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/menta2k/skin-analyzer/internal/app"
	"github.com/menta2k/skin-analyzer/internal/config"
	"github.com/menta2k/skin-analyzer/internal/logging"
	"github.com/menta2k/skin-analyzer/internal/utils"
	"github.com/menta2k/skin-analyzer/pkg/web"
)

func main() {
	var configPath, addr, backend, url string

	flag.StringVar(&configPath, "config", "", "config file (yaml or json), defaults to "+config.GetConfigPath()+" if present")
	flag.StringVar(&addr, "addr", "", "listen address (default :8080)")
	flag.StringVar(&backend, "backend", "", "backend to use: http or ollama")
	flag.StringVar(&url, "url", "", "prediction endpoint URL")
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
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if backend != "" {
		cfg.Predictor.Backend = backend
	}
	if url != "" {
		cfg.Predictor.URL = url
	}
	if port := os.Getenv("PORT"); port != "" && addr == "" {
		cfg.Server.Addr = ":" + port
	}

	logger := logging.New(cfg.Log, nil)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	gin.SetMode(gin.ReleaseMode)

	predictor, err := app.NewPredictor(cfg.Predictor, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create predictor")
	}

	server := web.New(predictor, app.NewPreviewer(cfg.Preview),
		web.WithLogger(logger),
		web.WithBackendName(cfg.Predictor.Backend),
		web.WithMaxUploadBytes(cfg.Server.MaxUploadBytes))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Msg("Endpoints:")
	logger.Info().Msg("  GET  /         - Upload form")
	logger.Info().Msg("  POST /preview  - Preview the selected image")
	logger.Info().Msg("  POST /analyze  - Submit the image for prediction")
	logger.Info().Msg("  GET  /health   - Health check")
	logger.Info().Msg("  GET  /metrics  - Prometheus metrics")

	if err := server.Run(ctx, cfg.Server.Addr); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}
