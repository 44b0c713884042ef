package app

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/menta2k/skin-analyzer/internal/config"
	"github.com/menta2k/skin-analyzer/pkg/types"
)

func TestNewPredictorBackends(t *testing.T) {
	for _, backend := range []string{config.BackendHTTP, config.BackendOllama} {
		cfg := config.Default().Predictor
		cfg.Backend = backend
		if backend == config.BackendOllama {
			cfg.URL = "http://localhost:11434"
		}

		p, err := NewPredictor(cfg, zerolog.Nop())
		if err != nil {
			t.Errorf("NewPredictor(%s) failed: %v", backend, err)
		}
		if p == nil {
			t.Errorf("NewPredictor(%s) returned nil", backend)
		}
	}
}

func TestNewPredictorUnknownBackend(t *testing.T) {
	cfg := config.Default().Predictor
	cfg.Backend = "grpc"
	if _, err := NewPredictor(cfg, zerolog.Nop()); err == nil {
		t.Error("Expected error for unknown backend")
	}
}

func TestNewPredictorBadURL(t *testing.T) {
	cfg := config.Default().Predictor
	cfg.URL = "localhost:5000/predict"
	if _, err := NewPredictor(cfg, zerolog.Nop()); err == nil {
		t.Error("Expected error for URL without scheme")
	}
}

func TestNewPreviewer(t *testing.T) {
	p := NewPreviewer(config.Default().Preview)

	url, err := p.URL(&types.ImageFile{ContentType: "image/jpeg", Data: []byte{1, 2, 3}})
	if err != nil {
		t.Fatalf("URL failed: %v", err)
	}
	if url != "data:image/jpeg;base64,AQID" {
		t.Errorf("Expected pass-through data URL, got %s", url)
	}
}
