package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/menta2k/skin-analyzer/internal/config"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "info", Format: "json"}, &buf)

	logger.Info().Str("file", "mole.jpg").Msg("analyzed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON log line: %v (%q)", err, buf.String())
	}
	if entry["message"] != "analyzed" || entry["file"] != "mole.jpg" {
		t.Errorf("Unexpected entry %v", entry)
	}
}

func TestNewFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("Info should be filtered at warn level, got %q", buf.String())
	}
}

func TestNewUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "chatty", Format: "console"}, &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Debug should be filtered at the default level")
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("Expected info message in console output, got %q", out)
	}
}
