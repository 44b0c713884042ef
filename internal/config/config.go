package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Predictor PredictorConfig `json:"predictor" yaml:"predictor"`
	Preview   PreviewConfig   `json:"preview" yaml:"preview"`
	Server    ServerConfig    `json:"server" yaml:"server"`
	Log       LogConfig       `json:"log" yaml:"log"`
}

// PredictorConfig selects and configures the prediction backend
type PredictorConfig struct {
	Backend string   `json:"backend" yaml:"backend"` // http|ollama
	URL     string   `json:"url" yaml:"url"`
	Model   string   `json:"model" yaml:"model"`   // ollama only
	Labels  []string `json:"labels" yaml:"labels"` // ollama only
	Timeout Duration `json:"timeout" yaml:"timeout"`
}

// PreviewConfig holds configuration for preview generation
type PreviewConfig struct {
	MaxSide  int    `json:"max_side" yaml:"max_side"`
	Format   string `json:"format" yaml:"format"`
	Quality  int    `json:"quality" yaml:"quality"`
	Lossless bool   `json:"lossless" yaml:"lossless"`
}

// ServerConfig holds configuration for the web server
type ServerConfig struct {
	Addr           string `json:"addr" yaml:"addr"`
	MaxUploadBytes int64  `json:"max_upload_bytes" yaml:"max_upload_bytes"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // console|json
}

// Supported predictor backends
const (
	BackendHTTP   = "http"
	BackendOllama = "ollama"
)

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Predictor: PredictorConfig{
			Backend: BackendHTTP,
			URL:     "", // backend default
			Model:   "llava:7b",
			Labels:  []string{"melanoma", "nevus", "keratosis"},
		},
		Preview: PreviewConfig{
			MaxSide: 0,
			Format:  "jpg",
			Quality: 85,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxUploadBytes: 16 << 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFromFile loads configuration from a JSON or YAML file. Missing
// fields keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON or YAML file, chosen by extension
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Predictor.Backend {
	case BackendHTTP, BackendOllama:
	default:
		return fmt.Errorf("predictor.backend must be %q or %q, got %q", BackendHTTP, BackendOllama, c.Predictor.Backend)
	}

	if c.Predictor.Timeout < 0 {
		return fmt.Errorf("predictor.timeout cannot be negative")
	}

	if c.Preview.MaxSide < 0 {
		return fmt.Errorf("preview.max_side cannot be negative")
	}

	switch strings.ToLower(c.Preview.Format) {
	case "jpg", "jpeg", "png", "webp":
	default:
		return fmt.Errorf("preview.format must be jpg, png or webp")
	}

	if c.Preview.Quality < 1 || c.Preview.Quality > 100 {
		return fmt.Errorf("preview.quality must be between 1 and 100")
	}

	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}
	return filepath.Join(home, ".config", "skin-analyzer", "config.yaml")
}

// Duration is a time.Duration that reads and writes as a string like "30s"
type Duration time.Duration

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	return d.parse(s)
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.parse(value.Value)
}

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}
