package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/rs/zerolog"

	"github.com/menta2k/skin-analyzer/pkg/client"
	"github.com/menta2k/skin-analyzer/pkg/types"
)

// DefaultURL is the Ollama server used when none is configured
const DefaultURL = "http://localhost:11434"

// DefaultModel is the vision model used when none is configured
const DefaultModel = "llava:7b"

// DefaultLabels are the classes the classifier chooses from
var DefaultLabels = []string{"melanoma", "nevus", "keratosis"}

// Client classifies images with an Ollama vision model
type Client struct {
	client  *api.Client
	model   string
	labels  []string
	timeout time.Duration
	logger  zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithModel sets the vision model name
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLabels sets the classes the model may answer with
func WithLabels(labels []string) Option {
	return func(c *Client) {
		if len(labels) > 0 {
			c.labels = labels
		}
	}
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the client logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Ollama client
func NewClient(ollamaURL string, opts ...Option) (*Client, error) {
	if ollamaURL == "" {
		ollamaURL = DefaultURL
	}

	parsedURL, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %s", parsedURL.Scheme)
	}

	// Drop any path such as /api/chat, the SDK adds its own
	baseURL := &url.URL{
		Scheme: parsedURL.Scheme,
		Host:   parsedURL.Host,
	}

	c := &Client{
		client: api.NewClient(baseURL, http.DefaultClient),
		model:  DefaultModel,
		labels: DefaultLabels,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// Predict asks the model to classify the image into one of the configured labels
func (c *Client) Predict(ctx context.Context, file *types.ImageFile) (*types.PredictionResult, error) {
	if file == nil {
		return nil, client.ErrNoFile
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	streamFalse := false
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: BuildPrompt(c.labels),
				Images:  []api.ImageData{api.ImageData(file.Data)},
			},
		},
		Stream: &streamFalse,
		Format: json.RawMessage(`"json"`),
		Options: map[string]any{
			"temperature": 0.1,
		},
	}

	c.logger.Debug().Str("model", c.model).Str("file", file.Name).Msg("sending ollama chat request")

	var responseContent string
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		responseContent += resp.Message.Content
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat error: %w", err)
	}

	if responseContent == "" {
		return nil, &client.AppError{Message: "empty response from ollama"}
	}

	result, err := parseClassification(responseContent)
	if err != nil {
		return nil, err
	}
	result.Filename = file.Name
	return result, nil
}

// BuildPrompt returns the classification prompt for the given labels
func BuildPrompt(labels []string) string {
	return fmt.Sprintf(`You are a dermatology image classifier.

Classify the skin lesion in the image as exactly one of: %s.

Return JSON only:
{"disease": "<one of the labels>", "confidence": 0.0}

RULES
- confidence is a number between 0 and 1.
- JSON only. No markdown, no code fences, no comments.`, strings.Join(labels, ", "))
}

// parseClassification decodes the model output into a prediction
func parseClassification(raw string) (*types.PredictionResult, error) {
	raw = sanitizeModelJSON(raw)

	if !strings.HasPrefix(raw, "{") {
		return nil, &client.AppError{Message: "model returned non-JSON response"}
	}

	var payload types.PredictResponse
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, &client.AppError{Message: fmt.Sprintf("failed to parse model response: %v", err)}
	}
	if payload.Error != "" {
		return nil, &client.AppError{Message: payload.Error}
	}

	disease := strings.TrimSpace(payload.Disease)
	if disease == "" {
		return nil, &client.AppError{Message: "model response has no disease label"}
	}

	result := &types.PredictionResult{
		Disease:    strings.ToLower(disease),
		Confidence: clamp(payload.Confidence, 0, 1),
	}
	if result.Confidence < types.LowConfidenceThreshold {
		result.Warning = types.LowConfidenceWarning
	}
	return result, nil
}

var (
	reBlock    = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reLine     = regexp.MustCompile(`(?m)^\s*//.*$`)
	reTrailing = regexp.MustCompile(`,(\s*[}\]])`)
)

// sanitizeModelJSON removes code fences, comments, and trailing commas from JSON response
func sanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	// Strip triple-backtick fences if present
	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.Trim(strings.TrimSpace(raw), "`")

	raw = reBlock.ReplaceAllString(raw, "")
	raw = reLine.ReplaceAllString(raw, "")
	raw = reTrailing.ReplaceAllString(raw, "$1")

	// Keep only the outermost {...}
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
