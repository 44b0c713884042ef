// Package form holds the image submission form: the preview handler, the
// submission handler and the error renderer, written against a Display so
// the same logic drives the browser DOM, the HTML server and the CLI.
package form

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/menta2k/skin-analyzer/pkg/client"
	"github.com/menta2k/skin-analyzer/pkg/types"
)

// Element IDs shared by every page rendering of the form
const (
	InputID      = "imageInput"
	PreviewID    = "imagePreview"
	AnalyzeID    = "analyzeBtn"
	ResultID     = "result"
	DiseaseID    = "disease"
	ConfidenceID = "confidence"
	ErrorID      = "error"
)

// User-facing messages
const (
	MissingInputMessage = "⚠ Please select an image before analyzing."
	ErrorPrefix         = "❌ Error: "
)

// ResultView is the text written into the result region
type ResultView struct {
	Disease    string
	Confidence string // percentage with two decimals, no % sign
	Warning    string
}

// Display is the set of page regions the controller writes to
type Display interface {
	ShowPreview(url string)
	HidePreview()
	ShowResult(view ResultView)
	HideResult()
	ShowError(message string)
	HideError()
}

// Previewer produces a displayable URL for a selected file
type Previewer interface {
	URL(file *types.ImageFile) (string, error)
}

// Controller binds the form events to a Predictor and a Display
type Controller struct {
	predictor client.Predictor
	previewer Previewer
	display   Display
	logger    zerolog.Logger

	file *types.ImageFile
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the controller logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates a controller writing to display
func NewController(predictor client.Predictor, previewer Previewer, display Display, opts ...Option) *Controller {
	c := &Controller{
		predictor: predictor,
		previewer: previewer,
		display:   display,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// File returns the currently selected file, or nil
func (c *Controller) File() *types.ImageFile {
	return c.file
}

// SelectFile handles a change of the file input. A nil file clears the
// selection and hides the preview.
func (c *Controller) SelectFile(file *types.ImageFile) {
	c.file = file

	if file == nil {
		c.display.HidePreview()
		return
	}

	url, err := c.previewer.URL(file)
	if err != nil || url == "" {
		c.logger.Warn().Err(err).Str("file", file.Name).Msg("preview unavailable")
		c.display.HidePreview()
		return
	}
	c.display.ShowPreview(url)
}

// Analyze submits the selected file and renders the outcome. Without a
// selected file it shows a warning and returns client.ErrNoFile without
// calling the predictor.
func (c *Controller) Analyze(ctx context.Context) (*types.PredictionResult, error) {
	if c.file == nil {
		c.renderMessage(MissingInputMessage)
		return nil, client.ErrNoFile
	}

	result, err := c.predictor.Predict(ctx, c.file)
	if err != nil {
		c.logger.Info().
			Err(err).
			Str("kind", client.Kind(err)).
			Str("file", c.file.Name).
			Msg("prediction failed")
		c.RenderError(err.Error())
		return nil, err
	}

	c.renderResult(result)
	return result, nil
}

// renderResult shows the prediction and hides any prior error
func (c *Controller) renderResult(result *types.PredictionResult) {
	c.display.ShowResult(ResultView{
		Disease:    result.Disease,
		Confidence: FormatConfidence(result.Confidence),
		Warning:    result.Warning,
	})
	c.display.HideError()
}

// RenderError shows a prefixed error message and hides the result
func (c *Controller) RenderError(message string) {
	c.renderMessage(ErrorPrefix + message)
}

func (c *Controller) renderMessage(message string) {
	c.display.ShowError(message)
	c.display.HideResult()
}

// FormatConfidence renders a 0..1 confidence as a percentage with two decimals
func FormatConfidence(confidence float64) string {
	return fmt.Sprintf("%.2f", confidence*100)
}
