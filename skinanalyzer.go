// Package skinanalyzer submits skin lesion images to a remote classifier and
// renders the result the way the web form does.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//		"os"
//
//		skinanalyzer "github.com/menta2k/skin-analyzer"
//		"github.com/menta2k/skin-analyzer/pkg/remote"
//	)
//
//	func main() {
//		predictor, err := remote.NewClient("http://localhost:5000/predict")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		analyzer := skinanalyzer.New(predictor)
//		page, err := analyzer.AnalyzeFile(context.Background(), "mole.jpg")
//		page.WriteText(os.Stdout)
//		if err != nil {
//			os.Exit(1)
//		}
//	}
//
// The package consists of these components:
//
// 1. Form (pkg/form): preview handler, submission handler and error renderer
// 2. Remote (pkg/remote): multipart client for the /predict endpoint
// 3. Ollama (pkg/ollama): alternate backend using an Ollama vision model
// 4. Preview (pkg/preview): data URL previews with optional thumbnailing
// 5. Web (pkg/web) and DOM (pkg/dom): HTML and browser front ends
//
// Every failure, whether a missing file, a transport or HTTP error, or an
// error field in the response body, is rendered as one prefixed message.
package skinanalyzer

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/menta2k/skin-analyzer/internal/utils"
	"github.com/menta2k/skin-analyzer/pkg/client"
	"github.com/menta2k/skin-analyzer/pkg/form"
	"github.com/menta2k/skin-analyzer/pkg/preview"
	"github.com/menta2k/skin-analyzer/pkg/types"
)

// Version of the skin analyzer
const Version = "1.0.0"

// Analyzer runs the form flow against a predictor outside the browser
type Analyzer struct {
	predictor client.Predictor
	previewer form.Previewer
	logger    zerolog.Logger
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithPreviewer replaces the default pass-through previewer
func WithPreviewer(p form.Previewer) Option {
	return func(a *Analyzer) {
		a.previewer = p
	}
}

// WithLogger sets the logger passed to the form controller
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// New creates an Analyzer for the given predictor
func New(predictor client.Predictor, opts ...Option) *Analyzer {
	a := &Analyzer{
		predictor: predictor,
		previewer: preview.New(),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze selects file and submits it, returning the rendered page.
// A nil file renders the missing input warning.
func (a *Analyzer) Analyze(ctx context.Context, file *types.ImageFile) (*form.Page, error) {
	page := form.NewPage()
	ctrl := form.NewController(a.predictor, a.previewer, page, form.WithLogger(a.logger))

	ctrl.SelectFile(file)
	_, err := ctrl.Analyze(ctx)
	return page, err
}

// AnalyzeFile loads an image from disk and analyzes it. A file that cannot
// be read is rendered as an error on the page.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*form.Page, error) {
	file, err := utils.ReadImageFile(path)
	if err != nil {
		page := form.NewPage()
		form.NewController(a.predictor, a.previewer, page).RenderError(err.Error())
		return page, err
	}
	return a.Analyze(ctx, file)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
