//go:build js && wasm

// Command skin-analyzer-wasm runs the upload form inside the browser.
//
//	GOOS=js GOARCH=wasm go build -o analyzer.wasm ./cmd/skin-analyzer-wasm
//	cp "$(go env GOROOT)/lib/wasm/wasm_exec.js" .
//
// Serve analyzer.wasm and wasm_exec.js next to index.html from this
// directory. The page loads the module and holds the form elements.
//
// The endpoint defaults to http://localhost:5000/predict and can be changed
// by setting window.SKIN_ANALYZER_ENDPOINT before the module starts.
package main

import (
	"os"
	"syscall/js"

	"github.com/rs/zerolog"

	"github.com/menta2k/skin-analyzer/pkg/dom"
	"github.com/menta2k/skin-analyzer/pkg/form"
	"github.com/menta2k/skin-analyzer/pkg/remote"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, NoColor: true}).With().Timestamp().Logger()

	endpoint := remote.DefaultEndpoint
	if v := js.Global().Get("SKIN_ANALYZER_ENDPOINT"); v.Type() == js.TypeString {
		endpoint = v.String()
	}

	predictor, err := remote.NewClient(endpoint, remote.WithLogger(logger))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create prediction client")
	}

	doc := js.Global().Get("document")
	display, err := dom.NewDisplay(doc)
	if err != nil {
		logger.Fatal().Err(err).Msg("page is missing form elements")
	}

	previewer := dom.NewObjectURLPreviewer()
	ctrl := form.NewController(predictor, previewer, display, form.WithLogger(logger))
	if _, err := dom.Bind(doc, dom.NewSelection(ctrl), previewer); err != nil {
		logger.Fatal().Err(err).Msg("failed to bind form")
	}

	logger.Info().Str("endpoint", endpoint).Msg("form ready")

	// Keep the module alive for event callbacks
	select {}
}
