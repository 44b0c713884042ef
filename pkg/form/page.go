package form

import (
	"fmt"
	"io"
)

// Region is a page element that is either shown or hidden
type Region struct {
	Visible bool
	Text    string
}

// Page is an in-memory Display. It records region state for server-side
// rendering, the CLI and tests.
type Page struct {
	Preview Region // Text holds the preview URL
	Result  Region
	Error   Region

	Disease    string
	Confidence string
	Warning    string
}

// NewPage returns a page in its idle state: every region hidden
func NewPage() *Page {
	return &Page{}
}

// ShowPreview implements Display
func (p *Page) ShowPreview(url string) {
	p.Preview = Region{Visible: true, Text: url}
}

// HidePreview implements Display
func (p *Page) HidePreview() {
	p.Preview.Visible = false
}

// ShowResult implements Display
func (p *Page) ShowResult(view ResultView) {
	p.Disease = view.Disease
	p.Confidence = view.Confidence
	p.Warning = view.Warning
	p.Result.Visible = true
}

// HideResult implements Display
func (p *Page) HideResult() {
	p.Result.Visible = false
}

// ShowError implements Display
func (p *Page) ShowError(message string) {
	p.Error = Region{Visible: true, Text: message}
}

// HideError implements Display
func (p *Page) HideError() {
	p.Error.Visible = false
}

// WriteText prints the visible regions in plain text
func (p *Page) WriteText(w io.Writer) error {
	if p.Result.Visible {
		if _, err := fmt.Fprintf(w, "Disease: %s\nConfidence: %s%%\n", p.Disease, p.Confidence); err != nil {
			return err
		}
		if p.Warning != "" {
			if _, err := fmt.Fprintf(w, "Note: %s\n", p.Warning); err != nil {
				return err
			}
		}
	}
	if p.Error.Visible {
		if _, err := fmt.Fprintln(w, p.Error.Text); err != nil {
			return err
		}
	}
	return nil
}
