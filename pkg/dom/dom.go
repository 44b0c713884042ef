//go:build js && wasm

package dom

import (
	"context"
	"fmt"
	"syscall/js"

	"github.com/menta2k/skin-analyzer/pkg/form"
	"github.com/menta2k/skin-analyzer/pkg/types"
)

// Display writes controller output into DOM elements
type Display struct {
	preview    js.Value
	result     js.Value
	disease    js.Value
	confidence js.Value
	errorBox   js.Value
	warning    js.Value
}

// NewDisplay looks up the form regions in doc
func NewDisplay(doc js.Value) (*Display, error) {
	d := &Display{}
	for id, dst := range map[string]*js.Value{
		form.PreviewID:    &d.preview,
		form.ResultID:     &d.result,
		form.DiseaseID:    &d.disease,
		form.ConfidenceID: &d.confidence,
		form.ErrorID:      &d.errorBox,
	} {
		el, err := element(doc, id)
		if err != nil {
			return nil, err
		}
		*dst = el
	}
	// optional
	d.warning = doc.Call("getElementById", "warning")
	return d, nil
}

func element(doc js.Value, id string) (js.Value, error) {
	el := doc.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return js.Value{}, fmt.Errorf("element #%s not found", id)
	}
	return el, nil
}

func show(el js.Value, visible bool) {
	if visible {
		el.Get("style").Set("display", "block")
	} else {
		el.Get("style").Set("display", "none")
	}
}

// ShowPreview implements form.Display
func (d *Display) ShowPreview(url string) {
	d.preview.Set("src", url)
	show(d.preview, true)
}

// HidePreview implements form.Display
func (d *Display) HidePreview() {
	show(d.preview, false)
}

// ShowResult implements form.Display
func (d *Display) ShowResult(view form.ResultView) {
	d.disease.Set("textContent", view.Disease)
	d.confidence.Set("textContent", view.Confidence)
	if !d.warning.IsNull() && !d.warning.IsUndefined() {
		d.warning.Set("textContent", view.Warning)
	}
	show(d.result, true)
}

// HideResult implements form.Display
func (d *Display) HideResult() {
	show(d.result, false)
}

// ShowError implements form.Display
func (d *Display) ShowError(message string) {
	d.errorBox.Set("textContent", message)
	show(d.errorBox, true)
}

// HideError implements form.Display
func (d *Display) HideError() {
	show(d.errorBox, false)
}

// Bind registers the change and click listeners. The file input updates sel
// and previewer synchronously; the click reads the file and submits it in a
// goroutine. The returned function removes the listeners and releases them.
func Bind(doc js.Value, sel *Selection, previewer *ObjectURLPreviewer) (func(), error) {
	input, err := element(doc, form.InputID)
	if err != nil {
		return nil, err
	}
	button, err := element(doc, form.AnalyzeID)
	if err != nil {
		return nil, err
	}

	onChange := js.FuncOf(func(this js.Value, args []js.Value) any {
		files := input.Get("files")
		if files.IsNull() || files.Length() == 0 {
			previewer.Select(js.Null())
			sel.Change(nil, nil)
			return nil
		}

		selected := files.Index(0)
		previewer.Select(selected)
		sel.Change(&types.ImageFile{
			Name:        selected.Get("name").String(),
			ContentType: selected.Get("type").String(),
		}, func() ([]byte, error) {
			return readBytes(selected)
		})
		return nil
	})

	onClick := js.FuncOf(func(this js.Value, args []js.Value) any {
		// Reading the file awaits a promise, which must not block the event loop
		go sel.Submit(context.Background())
		return nil
	})

	input.Call("addEventListener", "change", onChange)
	button.Call("addEventListener", "click", onClick)

	return func() {
		input.Call("removeEventListener", "change", onChange)
		button.Call("removeEventListener", "click", onClick)
		onChange.Release()
		onClick.Release()
	}, nil
}

// readBytes copies the contents of a JS File into Go
func readBytes(f js.Value) ([]byte, error) {
	buf, err := await(f.Call("arrayBuffer"))
	if err != nil {
		return nil, err
	}

	arr := js.Global().Get("Uint8Array").New(buf)
	data := make([]byte, arr.Get("length").Int())
	js.CopyBytesToGo(data, arr)
	return data, nil
}

// await blocks the calling goroutine until the promise settles
func await(promise js.Value) (js.Value, error) {
	done := make(chan js.Value, 1)
	failed := make(chan error, 1)

	onResolve := js.FuncOf(func(this js.Value, args []js.Value) any {
		done <- args[0]
		return nil
	})
	defer onResolve.Release()

	onReject := js.FuncOf(func(this js.Value, args []js.Value) any {
		failed <- js.Error{Value: args[0]}
		return nil
	})
	defer onReject.Release()

	promise.Call("then", onResolve, onReject)

	select {
	case v := <-done:
		return v, nil
	case err := <-failed:
		return js.Undefined(), err
	}
}
