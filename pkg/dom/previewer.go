//go:build js && wasm

package dom

import (
	"errors"
	"syscall/js"

	"github.com/menta2k/skin-analyzer/pkg/types"
)

// ObjectURLPreviewer previews the selected JS File through an object URL,
// so the browser renders it without copying the bytes into Go.
type ObjectURLPreviewer struct {
	file    js.Value
	current string
}

// NewObjectURLPreviewer creates an empty previewer
func NewObjectURLPreviewer() *ObjectURLPreviewer {
	return &ObjectURLPreviewer{file: js.Null()}
}

// Select sets the JS File the next URL call previews and revokes the
// previous object URL. Pass js.Null() when the input is cleared.
func (p *ObjectURLPreviewer) Select(f js.Value) {
	p.revoke()
	p.file = f
}

// URL implements form.Previewer
func (p *ObjectURLPreviewer) URL(file *types.ImageFile) (string, error) {
	if file == nil {
		return "", nil
	}
	if p.file.IsNull() || p.file.IsUndefined() {
		return "", errors.New("no file selected in the input")
	}

	p.revoke()
	p.current = js.Global().Get("URL").Call("createObjectURL", p.file).String()
	return p.current, nil
}

func (p *ObjectURLPreviewer) revoke() {
	if p.current != "" {
		js.Global().Get("URL").Call("revokeObjectURL", p.current)
		p.current = ""
	}
}
