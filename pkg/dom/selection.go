package dom

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/menta2k/skin-analyzer/pkg/form"
	"github.com/menta2k/skin-analyzer/pkg/types"
)

// ErrSelectionChanged is returned by Submit when the file input changed
// while the submitted file was still being read. Nothing is submitted.
var ErrSelectionChanged = errors.New("selection changed while reading file")

// Loader reads the bytes of a selected file
type Loader func() ([]byte, error)

// Selection tracks the file chosen in the input. Changes are applied
// synchronously; file bytes are read only when the form is submitted.
type Selection struct {
	ctrl *form.Controller

	mu   sync.Mutex
	gen  uint64
	file *types.ImageFile
	load Loader
}

// NewSelection creates a Selection driving ctrl
func NewSelection(ctrl *form.Controller) *Selection {
	return &Selection{ctrl: ctrl}
}

// Change records the current input selection. A nil file clears it.
// file.Data may be empty; load fills it in on submission.
func (s *Selection) Change(file *types.ImageFile, load Loader) {
	s.mu.Lock()
	s.gen++
	s.file = file
	s.load = load
	s.mu.Unlock()

	s.ctrl.SelectFile(file)
}

// Submit reads the selected file if needed and analyzes it. Without a
// selection the controller shows its missing input warning.
func (s *Selection) Submit(ctx context.Context) (*types.PredictionResult, error) {
	s.mu.Lock()
	gen, file, load := s.gen, s.file, s.load
	s.mu.Unlock()

	if file != nil && len(file.Data) == 0 && load != nil {
		data, err := load()

		s.mu.Lock()
		stale := s.gen != gen
		if !stale && err == nil {
			file.Data = data
			s.load = nil
		}
		s.mu.Unlock()

		if stale {
			return nil, ErrSelectionChanged
		}
		if err != nil {
			err = fmt.Errorf("failed to read file: %w", err)
			s.ctrl.RenderError(err.Error())
			return nil, err
		}
	}

	return s.ctrl.Analyze(ctx)
}
