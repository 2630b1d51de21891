package host

import (
	"sync"
	"time"

	"github.com/matzehuels/sunburst/pkg/debounce"
	"github.com/matzehuels/sunburst/pkg/errors"
)

// Viewport is the size of the container the chart is drawn into. Resizes
// are coalesced: the first one of a burst redraws at once and the last one
// redraws again after the burst has been quiet for the wait duration.
type Viewport struct {
	mu     sync.Mutex
	width  float64
	height float64

	d *debounce.Debouncer
}

// NewViewport returns a viewport of the given size that calls redraw for
// every debounced resize.
func NewViewport(width, height float64, wait time.Duration, redraw func()) *Viewport {
	return &Viewport{
		width:  width,
		height: height,
		d:      debounce.New(wait, redraw),
	}
}

// Resize records a new container size. A size equal to the current one is
// ignored.
func (v *Viewport) Resize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid size %gx%g", width, height)
	}
	v.mu.Lock()
	same := v.width == width && v.height == height
	v.width, v.height = width, height
	v.mu.Unlock()

	if !same {
		v.d.Trigger()
	}
	return nil
}

// Size returns the current container size.
func (v *Viewport) Size() (width, height float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

// Stop drops a pending trailing redraw.
func (v *Viewport) Stop() { v.d.Stop() }
