// Package widgets provides custom Fyne widgets for the player window.
package widgets

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// FrameSource publishes finished spectrum frames.
type FrameSource interface {
	// Snapshot returns a copy of the last published frame.
	Snapshot() *image.RGBA
}

// Equalizer is a widget that shows the frames of a spectrum renderer.
// The frame is drawn at the source resolution and scaled to the widget size.
type Equalizer struct {
	widget.BaseWidget

	raster  *canvas.Raster
	source  FrameSource
	minSize fyne.Size

	mu    sync.Mutex
	frame *image.RGBA
}

// NewEqualizer creates an equalizer over source with the given minimum size.
func NewEqualizer(source FrameSource, minSize fyne.Size) *Equalizer {
	e := &Equalizer{
		source:  source,
		minSize: minSize,
	}
	e.raster = canvas.NewRaster(e.render)
	e.raster.ScaleMode = canvas.ImageScaleSmooth
	e.ExtendBaseWidget(e)
	return e
}

// CreateRenderer implements fyne.Widget.
func (e *Equalizer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(e.raster)
}

// MinSize returns the minimum size of the equalizer.
func (e *Equalizer) MinSize() fyne.Size {
	return e.minSize
}

// Update fetches the latest frame and repaints.
// Must be called on the Fyne thread.
func (e *Equalizer) Update() {
	frame := e.source.Snapshot()

	e.mu.Lock()
	e.frame = frame
	e.mu.Unlock()

	e.raster.Refresh()
}

// Frame returns the frame currently shown, nil before the first Update.
func (e *Equalizer) Frame() *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame
}

func (e *Equalizer) render(w, h int) image.Image {
	e.mu.Lock()
	frame := e.frame
	e.mu.Unlock()

	if frame == nil {
		return image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	}
	return frame
}
