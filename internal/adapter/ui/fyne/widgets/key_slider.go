package widgets

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// KeySlider is a slider that offers typed keys to the window first.
// A focused widget receives keys instead of the canvas, so without this
// the window bindings stop working once the slider was touched.
type KeySlider struct {
	widget.Slider

	// OnKey reports whether the window consumed the key.
	OnKey func(ev *fyne.KeyEvent) bool
}

// NewKeySlider creates a horizontal slider between minValue and maxValue.
func NewKeySlider(minValue, maxValue float64) *KeySlider {
	s := &KeySlider{
		Slider: widget.Slider{
			Value:       minValue,
			Min:         minValue,
			Max:         maxValue,
			Step:        1,
			Orientation: widget.Horizontal,
		},
	}
	s.ExtendBaseWidget(s)
	return s
}

// TypedKey hands the key to OnKey and falls back to the slider's own
// arrow handling for keys the window does not bind.
func (s *KeySlider) TypedKey(ev *fyne.KeyEvent) {
	if s.OnKey != nil && s.OnKey(ev) {
		return
	}
	s.Slider.TypedKey(ev)
}
