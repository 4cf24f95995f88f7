// Package ports define the view and drawing surface abstractions.
// The presenter updates the view without depending on a concrete toolkit.
package ports

import (
	"image/color"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
)

// PlayerView is the small view-update interface the presenter calls into.
// Each front-end (desktop window, terminal) implements it.
//
// Thread-safety: implementations must accept calls from any goroutine and
// marshal them onto their own UI thread.
type PlayerView interface {
	// SetTitle shows the title of the current track.
	SetTitle(title string)

	// SetPlayState switches the play/pause control glyph.
	// playing shows the pause glyph.
	SetPlayState(playing bool)

	// SetAutoplayNoticeVisible shows or hides the "autoplay blocked" notice.
	SetAutoplayNoticeVisible(visible bool)

	// SetVolume mirrors the output gain (0.0 to 1.0) into the volume control.
	SetVolume(volume float64)

	// ApplyTheme applies the background, text color and toggle glyph of a theme.
	ApplyTheme(preset domain.ThemePreset)

	// RefreshSpectrum repaints the equalizer area from the drawing surface.
	RefreshSpectrum()
}

// Surface is the 2D drawing surface the spectrum renderer paints on.
type Surface interface {
	// Width returns the surface width in pixels.
	Width() float64

	// Height returns the surface height in pixels.
	Height() float64

	// Clear erases the whole surface.
	Clear()

	// FillRect fills a rectangle with a color at the given opacity (0.0 to 1.0).
	FillRect(x, y, w, h float64, c color.RGBA, alpha float64)
}
