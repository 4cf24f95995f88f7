// Package terminal provides a terminal front-end built on Bubble Tea.
package terminal

import (
	"sync"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
	"github.com/tejashwikalptaru/eqplayer/internal/ports"
)

// viewState is what the terminal shows besides the spectrum.
type viewState struct {
	title   string
	playing bool
	notice  bool
	volume  float64
	preset  domain.ThemePreset
	frames  int
}

// View stores view updates for the Bubble Tea model.
// The presenter writes from any goroutine; the model reads a copy on every tick.
type View struct {
	mu    sync.Mutex
	state viewState
}

// NewView creates a view in night mode.
func NewView() *View {
	return &View{state: viewState{preset: domain.ThemeNight.Preset()}}
}

// SetTitle shows the title of the current track.
func (v *View) SetTitle(title string) {
	v.update(func(s *viewState) { s.title = title })
}

// SetPlayState switches the play/pause glyph.
func (v *View) SetPlayState(playing bool) {
	v.update(func(s *viewState) { s.playing = playing })
}

// SetAutoplayNoticeVisible shows or hides the autoplay notice.
func (v *View) SetAutoplayNoticeVisible(visible bool) {
	v.update(func(s *viewState) { s.notice = visible })
}

// SetVolume mirrors the output gain.
func (v *View) SetVolume(volume float64) {
	v.update(func(s *viewState) { s.volume = volume })
}

// ApplyTheme switches the colors and the toggle glyph.
func (v *View) ApplyTheme(preset domain.ThemePreset) {
	v.update(func(s *viewState) { s.preset = preset })
}

// RefreshSpectrum counts rendered frames. The model redraws on its own tick.
func (v *View) RefreshSpectrum() {
	v.update(func(s *viewState) { s.frames++ })
}

func (v *View) update(fn func(*viewState)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(&v.state)
}

func (v *View) snapshot() viewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

var _ ports.PlayerView = (*View)(nil)
