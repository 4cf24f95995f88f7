// Package fyne provides the desktop front-end built on the Fyne toolkit.
package fyne

import (
	"sync"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/eqplayer/internal/adapter/ui/fyne/widgets"
	"github.com/tejashwikalptaru/eqplayer/internal/domain"
	"github.com/tejashwikalptaru/eqplayer/internal/ports"
)

// Window defaults.
const (
	WIDTH  = 680
	HEIGHT = 460

	// AutoplayNotice is the text shown while playback waits for a user gesture.
	AutoplayNotice = "Autoplay was blocked. Press play or any key to start the music."

	prevGlyph = "⏮"
	nextGlyph = "⏭"
)

// Controller receives the user commands of the window.
// The presenter implements it.
type Controller interface {
	OnPlayClicked()
	OnNextClicked()
	OnPreviousClicked()
	OnVolumeChanged(volume float64)
	OnThemeClicked()
	OnKeyPressed(key domain.Key) (handled, preventDefault bool)
}

// MainWindow is the player window implementing the ports.PlayerView interface.
//
// The MainWindow follows the MVP pattern:
// - It's a "dumb view" that just displays data
// - All logic is in the presenter
// - User interactions are forwarded to the Controller
//
// View methods may be called from any goroutine; they hop onto the Fyne
// thread with fyne.Do.
type MainWindow struct {
	app    fyneapp.App
	window fyneapp.Window

	// UI components
	background   *canvas.Rectangle
	title        *widget.Label
	notice       *widget.Label
	prevButton   *widget.Button
	playButton   *widget.Button
	nextButton   *widget.Button
	themeButton  *widget.Button
	volumeSlider *widgets.KeySlider
	equalizer    *widgets.Equalizer

	// Lifecycle management
	closeOnce sync.Once

	// Controller (set after construction)
	controller Controller
}

// NewMainWindow creates the player window. frames is the surface the
// spectrum renderer publishes to.
func NewMainWindow(app fyneapp.App, appName string, frames widgets.FrameSource, frameSize fyneapp.Size) *MainWindow {
	w := &MainWindow{
		app: app,
	}

	w.window = app.NewWindow(appName)
	w.buildUI(frames, frameSize)

	w.window.Resize(fyneapp.Size{
		Width:  WIDTH,
		Height: HEIGHT,
	})
	w.window.SetFixedSize(true)

	return w
}

// SetController connects the presenter to this view.
// This must be called before showing the window.
func (w *MainWindow) SetController(controller Controller) {
	w.controller = controller
	w.wireHandlers()
}

// buildUI constructs the UI components.
func (w *MainWindow) buildUI(frames widgets.FrameSource, frameSize fyneapp.Size) {
	preset := domain.ThemeNight.Preset()
	w.background = canvas.NewRectangle(preset.Background)

	w.title = widget.NewLabel("")
	w.title.Alignment = fyneapp.TextAlignCenter
	w.title.Truncation = fyneapp.TextTruncateEllipsis
	w.title.TextStyle = fyneapp.TextStyle{Bold: true}

	w.notice = widget.NewLabel(AutoplayNotice)
	w.notice.Alignment = fyneapp.TextAlignCenter
	w.notice.Wrapping = fyneapp.TextWrapWord
	w.notice.Hide()

	w.prevButton = widget.NewButton(prevGlyph, nil)
	w.playButton = widget.NewButton(domain.PlayPauseGlyph(false), nil)
	w.nextButton = widget.NewButton(nextGlyph, nil)
	w.themeButton = widget.NewButton(preset.Glyph, nil)

	w.volumeSlider = widgets.NewKeySlider(0, 1)
	w.volumeSlider.Step = 0.01

	w.equalizer = widgets.NewEqualizer(frames, frameSize)

	buttons := container.NewHBox(w.prevButton, w.playButton, w.nextButton)
	controls := container.NewBorder(nil, nil, buttons, w.themeButton, w.volumeSlider)
	header := container.NewVBox(w.title, w.notice)

	content := container.NewBorder(header, controls, nil, nil, w.equalizer)
	w.window.SetContent(container.NewStack(w.background, container.NewPadded(content)))
}

// wireHandlers connects UI events to the controller.
func (w *MainWindow) wireHandlers() {
	if w.controller == nil {
		return
	}

	w.playButton.OnTapped = w.controller.OnPlayClicked
	w.prevButton.OnTapped = w.controller.OnPreviousClicked
	w.nextButton.OnTapped = w.controller.OnNextClicked
	w.themeButton.OnTapped = w.controller.OnThemeClicked

	w.volumeSlider.OnChanged = func(value float64) {
		w.controller.OnVolumeChanged(value)
	}

	// The canvas sees keys while nothing has focus, the slider while it has.
	w.window.Canvas().SetOnTypedKey(w.handleKey)
	w.volumeSlider.OnKey = w.dispatchKey
}

func (w *MainWindow) handleKey(ev *fyneapp.KeyEvent) {
	w.dispatchKey(ev)
}

// dispatchKey forwards a bound key and reports whether it was handled.
// A key that suppresses its default handling also drops the focus.
func (w *MainWindow) dispatchKey(ev *fyneapp.KeyEvent) bool {
	key, ok := mapKey(ev.Name)
	if !ok || w.controller == nil {
		return false
	}

	handled, preventDefault := w.controller.OnKeyPressed(key)
	if handled && preventDefault {
		w.window.Canvas().Unfocus()
	}
	return handled
}

// ShowAndRun shows the window and runs the application.
func (w *MainWindow) ShowAndRun() {
	w.window.ShowAndRun()
}

// SetOnClosed registers a callback for the window closing.
func (w *MainWindow) SetOnClosed(fn func()) {
	w.window.SetOnClosed(fn)
}

// Close closes the window.
// It's safe to call multiple times (idempotent).
func (w *MainWindow) Close() {
	w.closeOnce.Do(func() {
		fyneapp.Do(w.window.Close)
	})
}

// GetWindow returns the underlying Fyne window.
func (w *MainWindow) GetWindow() fyneapp.Window {
	return w.window
}

// PlayerView interface implementation

// SetTitle shows the title of the current track.
func (w *MainWindow) SetTitle(title string) {
	fyneapp.Do(func() {
		w.title.SetText(title)
	})
}

// SetPlayState switches the play/pause glyph.
func (w *MainWindow) SetPlayState(playing bool) {
	fyneapp.Do(func() {
		w.playButton.SetText(domain.PlayPauseGlyph(playing))
	})
}

// SetAutoplayNoticeVisible shows or hides the autoplay notice.
func (w *MainWindow) SetAutoplayNoticeVisible(visible bool) {
	fyneapp.Do(func() {
		if visible {
			w.notice.Show()
		} else {
			w.notice.Hide()
		}
	})
}

// SetVolume updates the volume slider without firing its change handler.
func (w *MainWindow) SetVolume(volume float64) {
	fyneapp.Do(func() {
		w.volumeSlider.Value = volume
		w.volumeSlider.Refresh()
	})
}

// ApplyTheme switches background, text color and the toggle glyph.
func (w *MainWindow) ApplyTheme(preset domain.ThemePreset) {
	fyneapp.Do(func() {
		w.app.Settings().SetTheme(newPlayerTheme(preset))
		w.background.FillColor = preset.Background
		w.background.Refresh()
		w.themeButton.SetText(preset.Glyph)
	})
}

// RefreshSpectrum repaints the equalizer from the latest frame.
func (w *MainWindow) RefreshSpectrum() {
	fyneapp.Do(w.equalizer.Update)
}

// Verify PlayerView implementation
var _ ports.PlayerView = (*MainWindow)(nil)
