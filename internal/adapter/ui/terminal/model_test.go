package terminal

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
)

type recordingController struct {
	keys   []domain.Key
	themes int
	view   *View
}

func (c *recordingController) OnThemeClicked() {
	c.themes++
	c.view.ApplyTheme(domain.ThemeDay.Preset())
}

func (c *recordingController) OnKeyPressed(key domain.Key) (bool, bool) {
	c.keys = append(c.keys, key)
	return true, key == domain.KeySpace
}

type staticFrames struct {
	img *image.RGBA
}

func (f staticFrames) Snapshot() *image.RGBA { return f.img }

func newTestModel() (Model, *recordingController, *View) {
	view := NewView()
	controller := &recordingController{view: view}
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	return NewModel("eqplayer", controller, view, staticFrames{img: img}), controller, view
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModel_PlayerKeys(t *testing.T) {
	m, controller, _ := newTestModel()

	msgs := []tea.KeyMsg{
		{Type: tea.KeySpace, Runes: []rune{' '}},
		{Type: tea.KeyLeft},
		{Type: tea.KeyRight},
		{Type: tea.KeyUp},
		{Type: tea.KeyDown},
		runeKey('x'),
	}
	for _, msg := range msgs {
		next, cmd := m.Update(msg)
		m = next.(Model)
		assert.Nil(t, cmd)
	}

	assert.Equal(t, []domain.Key{
		domain.KeySpace, domain.KeyLeft, domain.KeyRight, domain.KeyUp, domain.KeyDown,
	}, controller.keys)
}

func TestModel_ThemeKey(t *testing.T) {
	m, controller, _ := newTestModel()

	next, _ := m.Update(runeKey('t'))
	m = next.(Model)

	assert.Equal(t, 1, controller.themes)
	assert.Equal(t, domain.ThemeDay, m.state.preset.Theme)
	assert.Contains(t, m.View(), domain.ThemeDay.Preset().Glyph)
}

func TestModel_Quit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		m, controller, _ := newTestModel()

		next, cmd := m.Update(msg)
		m = next.(Model)

		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
		assert.True(t, m.quitting)
		assert.Empty(t, m.View())
		assert.Empty(t, controller.keys)
	}
}

func TestModel_TickReadsView(t *testing.T) {
	m, _, view := newTestModel()
	view.SetTitle("Song Bird")
	view.SetPlayState(true)
	view.SetVolume(1)

	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(Model)
	require.NotNil(t, cmd)

	assert.Equal(t, "Song Bird", m.state.title)
	assert.True(t, m.state.playing)
	assert.NotNil(t, m.frame)
	// The spring moves toward the target without jumping there.
	assert.Greater(t, m.volumePos, 0.0)
	assert.Less(t, m.volumePos, 1.0)

	out := m.View()
	assert.Contains(t, out, "Song Bird")
	assert.Contains(t, out, domain.GlyphPause)
	assert.Contains(t, out, "100%")
}

func TestModel_Notice(t *testing.T) {
	m, _, view := newTestModel()
	view.SetAutoplayNoticeVisible(true)

	next, _ := m.Update(tickMsg(time.Now()))
	m = next.(Model)
	assert.Contains(t, m.View(), "Autoplay was blocked")

	view.SetAutoplayNoticeVisible(false)
	next, _ = m.Update(tickMsg(time.Now()))
	m = next.(Model)
	assert.NotContains(t, m.View(), "Autoplay was blocked")
}

func TestModel_WindowSize(t *testing.T) {
	m, _, _ := newTestModel()

	next, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Nil(t, cmd)
	assert.Equal(t, 100, next.(Model).width)
}

func TestView_RefreshSpectrumCountsFrames(t *testing.T) {
	view := NewView()
	view.RefreshSpectrum()
	view.RefreshSpectrum()
	assert.Equal(t, 2, view.snapshot().frames)
	assert.Equal(t, domain.ThemeNight, view.snapshot().preset.Theme)
}

func TestBlend(t *testing.T) {
	bg := color.RGBA{R: 2, G: 0, B: 38, A: 255}

	assert.Equal(t, bg, blend(color.RGBA{}, bg))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, blend(color.RGBA{R: 255, A: 255}, bg))

	// Half-transparent white over black (premultiplied)
	half := blend(color.RGBA{R: 128, G: 128, B: 128, A: 128}, color.RGBA{A: 255})
	assert.Equal(t, uint8(128), half.R)
}

func TestRenderFrame(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})

	out := renderFrame(img, 2, 1, color.RGBA{A: 255})
	assert.Equal(t, 2, strings.Count(out, halfBlock))
	assert.NotContains(t, out, "\n")

	out = renderFrame(img, 4, 3, color.RGBA{A: 255})
	assert.Equal(t, 12, strings.Count(out, halfBlock))
	assert.Equal(t, 2, strings.Count(out, "\n"))

	assert.Empty(t, renderFrame(nil, 4, 4, color.RGBA{}))
	assert.Empty(t, renderFrame(img, 0, 4, color.RGBA{}))
}
