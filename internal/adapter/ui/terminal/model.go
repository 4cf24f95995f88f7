package terminal

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
)

// Layout defaults.
const (
	defaultWidth   = 64
	spectrumRows   = 12
	minVolumeWidth = 10
)

// Controller receives the user commands of the terminal.
// The presenter implements it.
type Controller interface {
	OnThemeClicked()
	OnKeyPressed(key domain.Key) (handled, preventDefault bool)
}

// FrameSource publishes finished spectrum frames.
type FrameSource interface {
	Snapshot() *image.RGBA
}

// Model is the Bubble Tea model of the terminal player.
type Model struct {
	appName    string
	controller Controller
	view       *View
	frames     FrameSource

	state    viewState
	frame    *image.RGBA
	width    int
	quitting bool

	// The volume bar eases toward the real volume.
	volumeBar progress.Model
	spring    harmonica.Spring
	volumePos float64
	volumeVel float64
}

// NewModel creates the terminal model.
func NewModel(appName string, controller Controller, view *View, frames FrameSource) Model {
	bar := progress.New(
		progress.WithScaledGradient("#00FF00", "#FF0000"),
		progress.WithoutPercentage(),
	)
	state := view.snapshot()
	return Model{
		appName:    appName,
		controller: controller,
		view:       view,
		frames:     frames,
		state:      state,
		width:      defaultWidth,
		volumeBar:  bar,
		spring:     harmonica.NewSpring(harmonica.FPS(tickFPS), 6.0, 0.8),
		volumePos:  state.volume,
	}
}

// Init starts the redraw tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), tea.SetWindowTitle(m.appName))
}

// Update handles key presses, ticks and resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isQuit(msg) {
			m.quitting = true
			return m, tea.Quit
		}
		if isThemeToggle(msg) {
			m.controller.OnThemeClicked()
		} else if key, ok := playerKey(msg); ok {
			m.controller.OnKeyPressed(key)
		}
		m.state = m.view.snapshot()
		return m, nil

	case tickMsg:
		m.state = m.view.snapshot()
		m.frame = m.frames.Snapshot()
		m.volumePos, m.volumeVel = m.spring.Update(m.volumePos, m.volumeVel, m.state.volume)
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	}

	return m, nil
}

// View renders the player.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	w := m.width
	if w < 30 {
		w = defaultWidth
	}
	preset := m.state.preset
	muted := mutedStyle(preset)

	var lines []string
	lines = append(lines, "", "  "+headerStyle.Render(m.appName)+"  "+preset.Glyph, "")

	title := m.state.title
	if title == "" {
		title = "-"
	}
	lines = append(lines, "  "+titleStyle.Render(title))
	if m.state.notice {
		lines = append(lines, "  "+noticeStyle.Render("Autoplay was blocked. Press space to start the music."))
	}
	lines = append(lines, "")

	if spectrum := renderFrame(m.frame, w-4, spectrumRows, preset.Background); spectrum != "" {
		for _, row := range strings.Split(spectrum, "\n") {
			lines = append(lines, "  "+row)
		}
		lines = append(lines, "")
	}

	volumeText := fmt.Sprintf("vol %3.0f%%", m.state.volume*100)
	bar := m.volumeBar
	bar.Width = max(w-len(volumeText)-12, minVolumeWidth)
	status := fmt.Sprintf("  %s   %s %s", domain.PlayPauseGlyph(m.state.playing), bar.ViewAs(domain.ClampVolume(m.volumePos)), volumeText)
	lines = append(lines, status, "", "  "+muted.Render(helpText()), "")

	return screenStyle(preset, w).Render(strings.Join(lines, "\n"))
}
