package terminal

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/lipgloss"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	noticeStyle = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.Color("#FFB000"))
)

// hexColor converts an RGBA color to a lipgloss color.
func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B))
}

// screenStyle paints the whole screen in the colors of a theme.
func screenStyle(preset domain.ThemePreset, width int) lipgloss.Style {
	style := lipgloss.NewStyle().
		Background(hexColor(preset.Background)).
		Foreground(hexColor(preset.Foreground))
	if width > 0 {
		style = style.Width(width)
	}
	return style
}

// mutedStyle is the dimmed text of a theme.
func mutedStyle(preset domain.ThemePreset) lipgloss.Style {
	c := preset.Foreground
	mix := func(a, b uint8) uint8 { return uint8((int(a) + int(b)) / 2) }
	dim := color.RGBA{
		R: mix(c.R, preset.Background.R),
		G: mix(c.G, preset.Background.G),
		B: mix(c.B, preset.Background.B),
		A: 255,
	}
	return lipgloss.NewStyle().Foreground(hexColor(dim))
}
