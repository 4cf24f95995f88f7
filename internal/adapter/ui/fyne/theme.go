package fyne

import (
	"image/color"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
)

// playerTheme overrides the background and text colors of the default theme
// with the colors of a day/night preset.
type playerTheme struct {
	preset domain.ThemePreset
}

func newPlayerTheme(preset domain.ThemePreset) fyneapp.Theme {
	return &playerTheme{preset: preset}
}

// Color implements fyne.Theme.
func (t *playerTheme) Color(name fyneapp.ThemeColorName, variant fyneapp.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return t.preset.Background
	case theme.ColorNameForeground:
		return t.preset.Foreground
	}
	return theme.DefaultTheme().Color(name, t.variant())
}

// variant keeps the stock colors readable against the preset background.
func (t *playerTheme) variant() fyneapp.ThemeVariant {
	if t.preset.Theme == domain.ThemeDay {
		return theme.VariantLight
	}
	return theme.VariantDark
}

// Font implements fyne.Theme.
func (t *playerTheme) Font(style fyneapp.TextStyle) fyneapp.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon implements fyne.Theme.
func (t *playerTheme) Icon(name fyneapp.ThemeIconName) fyneapp.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size implements fyne.Theme.
func (t *playerTheme) Size(name fyneapp.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}
