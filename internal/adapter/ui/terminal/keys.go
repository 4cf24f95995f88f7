package terminal

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
)

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func isThemeToggle(msg tea.KeyMsg) bool {
	return msg.String() == "t"
}

// playerKey maps a key press to a bound player key.
func playerKey(msg tea.KeyMsg) (domain.Key, bool) {
	switch msg.String() {
	case " ":
		return domain.KeySpace, true
	case "left":
		return domain.KeyLeft, true
	case "right":
		return domain.KeyRight, true
	case "up":
		return domain.KeyUp, true
	case "down":
		return domain.KeyDown, true
	}
	return "", false
}

func helpText() string {
	return "space play/pause  ←/→ track  ↑/↓ volume  t theme  q quit"
}
