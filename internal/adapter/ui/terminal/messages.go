package terminal

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type tickMsg time.Time

const (
	tickFPS      = 20
	tickInterval = time.Second / tickFPS
)

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
