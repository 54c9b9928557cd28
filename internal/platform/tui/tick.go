// Package tui provides the Bubble Tea front-end for the jump game. It maps
// keys to game actions, runs the frame and second clocks as tea.Ticks and
// turns the game's collaborator requests into commands.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// frameMsg advances the animation.
type frameMsg time.Time

// secondMsg advances the survival clock of one session.
type secondMsg struct {
	session string
}

// frameCmd schedules the next animation frame.
func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// secondCmd schedules the next survival tick for session.
func secondCmd(session string) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return secondMsg{session: session}
	})
}
