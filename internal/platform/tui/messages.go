package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/jumpgame/internal/assets"
	"github.com/vovakirdan/jumpgame/internal/games/runner"
	"github.com/vovakirdan/jumpgame/internal/storage"
)

// requestTimeout bounds one collaborator call.
const requestTimeout = 5 * time.Second

type speedMsg struct {
	session string
	speed   float64
	err     error
}

type pairingMsg struct {
	pairing assets.Pairing
	err     error
}

// recordMsg carries the best record after a report, or after the boot read
// when report is nil.
type recordMsg struct {
	report *runner.Report
	best   int
	err    error
}

func fetchSpeed(b runner.Backend, session string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		v, err := b.Speed(ctx)
		return speedMsg{session: session, speed: v, err: err}
	}
}

func fetchPairing(b runner.Backend) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		p, err := b.Pairing(ctx)
		return pairingMsg{pairing: p, err: err}
	}
}

func fetchBest(b runner.Backend) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		best, err := b.Best(ctx)
		return recordMsg{best: best, err: err}
	}
}

func sendReport(b runner.Backend, r *runner.Report) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		best, err := b.Report(storage.WithSessionID(ctx, r.Session), r.Elapsed)
		return recordMsg{report: r, best: best, err: err}
	}
}
