package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jumpgame/internal/client"
	"github.com/vovakirdan/jumpgame/internal/core"
	"github.com/vovakirdan/jumpgame/internal/games/runner"
)

// Rows below the playfield: status line and help bar.
const footerRows = 2

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the Bubble Tea model for one player's game.
type Model struct {
	game       *runner.Game
	backend    runner.Backend
	screen     *core.Screen
	config     core.RuntimeConfig
	keys       KeyMap
	help       help.Model
	logger     *log.Logger
	inputFrame core.InputFrame
	status     string
	statusErr  bool
	quitting   bool
}

// NewModel creates a model that plays game against backend.
func NewModel(game *runner.Game, backend runner.Backend, cfg core.RuntimeConfig, logger *log.Logger) Model {
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = time.Second / time.Duration(game.Config().FrameRate)
	}
	if logger == nil {
		logger = log.Default()
	}
	h := help.New()
	h.ShowAll = false

	return Model{
		game:       game,
		backend:    backend,
		screen:     core.NewScreen(cfg.ScreenW, playRows(cfg.ScreenH)),
		config:     cfg,
		keys:       DefaultKeyMap(),
		help:       h,
		logger:     logger,
		inputFrame: core.NewInputFrame(),
	}
}

func playRows(height int) int {
	return core.Max(height-footerRows, 1)
}

// Init starts the frame clock and loads the first pairing and best record.
func (m Model) Init() tea.Cmd {
	cmds := m.effects(m.game.Boot())
	cmds = append(cmds, frameCmd(m.config.FrameInterval))
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, playRows(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case frameMsg:
		return m.handleFrame()

	case secondMsg:
		return m.handleSecond(msg)

	case speedMsg:
		if msg.err != nil {
			m.fail("speed request failed", msg.err)
			m.game.SpeedFailed(msg.session)
			return m, nil
		}
		m.game.SetSpeed(msg.session, msg.speed)
		return m, nil

	case pairingMsg:
		if msg.err != nil {
			m.fail("pairing request failed", msg.err)
			return m, nil
		}
		m.game.SetPairing(msg.pairing)
		return m, nil

	case recordMsg:
		return m.handleRecord(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+s"))) {
		m.saveScreenshot()
		return m, nil
	}

	switch action := m.keys.MapKey(msg); action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionNone:
	default:
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleFrame applies buffered input and advances one animation frame.
func (m Model) handleFrame() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.inputFrame.Has(core.ActionStart) {
		if eff, ok := m.game.Start(); ok {
			m.status, m.statusErr = "", false
			cmds = append(cmds, m.effects(eff)...)
			cmds = append(cmds, secondCmd(eff.Session))
		}
	}
	if m.inputFrame.Has(core.ActionJump) {
		m.game.Jump()
	}
	if m.inputFrame.Has(core.ActionImages) {
		cmds = append(cmds, m.effects(m.game.RequestImages())...)
	}
	m.inputFrame.Clear()

	cmds = append(cmds, m.effects(m.game.Frame())...)
	cmds = append(cmds, frameCmd(m.config.FrameInterval))
	return m, tea.Batch(cmds...)
}

// handleSecond advances the survival clock. The chain stops once the
// session has reported or a newer session has started.
func (m Model) handleSecond(msg secondMsg) (tea.Model, tea.Cmd) {
	s := m.game.Session()
	if s == nil || s.ID() != msg.session || s.Reported() {
		return m, nil
	}

	eff := m.game.Tick()
	if eff.Report != nil {
		return m, sendReport(m.backend, eff.Report)
	}
	return m, secondCmd(msg.session)
}

func (m Model) handleRecord(msg recordMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		var se *client.StatusError
		if errors.As(msg.err, &se) && se.IsClientError() {
			m.fail("record rejected by server", msg.err)
		} else {
			m.fail("record request failed", msg.err)
		}
		return m, nil
	}
	m.game.SetBest(msg.best)
	if msg.report != nil {
		m.status = fmt.Sprintf("Survived %s", core.FormatClock(msg.report.Elapsed))
		m.statusErr = false
	}
	return m, nil
}

// effects turns a game step's requests into commands.
func (m Model) effects(eff runner.Effects) []tea.Cmd {
	var cmds []tea.Cmd
	if eff.FetchSpeed {
		cmds = append(cmds, fetchSpeed(m.backend, eff.Session))
	}
	if eff.FetchPairing {
		cmds = append(cmds, fetchPairing(m.backend))
	}
	if eff.FetchBest {
		cmds = append(cmds, fetchBest(m.backend))
	}
	if eff.Report != nil {
		cmds = append(cmds, sendReport(m.backend, eff.Report))
	}
	return cmds
}

func (m *Model) fail(what string, err error) {
	m.logger.Warn(what, "error", err)
	m.status = what
	m.statusErr = true
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".jumpgame", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("jump_%s.txt", time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	status := statusStyle.Render(m.status)
	if m.statusErr {
		status = errorStyle.Render(m.status)
	}
	return RenderScreen(m.screen) + "\n" + status + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Run starts the Bubble Tea program for game on the local terminal.
func Run(game *runner.Game, backend runner.Backend, cfg core.RuntimeConfig, logger *log.Logger) error {
	model := NewModel(game, backend, cfg, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
