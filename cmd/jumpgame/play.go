package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/jumpgame/internal/backend"
	"github.com/vovakirdan/jumpgame/internal/client"
	"github.com/vovakirdan/jumpgame/internal/config"
	"github.com/vovakirdan/jumpgame/internal/core"
	"github.com/vovakirdan/jumpgame/internal/games/runner"
	"github.com/vovakirdan/jumpgame/internal/platform/tui"
)

var (
	flagServerURL string
	flagFPS       int
	flagLogFile   string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Play the game in this terminal.

Without --server the game runs against the local record store; with
--server it talks to a running 'jumpgame serve' over HTTP and shares
its best record.

Controls:
  Enter        - Start (or restart after a collision)
  Space/Up/W   - Jump
  I            - New images
  ?            - Toggle help
  Ctrl+S       - Screenshot
  Q/Ctrl+C     - Quit

Examples:
  jumpgame play
  jumpgame play --server http://localhost:8000
  jumpgame play --runner-config ./my-runner.yaml --fps 30`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagServerURL, "server", "", "Record server URL (default: local store)")
	playCmd.Flags().StringVar(&flagRunnerConfig, "runner-config", "", "Path to game config YAML")
	playCmd.Flags().IntVar(&flagFPS, "fps", 0, "Frames per second (default from game config)")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "~/.jumpgame/jumpgame.log", "Where to write logs while playing")
}

func runPlay(cmd *cobra.Command, _ []string) {
	rc, err := config.LoadRunner(flagRunnerConfig)
	if err != nil {
		fatalf("%v", err)
	}
	if flagFPS > 0 {
		rc.FrameRate = flagFPS
	}

	logger, closeLog := playLogger(flagLogFile)
	defer closeLog()

	var be runner.Backend
	if flagServerURL != "" {
		be = client.New(client.Config{BaseURL: flagServerURL})
	} else {
		cfg := loadServerConfig()
		store := openStore(cfg)
		defer store.Close()

		local, err := backend.New(cfg, store, seed())
		if err != nil {
			fatalf("%v", err)
		}
		be = local
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:       width,
		ScreenH:       height,
		FrameInterval: time.Second / time.Duration(rc.FrameRate),
	}

	if err := tui.Run(runner.New(rc), be, cfg, logger); err != nil {
		fatalf("%v", err)
	}
}

// playLogger writes to a file so log lines do not tear the alt screen.
func playLogger(path string) (*log.Logger, func()) {
	discard := func() {}
	expanded, err := config.ExpandHome(path)
	if err != nil || expanded == "" {
		return log.New(io.Discard), discard
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return log.New(io.Discard), discard
	}
	f, err := os.OpenFile(expanded, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		return log.New(io.Discard), discard
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "jumpgame",
	})
	return logger, func() { f.Close() }
}
