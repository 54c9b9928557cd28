package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/jumpgame/internal/backend"
	"github.com/vovakirdan/jumpgame/internal/client"
	"github.com/vovakirdan/jumpgame/internal/config"
	"github.com/vovakirdan/jumpgame/internal/core"
	"github.com/vovakirdan/jumpgame/internal/games/runner"
)

var (
	flagBotSessions int
	flagBotLead     int
	flagBotGiveUp   int
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Play headless sessions with an autopilot",
	Long: `Run the game without a terminal UI. An autopilot jumps whenever the
obstacle gets close, and each session's survival time is reported like a
human player's would be. Handy for exercising a record server.

Examples:
  jumpgame bot --sessions 3
  jumpgame bot --server http://localhost:8000 --give-up 10`,
	Run: runBot,
}

func init() {
	botCmd.Flags().StringVar(&flagServerURL, "server", "", "Record server URL (default: local store)")
	botCmd.Flags().StringVar(&flagRunnerConfig, "runner-config", "", "Path to game config YAML")
	botCmd.Flags().IntVar(&flagBotSessions, "sessions", 1, "Number of sessions to play")
	botCmd.Flags().IntVar(&flagBotLead, "lead", runner.DefaultLeadFrames, "Jump this many frames before contact")
	botCmd.Flags().IntVar(&flagBotGiveUp, "give-up", 5, "Stop jumping after this many seconds (0 = never)")
}

func runBot(cmd *cobra.Command, _ []string) {
	rc, err := config.LoadRunner(flagRunnerConfig)
	if err != nil {
		fatalf("%v", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "jumpgame-bot",
	})

	var be runner.Backend
	if flagServerURL != "" {
		c := client.New(client.Config{BaseURL: flagServerURL})
		logger.Info("playing against server", "url", c.BaseURL())
		be = c
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

	game := runner.New(rc)
	pilot := runner.NewAutopilot(game, flagBotLead, flagBotGiveUp)
	loop := runner.NewLoop(game, be,
		runner.WithLogger(logger),
		runner.WithFrameHook(func() { pilot.Step() }),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop.Boot(ctx)
	for i := 1; i <= flagBotSessions; i++ {
		res, err := loop.Run(ctx)
		if errors.Is(err, context.Canceled) {
			fmt.Println("Interrupted.")
			return
		}
		if err != nil {
			fatalf("%v", err)
		}

		p := game.Pairing()
		status := "reported"
		if !res.Reported {
			status = "not reported"
		}
		fmt.Printf("  %2d  %s  %-28s  best %s  (%s)\n",
			i,
			core.FormatClock(res.Elapsed),
			p.CharacterPath+" vs "+p.ObstaclePath,
			core.FormatClock(res.Best),
			status,
		)
	}
}
