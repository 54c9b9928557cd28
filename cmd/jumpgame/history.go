package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/jumpgame/internal/core"
	"github.com/vovakirdan/jumpgame/internal/platform/tui"
	"github.com/vovakirdan/jumpgame/internal/storage"
)

var (
	flagHistoryLimit int
	flagPlain        bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recent runs",
	Long: `Show the most recent reported sessions. Only the sqlite store keeps
a history; the file and memory stores hold the best record alone.

Examples:
  jumpgame history --store sqlite --record ~/.jumpgame/records.db
  jumpgame history --plain --limit 5`,
	Run: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 50, "Number of runs to show")
	historyCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a plain table instead of the interactive view")
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg := loadServerConfig()
	store := openStore(cfg)
	defer store.Close()

	hs, ok := store.(storage.HistoryStore)
	if !ok {
		store.Close()
		fatalf("the %q store keeps no history; use --store sqlite", cfg.Store.Kind)
	}

	ctx := context.Background()
	entries, err := hs.History(ctx, flagHistoryLimit)
	if err != nil {
		store.Close()
		fatalf("cannot read history: %v", err)
	}
	best, err := hs.Best(ctx)
	if err != nil {
		store.Close()
		fatalf("cannot read record: %v", err)
	}

	if !flagPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunHistory(entries, best, width, height); err != nil {
			store.Close()
			fatalf("%v", err)
		}
		return
	}

	fmt.Printf("Recent runs - Best Record: %s\n", core.FormatClock(best))
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	fmt.Printf("  %-6s  %-6s  %-6s  %-16s  %s\n", "#", "Time", "Best", "Date", "Session")
	fmt.Printf("  %-6s  %-6s  %-6s  %-16s  %s\n", "-", "----", "----", "----", "-------")
	for _, e := range entries {
		session := e.SessionID
		if session == "" {
			session = "-"
		}
		fmt.Printf("  %-6d  %-6s  %-6s  %-16s  %s\n",
			e.ID,
			core.FormatClock(e.Seconds),
			core.FormatClock(e.BestAfter),
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			session,
		)
	}
}
