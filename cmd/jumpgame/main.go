// jumpgame is a jump-over-the-obstacle game with a tiny record server.
//
// Usage:
//
//	jumpgame serve              - Start the HTTP server (and optionally SSH play)
//	jumpgame play               - Play in this terminal
//	jumpgame record [seconds]   - Show or report the best record
//	jumpgame history            - Browse recent runs (sqlite store)
//	jumpgame pairings           - List the character/obstacle pairings
//	jumpgame bot                - Play headless sessions with an autopilot
//
// Global flags:
//
//	--config <path>  - Server config YAML (default: search ~/.jumpgame/configs, ./configs)
//	--store <kind>   - Record store: file, sqlite or memory
//	--record <path>  - Record store location
//	--seed <value>   - RNG seed for pairings and speeds
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/jumpgame/internal/config"
	"github.com/vovakirdan/jumpgame/internal/storage"
)

var (
	// Global flags
	flagConfig     string
	flagStoreKind  string
	flagRecordPath string
	flagSeed       int64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "jumpgame",
	Short: "Jump Game - jump over the obstacle for as long as you can",
	Long: `Jump Game slides an obstacle toward your character; press Space to jump
over it. Your survival time is reported to a record server that keeps the
best time ever played.

Available commands:
  serve     - Start the record server (HTTP, optional SSH)
  play      - Play in this terminal
  record    - Show or report the best record
  history   - Browse recent runs
  pairings  - List character/obstacle pairings
  bot       - Play headless sessions with an autopilot

Examples:
  jumpgame serve
  PORT=9000 jumpgame serve --ssh :23234
  jumpgame play --server http://localhost:8000
  jumpgame record`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to server config YAML")
	rootCmd.PersistentFlags().StringVar(&flagStoreKind, "store", "", "Record store kind: file, sqlite, memory (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagRecordPath, "record", "", "Record store path (default from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(pairingsCmd)
	rootCmd.AddCommand(botCmd)
}

// fatalf prints an error and exits.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadServerConfig loads the server config and applies the global overrides.
func loadServerConfig() config.ServerConfig {
	cfg, err := config.LoadServer(flagConfig)
	if err != nil {
		fatalf("%v", err)
	}
	if flagStoreKind != "" {
		cfg.Store.Kind = flagStoreKind
	}
	if flagRecordPath != "" {
		cfg.Store.Path = flagRecordPath
	}
	return cfg
}

// openStore opens the record store named by cfg.
func openStore(cfg config.ServerConfig) storage.Store {
	store, err := storage.Open(cfg.Store.Kind, cfg.Store.Path)
	if err != nil {
		fatalf("cannot open record store: %v", err)
	}
	return store
}

func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}
