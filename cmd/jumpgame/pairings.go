package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/jumpgame/internal/backend"
)

var pairingsCmd = &cobra.Command{
	Use:   "pairings",
	Short: "List character/obstacle pairings",
	Long:  `Shows the image pairings /getImages chooses from and the speed range /speed draws from.`,
	Run:   runPairings,
}

func runPairings(cmd *cobra.Command, args []string) {
	cfg := loadServerConfig()
	if err := cfg.Validate(); err != nil {
		fatalf("%v", err)
	}

	// No store: only the selector and generator are inspected
	local, err := backend.New(cfg, nil, seed())
	if err != nil {
		fatalf("%v", err)
	}
	pairings := local.Selector.Pairings()

	fmt.Println("Configured pairings:")
	fmt.Println()

	// Calculate column widths
	maxLen := len("Character")
	for _, p := range pairings {
		if len(p.CharacterPath) > maxLen {
			maxLen = len(p.CharacterPath)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxLen, "Character", "Obstacle")
	fmt.Printf("  %-*s  %s\n", maxLen, "---------", "--------")
	for _, p := range pairings {
		fmt.Printf("  %-*s  %s\n", maxLen, p.CharacterPath, p.ObstaclePath)
	}

	lo, hi := local.Generator.Range()
	fmt.Println()
	fmt.Printf("Speeds are drawn from [%g, %g).\n", lo, hi)
}
