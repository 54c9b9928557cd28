package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/jumpgame/internal/client"
	"github.com/vovakirdan/jumpgame/internal/core"
	"github.com/vovakirdan/jumpgame/internal/storage"
)

var recordCmd = &cobra.Command{
	Use:   "record [seconds]",
	Short: "Show or report the best record",
	Long: `Without arguments, print the best survival time. With a number of
seconds, report it the way a finished session would and print the best
record afterwards.

Examples:
  jumpgame record
  jumpgame record 42
  jumpgame record 42 --server http://localhost:8000`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRecord,
}

func init() {
	recordCmd.Flags().StringVar(&flagServerURL, "server", "", "Record server URL (default: local store)")
}

// recorder is the record half of a backend.
type recorder interface {
	Best(ctx context.Context) (int, error)
	Report(ctx context.Context, seconds int) (int, error)
}

func recordBackend() (recorder, func()) {
	if flagServerURL != "" {
		return client.New(client.Config{BaseURL: flagServerURL}), func() {}
	}
	store := openStore(loadServerConfig())
	return store, func() { store.Close() }
}

func runRecord(cmd *cobra.Command, args []string) {
	rec, closeRec := recordBackend()
	defer closeRec()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if len(args) == 0 {
		best, err := rec.Best(ctx)
		if err != nil {
			closeRec()
			fatalf("cannot read record: %v", err)
		}
		fmt.Printf("Best Record: %s (%d s)\n", core.FormatClock(best), best)
		return
	}

	seconds, err := storage.ParseSeconds(args[0])
	if err != nil {
		closeRec()
		fatalf("%v", err)
	}

	ctx = storage.WithSessionID(ctx, uuid.NewString())
	best, err := rec.Report(ctx, seconds)
	if err != nil {
		closeRec()
		fatalf("cannot report record: %v", err)
	}
	if best == seconds && seconds > 0 {
		fmt.Printf("New best record: %s\n", core.FormatClock(best))
		return
	}
	fmt.Printf("Reported %s; best record is %s\n", core.FormatClock(seconds), core.FormatClock(best))
}
