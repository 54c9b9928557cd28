package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/vovakirdan/jumpgame/internal/config"
	"github.com/vovakirdan/jumpgame/internal/storage"
)

func TestLocal(t *testing.T) {
	store := storage.NewMemory(10)
	l, err := New(config.DefaultServerConfig(), store, 7)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	p, err := l.Pairing(ctx)
	if err != nil {
		t.Fatalf("Pairing() error = %v", err)
	}
	found := false
	for _, row := range l.Selector.Pairings() {
		if row == p {
			found = true
		}
	}
	if !found {
		t.Errorf("Pairing() = %+v, not in the table", p)
	}

	for i := 0; i < 100; i++ {
		v, err := l.Speed(ctx)
		if err != nil {
			t.Fatalf("Speed() error = %v", err)
		}
		if v < 15 || v >= 37 {
			t.Fatalf("Speed() = %v, expected [15, 37)", v)
		}
	}

	if best, _ := l.Report(ctx, 4); best != 10 {
		t.Errorf("Report(4) = %d, expected 10", best)
	}
	if best, _ := l.Report(ctx, 12); best != 12 {
		t.Errorf("Report(12) = %d, expected 12", best)
	}
	if best, _ := l.Best(ctx); best != 12 {
		t.Errorf("Best() = %d, expected 12", best)
	}
	if _, err := l.Report(ctx, -1); !errors.Is(err, storage.ErrInvalidRecord) {
		t.Errorf("Report(-1) error = %v, expected ErrInvalidRecord", err)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	store := storage.NewMemory(0)

	empty := config.DefaultServerConfig()
	empty.Pairings = nil
	if _, err := New(empty, store, 1); err == nil {
		t.Error("New() with no pairings should fail")
	}

	inverted := config.DefaultServerConfig()
	inverted.Speed.Min, inverted.Speed.Max = 37, 15
	if _, err := New(inverted, store, 1); err == nil {
		t.Error("New() with an inverted speed range should fail")
	}
}

func TestCancelledContext(t *testing.T) {
	l, err := New(config.DefaultServerConfig(), storage.NewMemory(0), 1)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.Speed(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Speed() error = %v, expected context.Canceled", err)
	}
	if _, err := l.Pairing(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Pairing() error = %v, expected context.Canceled", err)
	}
}
