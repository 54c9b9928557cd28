package storage

import (
	"context"
	"sync"
)

// Memory keeps the best record for the lifetime of the process.
type Memory struct {
	mu   sync.Mutex
	best int
}

// NewMemory creates a memory store seeded with initial (clamped to 0).
func NewMemory(initial int) *Memory {
	if initial < 0 {
		initial = 0
	}
	return &Memory{best: initial}
}

// Best returns the current best.
func (m *Memory) Best(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.best, nil
}

// Report applies max(best, candidate).
func (m *Memory) Report(_ context.Context, candidate int) (int, error) {
	if err := validCandidate(candidate); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if candidate > m.best {
		m.best = candidate
	}
	return m.best, nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
