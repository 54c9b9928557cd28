// Package storage holds the best survival time: a single non-negative integer
// that only ever grows.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/vovakirdan/jumpgame/internal/config"
)

var (
	// ErrInvalidRecord is returned for a negative candidate. The store is not touched.
	ErrInvalidRecord = errors.New("storage: record must be a non-negative integer")

	// ErrStorage wraps every failure of the durable medium.
	ErrStorage = errors.New("storage: record medium unavailable")
)

// Store is the best-record holder shared by the server and local play.
type Store interface {
	// Best returns the stored best survival time in seconds.
	Best(ctx context.Context) (int, error)

	// Report persists max(stored, candidate) and returns it.
	Report(ctx context.Context, candidate int) (int, error)

	// Close releases the underlying medium.
	Close() error
}

// HistoryStore is implemented by backends that keep every report.
type HistoryStore interface {
	Store
	History(ctx context.Context, limit int) ([]RecordEntry, error)
}

// RecordEntry is one reported session.
type RecordEntry struct {
	ID        int64
	SessionID string
	Seconds   int
	BestAfter int
	CreatedAt time.Time
}

// Backend kinds accepted by Open.
const (
	KindFile   = "file"
	KindMemory = "memory"
	KindSQLite = "sqlite"
)

// Open creates the store selected by kind. path is ignored for memory stores
// and may start with ~.
func Open(kind, path string) (Store, error) {
	if kind != KindMemory {
		expanded, err := config.ExpandHome(path)
		if err != nil {
			return nil, err
		}
		path = expanded
	}

	switch kind {
	case KindFile, "":
		return OpenFile(path)
	case KindMemory:
		return NewMemory(0), nil
	case KindSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("storage: unknown store kind %q", kind)
	}
}

// storageErr tags err as a medium failure while keeping the cause inspectable.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// secondsPattern accepts "0" or a decimal without leading zeros or sign.
var secondsPattern = regexp.MustCompile(`^(0|[1-9][0-9]*)$`)

// ParseSeconds parses a reported survival time in its wire form. Anything
// else, including values that overflow int, wraps ErrInvalidRecord.
func ParseSeconds(raw string) (int, error) {
	if !secondsPattern.MatchString(raw) {
		return 0, fmt.Errorf("%w: got %q", ErrInvalidRecord, raw)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidRecord, raw)
	}
	return n, nil
}

func validCandidate(candidate int) error {
	if candidate < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidRecord, candidate)
	}
	return nil
}
