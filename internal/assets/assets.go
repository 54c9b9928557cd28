// Package assets picks the character/obstacle image pairing for a session.
package assets

import (
	"errors"
	"math/rand"
	"sync"
)

// Pairing is a matched character image and obstacle image.
type Pairing struct {
	CharacterPath string `json:"characterPath"`
	ObstaclePath  string `json:"obstaclePath"`
}

// Selector draws pairings uniformly from a fixed table.
type Selector struct {
	mu    sync.Mutex
	table []Pairing
	rng   *rand.Rand
}

// ErrEmptyTable is returned by New for a table with no rows.
var ErrEmptyTable = errors.New("assets: pairing table is empty")

// New creates a selector over a copy of table.
func New(table []Pairing, seed int64) (*Selector, error) {
	if len(table) == 0 {
		return nil, ErrEmptyTable
	}
	for _, p := range table {
		if p.CharacterPath == "" || p.ObstaclePath == "" {
			return nil, errors.New("assets: pairing with empty path")
		}
	}
	return &Selector{
		table: append([]Pairing(nil), table...),
		rng:   rand.New(rand.NewSource(seed)),
	}, nil
}

// Pick returns one pairing, every row equally likely.
func (s *Selector) Pick() Pairing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table[s.rng.Intn(len(s.table))]
}

// Pairings returns a copy of the table.
func (s *Selector) Pairings() []Pairing {
	return append([]Pairing(nil), s.table...)
}
