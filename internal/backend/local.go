// Package backend serves the game loop from in-process collaborators, so
// SSH sessions and the server share one selector, generator and record store
// without an HTTP hop.
package backend

import (
	"context"

	"github.com/vovakirdan/jumpgame/internal/assets"
	"github.com/vovakirdan/jumpgame/internal/config"
	"github.com/vovakirdan/jumpgame/internal/speed"
	"github.com/vovakirdan/jumpgame/internal/storage"
)

// Local implements runner.Backend directly on top of the domain components.
type Local struct {
	Selector  *assets.Selector
	Generator *speed.Generator
	Store     storage.Store
}

// New builds the selector and generator described by cfg around store.
func New(cfg config.ServerConfig, store storage.Store, seed int64) (*Local, error) {
	table := make([]assets.Pairing, 0, len(cfg.Pairings))
	for _, p := range cfg.Pairings {
		table = append(table, assets.Pairing{CharacterPath: p.Character, ObstaclePath: p.Obstacle})
	}
	sel, err := assets.New(table, seed)
	if err != nil {
		return nil, err
	}
	gen, err := speed.New(cfg.Speed.Min, cfg.Speed.Max, seed+1)
	if err != nil {
		return nil, err
	}
	return &Local{Selector: sel, Generator: gen, Store: store}, nil
}

// Pairing picks a pairing.
func (l *Local) Pairing(ctx context.Context) (assets.Pairing, error) {
	if err := ctx.Err(); err != nil {
		return assets.Pairing{}, err
	}
	return l.Selector.Pick(), nil
}

// Speed draws a speed.
func (l *Local) Speed(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return l.Generator.Next(), nil
}

// Report hands seconds to the record store.
func (l *Local) Report(ctx context.Context, seconds int) (int, error) {
	return l.Store.Report(ctx, seconds)
}

// Best reads the record store.
func (l *Local) Best(ctx context.Context) (int, error) {
	return l.Store.Best(ctx)
}
