// Package runner implements the jump game: an obstacle slides toward the
// character, the player jumps over it, and the survival time is reported when
// they finally collide.
//
// The game is a pure state machine. It never calls the network itself;
// every step returns Effects naming the collaborator calls its driver must
// make (fetch a speed, fetch a pairing, report a time). Results are fed back
// through SetSpeed, SetPairing and SetBest.
package runner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/vovakirdan/jumpgame/internal/assets"
	"github.com/vovakirdan/jumpgame/internal/config"
	"github.com/vovakirdan/jumpgame/internal/core"
)

// Backend is the set of collaborators the game loop pulls from.
type Backend interface {
	Pairing(ctx context.Context) (assets.Pairing, error)
	Speed(ctx context.Context) (float64, error)
	Report(ctx context.Context, seconds int) (int, error)
	Best(ctx context.Context) (int, error)
}

// ErrSessionActive is returned by drivers when a start is ignored.
var ErrSessionActive = errors.New("runner: session already running")

// Report is a finished session's survival time awaiting the record store.
type Report struct {
	Session string
	Elapsed int
}

// Effects lists what the driver must do after a step.
type Effects struct {
	Session      string // Session the speed request belongs to
	FetchSpeed   bool
	FetchPairing bool
	FetchBest    bool
	Collided     bool    // The session has collided; the frame task stops
	Report       *Report // The second task stopped on this step
}

// Game holds the per-process game state. Safe for concurrent use by one
// frame driver, one second driver and any number of input sources.
type Game struct {
	cfg   config.RunnerConfig
	jumps *jumper

	session   atomic.Pointer[Session]
	lastSpeed atomic.Uint64 // float64 bits, carried across sessions
	started   atomic.Bool   // first start fetches no pairing
	shown     atomic.Int64  // seconds on the time display
	best      atomic.Int64

	mu      sync.RWMutex
	pairing assets.Pairing
}

// New creates a game in the Idle state.
func New(cfg config.RunnerConfig) *Game {
	g := &Game{
		cfg:   cfg,
		jumps: newJumper(cfg.Jump.Frames, cfg.Jump.Height),
	}
	g.storeLastSpeed(cfg.StartSpeed)
	return g
}

// Config returns the game configuration.
func (g *Game) Config() config.RunnerConfig {
	return g.cfg
}

// Boot asks for the first pairing and the current best record.
func (g *Game) Boot() Effects {
	return Effects{FetchPairing: true, FetchBest: true}
}

// Session returns the current or most recent session, or nil before the first start.
func (g *Game) Session() *Session {
	return g.session.Load()
}

// Running reports whether a session holds the start guard.
func (g *Game) Running() bool {
	s := g.session.Load()
	return s != nil && s.Active()
}

// Start begins a session. It returns false and no effects while a session is
// already active. A previous session that collided but whose time was never
// reported is finalized here and returned in Effects.Report.
func (g *Game) Start() (Effects, bool) {
	prev := g.session.Load()
	if prev != nil && prev.Active() {
		return Effects{}, false
	}

	var eff Effects
	if prev != nil {
		if r := g.finalize(prev); r != nil {
			eff.Report = r
		}
	}

	s := newSession(g.loadLastSpeed())
	s.awaiting.Store(true)
	if !g.session.CompareAndSwap(prev, s) {
		// Lost a race with a concurrent start
		return Effects{}, false
	}
	g.shown.Store(0)

	eff.Session = s.id
	eff.FetchSpeed = true
	eff.FetchPairing = g.started.Swap(true)
	return eff, true
}

// Jump lifts the character along its arc. Overlapping jumps are allowed.
func (g *Game) Jump() {
	g.jumps.trigger()
}

// RequestImages asks for a fresh pairing outside of a start.
func (g *Game) RequestImages() Effects {
	return Effects{FetchPairing: true}
}

// Frame runs one animation step.
func (g *Game) Frame() Effects {
	g.jumps.step()

	s := g.session.Load()
	if s == nil {
		return Effects{}
	}
	if s.Collided() {
		return Effects{Collided: true}
	}
	if !s.Active() {
		// Aborted
		return Effects{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collided.Load() || g.collides(s) {
		s.latch()
		return Effects{Collided: true}
	}
	if s.awaiting.Load() {
		return Effects{}
	}

	if g.cfg.ObstacleX()+s.Offset() > g.cfg.World.ReferenceX {
		// Speed is truncated per step, not accumulated as a real
		s.offset.Add(-int64(s.Speed()))
		return Effects{}
	}

	s.offset.Store(0)
	s.awaiting.Store(true)
	return Effects{Session: s.id, FetchSpeed: true}
}

// Tick runs one elapsed-time step.
func (g *Game) Tick() Effects {
	s := g.session.Load()
	if s == nil || s.Reported() {
		return Effects{}
	}

	s.mu.Lock()
	collided := s.collided.Load() || g.collides(s)
	if collided {
		s.latch()
	} else {
		g.shown.Store(s.elapsed.Add(1))
	}
	s.mu.Unlock()

	if !collided {
		return Effects{}
	}
	if r := g.finalize(s); r != nil {
		return Effects{Report: r}
	}
	return Effects{}
}

// finalize hands off the session's time exactly once and resets its counter.
func (g *Game) finalize(s *Session) *Report {
	if !s.Collided() || !s.reported.CompareAndSwap(false, true) {
		return nil
	}
	elapsed := int(s.elapsed.Swap(0))
	return &Report{Session: s.id, Elapsed: elapsed}
}

// Abort ends a session that has not collided without reporting it, releasing
// the start guard. Stale, finished or collided sessions are left alone; a
// collided one is still reported by the next Start.
func (g *Game) Abort(sessionID string) bool {
	s := g.session.Load()
	if s == nil || s.id != sessionID {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collided.Load() || !s.reported.CompareAndSwap(false, true) {
		return false
	}
	s.active.Store(false)
	s.awaiting.Store(false)
	return true
}

// Airborne reports whether a jump is in progress.
func (g *Game) Airborne() bool {
	return g.jumps.active() > 0
}

// SetSpeed resumes obstacle motion with v. Responses for stale sessions are dropped.
func (g *Game) SetSpeed(sessionID string, v float64) bool {
	s := g.session.Load()
	if s == nil || s.id != sessionID {
		return false
	}
	s.mu.Lock()
	s.setSpeed(v)
	s.awaiting.Store(false)
	s.mu.Unlock()
	g.storeLastSpeed(v)
	return true
}

// SpeedFailed resumes obstacle motion with the speed the session already had.
func (g *Game) SpeedFailed(sessionID string) {
	s := g.session.Load()
	if s == nil || s.id != sessionID {
		return
	}
	s.awaiting.Store(false)
}

// SetPairing replaces the displayed character and obstacle.
func (g *Game) SetPairing(p assets.Pairing) {
	g.mu.Lock()
	g.pairing = p
	g.mu.Unlock()
}

// Pairing returns the displayed character and obstacle.
func (g *Game) Pairing() assets.Pairing {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pairing
}

// SetBest records the all-time best returned by the record store.
func (g *Game) SetBest(best int) {
	if best >= 0 {
		g.best.Store(int64(best))
	}
}

// Best returns the last known all-time best.
func (g *Game) Best() int {
	return int(g.best.Load())
}

// TimeText is the survival clock as displayed.
func (g *Game) TimeText() string {
	return "Time: " + core.FormatClock(int(g.shown.Load()))
}

// BestText is the best record as displayed.
func (g *Game) BestText() string {
	return "Best Record: " + core.FormatClock(g.Best())
}

// State returns a snapshot for platforms.
func (g *Game) State() core.GameState {
	st := core.GameState{
		Elapsed: int(g.shown.Load()),
		Best:    g.Best(),
	}
	if s := g.session.Load(); s != nil {
		st.Running = s.Active()
		st.Collided = s.Collided()
	}
	return st
}

// CharacterRect is the character's box including the current jump lift.
func (g *Game) CharacterRect() core.Rect {
	p := g.cfg.Player
	base := core.NewRect(p.X, g.cfg.World.GroundY-p.Height, p.Width, p.Height)
	return base.Translate(0, -g.jumps.lift())
}

// ObstacleRect is the obstacle's box at the current offset.
func (g *Game) ObstacleRect() core.Rect {
	o := g.cfg.Obstacle
	offset := 0
	if s := g.session.Load(); s != nil {
		offset = s.Offset()
	}
	return core.NewRect(g.cfg.ObstacleX()+offset, g.cfg.World.GroundY-o.Height, o.Width, o.Height)
}

func (g *Game) collides(s *Session) bool {
	o := g.cfg.Obstacle
	obstacle := core.NewRect(g.cfg.ObstacleX()+s.Offset(), g.cfg.World.GroundY-o.Height, o.Width, o.Height)
	return g.CharacterRect().Intersects(obstacle)
}

func (g *Game) storeLastSpeed(v float64) {
	g.lastSpeed.Store(floatBits(v))
}

func (g *Game) loadLastSpeed() float64 {
	return floatFromBits(g.lastSpeed.Load())
}
