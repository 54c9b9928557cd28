package runner

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/jumpgame/internal/storage"
)

// Ticker is the part of time.Ticker the loop needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// NewRealTicker wraps time.NewTicker.
func NewRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Loop drives one Game with two goroutines: a frame task on the display
// interval and a second task on a one-second interval. Collaborator calls
// run inline in the task that asked for them, so a pending speed request
// suspends only the frame task.
type Loop struct {
	game      *Game
	backend   Backend
	logger    *log.Logger
	interval  time.Duration
	second    time.Duration
	newTicker func(time.Duration) Ticker
	onFrame   func()
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLogger sets the logger used for failed collaborator calls.
func WithLogger(l *log.Logger) LoopOption {
	return func(lp *Loop) { lp.logger = l }
}

// WithTicker replaces the ticker factory. The factory is called once with
// the frame interval and once with the second interval per session.
func WithTicker(f func(time.Duration) Ticker) LoopOption {
	return func(lp *Loop) { lp.newTicker = f }
}

// WithFrameHook calls f after every frame that did not end the session.
func WithFrameHook(f func()) LoopOption {
	return func(lp *Loop) { lp.onFrame = f }
}

// NewLoop creates a loop for game backed by backend.
func NewLoop(game *Game, backend Backend, opts ...LoopOption) *Loop {
	rate := game.Config().FrameRate
	if rate <= 0 {
		rate = 60
	}
	lp := &Loop{
		game:      game,
		backend:   backend,
		logger:    log.Default(),
		interval:  time.Second / time.Duration(rate),
		second:    time.Second,
		newTicker: NewRealTicker,
	}
	for _, opt := range opts {
		opt(lp)
	}
	return lp
}

// Result describes a finished session.
type Result struct {
	Session  string
	Elapsed  int
	Best     int
	Reported bool // false when the record store call failed
}

// Boot performs the game's boot effects.
func (lp *Loop) Boot(ctx context.Context) {
	lp.apply(ctx, lp.game.Boot())
}

// Run plays one session to its collision and returns once the time has been
// reported. It returns ErrSessionActive if a session is already running, or
// the context error if ctx ends first; a cancelled session is aborted
// unreported and the game can start again.
func (lp *Loop) Run(ctx context.Context) (Result, error) {
	eff, ok := lp.game.Start()
	if !ok {
		return Result{}, ErrSessionActive
	}
	if eff.Report != nil {
		// A previous session was never reported
		lp.report(ctx, eff.Report)
		eff.Report = nil
	}
	if eff.FetchPairing {
		lp.fetchPairing(ctx)
	}

	var result Result
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return lp.frames(gctx, eff)
	})
	g.Go(func() error {
		r, err := lp.seconds(gctx)
		result = r
		return err
	})

	if err := g.Wait(); err != nil {
		if result.Session == "" {
			// Cancelled before the report; free the game for the next Run
			lp.game.Abort(eff.Session)
			return Result{Session: eff.Session}, err
		}
		return result, err
	}
	return result, nil
}

func (lp *Loop) frames(ctx context.Context, first Effects) error {
	if first.FetchSpeed {
		lp.fetchSpeed(ctx, first.Session)
	}

	t := lp.newTicker(lp.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C():
			eff := lp.game.Frame()
			if eff.Collided {
				return nil
			}
			if eff.FetchSpeed {
				lp.fetchSpeed(ctx, eff.Session)
			}
		}
	}
}

func (lp *Loop) seconds(ctx context.Context) (Result, error) {
	t := lp.newTicker(lp.second)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-t.C():
			eff := lp.game.Tick()
			if eff.Report == nil {
				continue
			}
			best, ok := lp.report(ctx, eff.Report)
			return Result{
				Session:  eff.Report.Session,
				Elapsed:  eff.Report.Elapsed,
				Best:     best,
				Reported: ok,
			}, nil
		}
	}
}

// apply performs the non-session effects of a step.
func (lp *Loop) apply(ctx context.Context, eff Effects) {
	if eff.FetchPairing {
		lp.fetchPairing(ctx)
	}
	if eff.FetchBest {
		best, err := lp.backend.Best(ctx)
		if err != nil {
			lp.logger.Warn("best record unavailable", "error", err)
			return
		}
		lp.game.SetBest(best)
	}
}

func (lp *Loop) fetchSpeed(ctx context.Context, session string) {
	v, err := lp.backend.Speed(ctx)
	if err != nil {
		lp.logger.Warn("speed request failed, keeping previous speed", "session", session, "error", err)
		lp.game.SpeedFailed(session)
		return
	}
	lp.game.SetSpeed(session, v)
}

func (lp *Loop) fetchPairing(ctx context.Context) {
	p, err := lp.backend.Pairing(ctx)
	if err != nil {
		lp.logger.Warn("pairing request failed, keeping previous images", "error", err)
		return
	}
	lp.game.SetPairing(p)
}

func (lp *Loop) report(ctx context.Context, r *Report) (int, bool) {
	best, err := lp.backend.Report(storage.WithSessionID(ctx, r.Session), r.Elapsed)
	if err != nil {
		lp.logger.Error("record report failed", "session", r.Session, "elapsed", r.Elapsed, "error", err)
		return lp.game.Best(), false
	}
	lp.game.SetBest(best)
	lp.logger.Info("session reported", "session", r.Session, "elapsed", r.Elapsed, "best", best)
	return best, true
}
