package runner

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Session is the state shared by the frame task and the second task.
// Every field can be read atomically from any goroutine; transitions that
// read and then write (advance, tick) hold mu so a collision latched by one
// task is never followed by movement or counting from the other.
type Session struct {
	id string

	mu        sync.Mutex
	offset    atomic.Int64  // obstacle displacement from its start, <= 0
	speedBits atomic.Uint64 // float64 bits
	elapsed   atomic.Int64
	active    atomic.Bool // re-entrancy guard, cleared on collision
	collided  atomic.Bool
	awaiting  atomic.Bool // a speed request is in flight
	reported  atomic.Bool
}

func newSession(speed float64) *Session {
	s := &Session{id: uuid.NewString()}
	s.setSpeed(speed)
	s.active.Store(true)
	return s
}

// ID identifies the session in reports and history.
func (s *Session) ID() string { return s.id }

// Offset returns the obstacle's horizontal displacement.
func (s *Session) Offset() int { return int(s.offset.Load()) }

// Speed returns the current obstacle speed.
func (s *Session) Speed() float64 { return floatFromBits(s.speedBits.Load()) }

// Elapsed returns the survival seconds counted so far.
func (s *Session) Elapsed() int { return int(s.elapsed.Load()) }

// Active reports whether the session still blocks a new start.
func (s *Session) Active() bool { return s.active.Load() }

// Collided reports whether a collision has been latched.
func (s *Session) Collided() bool { return s.collided.Load() }

// AwaitingSpeed reports whether obstacle motion is suspended for a speed request.
func (s *Session) AwaitingSpeed() bool { return s.awaiting.Load() }

// Reported reports whether the final time has been handed off.
func (s *Session) Reported() bool { return s.reported.Load() }

func (s *Session) setSpeed(v float64) { s.speedBits.Store(floatBits(v)) }

// latch marks the collision and releases the start guard.
func (s *Session) latch() {
	s.collided.Store(true)
	s.active.Store(false)
}

func floatBits(v float64) uint64 { return math.Float64bits(v) }

func floatFromBits(b uint64) float64 { return math.Float64frombits(b) }
