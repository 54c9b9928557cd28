package core

import (
	"fmt"
	"time"
)

// RuntimeConfig contains configuration passed to the game at initialization.
type RuntimeConfig struct {
	ScreenW       int           // Screen width in characters
	ScreenH       int           // Screen height in characters
	FrameInterval time.Duration // Time between animation frames
}

// GameState is a snapshot of the game as seen by a platform.
type GameState struct {
	Running  bool // A session is in progress
	Collided bool // The current or last session ended in a collision
	Elapsed  int  // Survival seconds of the current session
	Best     int  // Last known all-time best
}

// FormatClock renders a number of seconds as zero-padded "mm:ss".
// Minutes are not capped at 59.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
