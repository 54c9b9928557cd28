package runner

import "sync"

// jumper tracks overlapping cosmetic jumps. Each jump runs its own arc for a
// fixed number of frames; the character is lifted by the highest one.
type jumper struct {
	mu     sync.Mutex
	frames int
	height int
	now    int   // frames elapsed since creation
	starts []int // frame each active jump began on
}

func newJumper(frames, height int) *jumper {
	return &jumper{frames: frames, height: height}
}

func (j *jumper) trigger() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.starts = append(j.starts, j.now)
}

// step advances one frame and drops finished jumps.
func (j *jumper) step() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.now++
	live := j.starts[:0]
	for _, s := range j.starts {
		if j.now-s < j.frames {
			live = append(live, s)
		}
	}
	j.starts = live
}

// lift returns the current upward offset in world pixels.
func (j *jumper) lift() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	best := 0
	for _, s := range j.starts {
		if h := arc(j.now-s, j.frames, j.height); h > best {
			best = h
		}
	}
	return best
}

func (j *jumper) active() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.starts)
}

// arc is a parabola through 0 at frame 0 and frames, peaking at height.
func arc(frame, frames, height int) int {
	if frame <= 0 || frame >= frames {
		return 0
	}
	p := float64(frame) / float64(frames)
	return int(4*p*(1-p)*float64(height) + 0.5)
}
