package runner

import "testing"

// playFrames runs n frames with the autopilot, answering speed requests with v.
func playFrames(g *Game, a *Autopilot, v float64, n int) (jumps int) {
	for i := 0; i < n; i++ {
		eff := g.Frame()
		if eff.Collided {
			return jumps
		}
		if eff.FetchSpeed {
			g.SetSpeed(eff.Session, v)
		}
		if a.Step() {
			jumps++
		}
	}
	return jumps
}

func TestAutopilotClearsObstacle(t *testing.T) {
	cfg := nearConfig()
	cfg.Obstacle.StartX = 400
	g := New(cfg)
	startWithSpeed(t, g, 20)
	a := NewAutopilot(g, 0, 0)

	if a.Step() {
		t.Fatal("Step() jumped with the obstacle far away")
	}

	jumps := playFrames(g, a, 20, 20)
	if jumps != 1 {
		t.Errorf("jumps = %d, expected 1", jumps)
	}
	if s := g.Session(); s.Collided() {
		t.Errorf("collided at offset %d", s.Offset())
	}
	if !g.Running() {
		t.Error("session ended while the autopilot was playing")
	}
}

func TestAutopilotGivesUp(t *testing.T) {
	cfg := nearConfig()
	cfg.Obstacle.StartX = 400
	g := New(cfg)
	startWithSpeed(t, g, 20)
	g.Tick()
	g.Tick()
	a := NewAutopilot(g, 0, 2)

	if jumps := playFrames(g, a, 20, 20); jumps != 0 {
		t.Errorf("jumps = %d after giving up, expected 0", jumps)
	}
	if !g.Session().Collided() {
		t.Error("session did not end once the autopilot gave up")
	}
}

func TestAutopilotIdle(t *testing.T) {
	g := New(nearConfig())
	if NewAutopilot(g, 0, 0).Step() {
		t.Error("Step() jumped with no session")
	}

	eff, _ := g.Start()
	if NewAutopilot(g, 0, 0).Step() {
		t.Error("Step() jumped while awaiting a speed")
	}
	g.SetSpeed(eff.Session, 40)
	if !NewAutopilot(g, 0, 0).Step() {
		t.Error("Step() did not jump with the obstacle 80px away at speed 40")
	}
	if !g.Airborne() {
		t.Error("Airborne() = false after a jump")
	}
}
