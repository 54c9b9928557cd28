package runner

// DefaultLeadFrames is how many frames ahead of contact the autopilot jumps.
const DefaultLeadFrames = 6

// Autopilot plays the game without a keyboard: it jumps when the obstacle
// will reach the character within a few frames. It is meant to be called
// once per frame, after the frame has run.
type Autopilot struct {
	game       *Game
	leadFrames int
	giveUpAt   int // elapsed seconds after which it stops jumping, 0 = never
}

// NewAutopilot creates an autopilot for game. leadFrames <= 0 selects
// DefaultLeadFrames; giveUpAt > 0 lets the session end after that many seconds.
func NewAutopilot(game *Game, leadFrames, giveUpAt int) *Autopilot {
	if leadFrames <= 0 {
		leadFrames = DefaultLeadFrames
	}
	return &Autopilot{game: game, leadFrames: leadFrames, giveUpAt: giveUpAt}
}

// Step jumps if the obstacle is close enough and reports whether it did.
func (a *Autopilot) Step() bool {
	s := a.game.Session()
	if s == nil || !s.Active() || s.AwaitingSpeed() || a.game.Airborne() {
		return false
	}
	if a.giveUpAt > 0 && s.Elapsed() >= a.giveUpAt {
		return false
	}

	gap := a.game.ObstacleRect().X - a.game.CharacterRect().Right()
	step := int(s.Speed())
	if gap <= 0 || step <= 0 || gap > step*a.leadFrames {
		return false
	}
	a.game.Jump()
	return true
}
