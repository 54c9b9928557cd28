package runner

import (
	"path"
	"strings"

	"github.com/vovakirdan/jumpgame/internal/config"
	"github.com/vovakirdan/jumpgame/internal/core"
)

const (
	GroundChar    = '═'
	ReferenceChar = '┊'
	hudRows       = 2
)

var (
	fallbackCharacter = config.Sprite{Name: "Player", Glyph: "@", Color: "yellow"}
	fallbackObstacle  = config.Sprite{Name: "Obstacle", Glyph: "#", Color: "red"}
)

// Render draws the playfield scaled to dst with the HUD on the top rows.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if dst.Width() <= 0 || dst.Height() <= hudRows+1 {
		return
	}

	v := newViewport(g.cfg.World, dst.Width(), dst.Height())

	dst.DrawHLine(0, v.y(g.cfg.World.GroundY), dst.Width(), GroundChar, core.ColorGray)
	refX := v.x(g.cfg.World.ReferenceX)
	for y := hudRows; y < v.y(g.cfg.World.GroundY); y++ {
		dst.SetColored(refX, y, ReferenceChar, core.ColorGray)
	}

	p := g.Pairing()
	obstacle := g.sprite(p.ObstaclePath, fallbackObstacle)
	character := g.sprite(p.CharacterPath, fallbackCharacter)
	drawSprite(dst, v.rect(g.ObstacleRect()), obstacle)
	drawSprite(dst, v.rect(g.CharacterRect()), character)

	dst.DrawText(2, 0, g.TimeText())
	best := g.BestText()
	dst.DrawTextColored(dst.Width()-len(best)-2, 0, best, core.ColorCyan)
	dst.DrawTextColored(2, 1, character.Name+" vs "+obstacle.Name, core.ColorGray)

	st := g.State()
	switch {
	case st.Collided && !st.Running:
		g.drawCenteredMessage(dst, "OUCH!", "Press Enter to play again")
	case !st.Running:
		g.drawCenteredMessage(dst, "JUMP GAME", "Press Enter to start")
	}
}

func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	y := dst.Height() / 3
	if y < hudRows {
		y = hudRows
	}
	dst.DrawTextCentered(y, title, core.ColorBrightWhite)
	dst.DrawTextCentered(y+1, subtitle, core.ColorDefault)
}

// sprite looks up the terminal sprite for an image path by its basename.
func (g *Game) sprite(imagePath string, fallback config.Sprite) config.Sprite {
	if imagePath == "" {
		return fallback
	}
	sp, ok := g.cfg.Sprites[path.Base(imagePath)]
	if !ok {
		return fallback
	}
	if sp.Glyph == "" {
		sp.Glyph = fallback.Glyph
	}
	if sp.Name == "" {
		sp.Name = strings.TrimSuffix(path.Base(imagePath), path.Ext(imagePath))
	}
	return sp
}

func drawSprite(dst *core.Screen, r core.Rect, sp config.Sprite) {
	glyph := []rune(sp.Glyph)[0]
	dst.DrawRect(r, glyph, ColorByName(sp.Color))
}

// ColorByName maps a config color name to a screen color.
func ColorByName(name string) core.Color {
	switch strings.ToLower(name) {
	case "red":
		return core.ColorRed
	case "green":
		return core.ColorGreen
	case "yellow":
		return core.ColorYellow
	case "cyan":
		return core.ColorCyan
	case "gray", "grey":
		return core.ColorGray
	case "white":
		return core.ColorBrightWhite
	default:
		return core.ColorDefault
	}
}

// viewport maps world pixels to screen cells below the HUD.
type viewport struct {
	worldW, worldH int
	cols, rows     int
}

func newViewport(w config.WorldConfig, width, height int) viewport {
	return viewport{worldW: w.Width, worldH: w.Height, cols: width, rows: height - hudRows}
}

func (v viewport) x(px int) int {
	return px * v.cols / v.worldW
}

func (v viewport) y(py int) int {
	return hudRows + core.Clamp(py*v.rows/v.worldH, 0, v.rows-1)
}

func (v viewport) rect(r core.Rect) core.Rect {
	x0, x1 := v.x(r.X), v.x(r.Right())
	y0, y1 := v.y(r.Y), v.y(r.Bottom())
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return core.NewRect(x0, y0, x1-x0, y1-y0)
}
