// Package config provides YAML-based configuration for the game client and
// the record server.
package config

import (
	"errors"
	"fmt"
)

// RunnerConfig contains all configuration for the jump game loop.
// Geometry is expressed in world pixels; platforms scale it to their display.
type RunnerConfig struct {
	FrameRate  int               `yaml:"frame_rate"`
	World      WorldConfig       `yaml:"world"`
	Player     PlayerConfig      `yaml:"player"`
	Obstacle   ObstacleConfig    `yaml:"obstacle"`
	Jump       JumpConfig        `yaml:"jump"`
	StartSpeed float64           `yaml:"start_speed"` // Used until the first speed arrives from the server
	Sprites    map[string]Sprite `yaml:"sprites"`     // Keyed by image basename
}

// WorldConfig defines the playfield.
type WorldConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	GroundY    int `yaml:"ground_y"`    // Y of the ground line; sprites stand on it
	ReferenceX int `yaml:"reference_x"` // Obstacle loops back once its left edge reaches this line
}

// PlayerConfig defines the character's resting box.
type PlayerConfig struct {
	X      int `yaml:"x"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ObstacleConfig defines the obstacle's box at offset 0.
type ObstacleConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	StartX int `yaml:"start_x"` // 0 places the obstacle flush with the right edge
}

// JumpConfig defines the cosmetic jump arc.
type JumpConfig struct {
	Frames int `yaml:"frames"`
	Height int `yaml:"height"`
}

// Sprite is the terminal stand-in for an image path.
type Sprite struct {
	Name  string `yaml:"name"`
	Glyph string `yaml:"glyph"`
	Color string `yaml:"color"`
}

// ObstacleX returns the obstacle's resting left edge.
func (c RunnerConfig) ObstacleX() int {
	if c.Obstacle.StartX > 0 {
		return c.Obstacle.StartX
	}
	return c.World.Width - c.Obstacle.Width
}

// Validate reports the first inconsistency in the runner config.
func (c RunnerConfig) Validate() error {
	switch {
	case c.FrameRate <= 0:
		return errors.New("config: frame_rate must be positive")
	case c.World.Width <= 0 || c.World.Height <= 0:
		return errors.New("config: world size must be positive")
	case c.World.GroundY <= 0 || c.World.GroundY > c.World.Height:
		return fmt.Errorf("config: ground_y %d outside world height %d", c.World.GroundY, c.World.Height)
	case c.Player.Width <= 0 || c.Player.Height <= 0:
		return errors.New("config: player size must be positive")
	case c.Obstacle.Width <= 0 || c.Obstacle.Height <= 0:
		return errors.New("config: obstacle size must be positive")
	case c.World.ReferenceX >= c.Player.X:
		return fmt.Errorf("config: reference_x %d must be left of player x %d", c.World.ReferenceX, c.Player.X)
	case c.ObstacleX() <= c.Player.X+c.Player.Width:
		return errors.New("config: obstacle must start right of the player")
	case c.Jump.Frames <= 0:
		return errors.New("config: jump frames must be positive")
	}
	return nil
}

// ServerConfig contains the record server configuration.
type ServerConfig struct {
	Port      int           `yaml:"port"`
	PublicDir string        `yaml:"public_dir"` // Empty serves the embedded page
	Store     StoreConfig   `yaml:"store"`
	Speed     SpeedConfig   `yaml:"speed"`
	Pairings  []PairingSpec `yaml:"pairings"`
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Kind string `yaml:"kind"` // "file", "memory" or "sqlite"
	Path string `yaml:"path"`
}

// SpeedConfig is the half-open range obstacle speeds are drawn from.
type SpeedConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// PairingSpec is one row of the character/obstacle image table.
type PairingSpec struct {
	Character string `yaml:"character"`
	Obstacle  string `yaml:"obstacle"`
}

// Validate reports the first inconsistency in the server config.
func (c ServerConfig) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("config: invalid port %d", c.Port)
	case c.Speed.Min < 0 || c.Speed.Max <= c.Speed.Min:
		return fmt.Errorf("config: invalid speed range [%g, %g)", c.Speed.Min, c.Speed.Max)
	case len(c.Pairings) == 0:
		return errors.New("config: pairing table is empty")
	}
	for i, p := range c.Pairings {
		if p.Character == "" || p.Obstacle == "" {
			return fmt.Errorf("config: pairing %d has an empty path", i)
		}
	}
	return nil
}
