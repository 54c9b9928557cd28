package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

//go:embed defaults/server.yaml
var defaultServerYAML []byte

// DefaultPort is used when neither the config, PORT nor a flag sets one.
const DefaultPort = 8000

// DefaultRunnerConfig returns the default game loop configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		FrameRate: 60,
		World: WorldConfig{
			Width:      800,
			Height:     240,
			GroundY:    220,
			ReferenceX: 0,
		},
		Player: PlayerConfig{
			X:      80,
			Width:  40,
			Height: 40,
		},
		Obstacle: ObstacleConfig{
			Width:  40,
			Height: 40,
		},
		Jump: JumpConfig{
			Frames: 36,
			Height: 110,
		},
		StartSpeed: 15,
		Sprites: map[string]Sprite{
			"character-1.svg": {Name: "Runner", Glyph: "@", Color: "yellow"},
			"obstacle-1.svg":  {Name: "Car", Glyph: "▓", Color: "red"},
			"character-2.svg": {Name: "Chomper", Glyph: "C", Color: "yellow"},
			"obstacle-2.svg":  {Name: "Ghost", Glyph: "Ω", Color: "cyan"},
		},
	}
}

// DefaultServerConfig returns the default record server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port: DefaultPort,
		Store: StoreConfig{
			Kind: "file",
			Path: "~/.jumpgame/record.txt",
		},
		Speed: SpeedConfig{Min: 15, Max: 37},
		Pairings: []PairingSpec{
			{Character: "character-1.svg", Obstacle: "obstacle-1.svg"},
			{Character: "character-2.svg", Obstacle: "obstacle-2.svg"},
		},
	}
}
