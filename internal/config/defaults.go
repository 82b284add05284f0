package config

import (
	_ "embed"
)

//go:embed defaults/labyrinth.yaml
var defaultLabyrinthYAML []byte

// DefaultLabyrinthConfig returns the hardcoded default configuration.
// It matches defaults/labyrinth.yaml and is used when the embedded file
// cannot be parsed.
func DefaultLabyrinthConfig() LabyrinthConfig {
	return LabyrinthConfig{
		Timing: TimingConfig{
			TickRate:      10,
			EnemyPeriodMS: 100,
		},
		Session: SessionConfig{
			InitialRadius: 1,
			HeroHealth:    3,
		},
		Render: RenderConfig{
			HUDHeight: 2,
		},
	}
}
