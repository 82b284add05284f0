package core

import "time"

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and to pace the simulation.
type RuntimeConfig struct {
	ScreenW       int           // Screen width in characters
	ScreenH       int           // Screen height in characters
	TickRate      int           // Render ticks per second
	EnemyPeriod   time.Duration // Simulated time between enemy steps
	InitialRadius int           // Starting light radius
	HeroHealth    int           // Starting hero health
	HUDHeight     int           // Rows reserved above the map
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:       80,
		ScreenH:       24,
		TickRate:      10,
		EnemyPeriod:   100 * time.Millisecond,
		InitialRadius: 1,
		HeroHealth:    3,
		HUDHeight:     2,
	}
}

// TickDuration returns the simulated time covered by one tick.
func (c RuntimeConfig) TickDuration() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 10
	}
	return time.Second / time.Duration(c.TickRate)
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Kills so far
	Ticks    int  // Ticks played
	GameOver bool // Whether the game has ended
	Won      bool // Whether it ended in victory
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
