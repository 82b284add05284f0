// Package config provides YAML-based game configuration loading and
// difficulty presets for Labyrinth.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-labyrinth/internal/core"
)

// LabyrinthConfig contains all tunable settings for the game.
type LabyrinthConfig struct {
	Timing  TimingConfig  `yaml:"timing"`
	Session SessionConfig `yaml:"session"`
	Render  RenderConfig  `yaml:"render"`
}

// TimingConfig controls simulation pacing.
type TimingConfig struct {
	TickRate      int `yaml:"tick_rate"`       // Render ticks per second
	EnemyPeriodMS int `yaml:"enemy_period_ms"` // Simulated ms between enemy steps
}

// SessionConfig sets the starting conditions of every level.
type SessionConfig struct {
	InitialRadius int `yaml:"initial_radius"`
	HeroHealth    int `yaml:"hero_health"`
}

// RenderConfig controls the terminal layout.
type RenderConfig struct {
	HUDHeight int `yaml:"hud_height"` // Rows reserved above the map, at least 1
}

// EnemyPeriod returns the enemy step period as a duration.
func (c LabyrinthConfig) EnemyPeriod() time.Duration {
	return time.Duration(c.Timing.EnemyPeriodMS) * time.Millisecond
}

// Validate reports settings the game cannot run with.
func (c LabyrinthConfig) Validate() error {
	switch {
	case c.Timing.TickRate <= 0 || c.Timing.TickRate > 120:
		return fmt.Errorf("config: tick_rate must be in 1..120, got %d", c.Timing.TickRate)
	case c.Timing.EnemyPeriodMS <= 0:
		return fmt.Errorf("config: enemy_period_ms must be positive, got %d", c.Timing.EnemyPeriodMS)
	case c.Session.InitialRadius <= 0:
		return fmt.Errorf("config: initial_radius must be positive, got %d", c.Session.InitialRadius)
	case c.Session.HeroHealth <= 0:
		return fmt.Errorf("config: hero_health must be positive, got %d", c.Session.HeroHealth)
	case c.Render.HUDHeight < 1:
		return fmt.Errorf("config: hud_height must be at least 1, got %d", c.Render.HUDHeight)
	}
	return nil
}

// withDefaults fills zero fields from the hardcoded defaults so partial
// config files only need to list what they change.
func (c LabyrinthConfig) withDefaults() LabyrinthConfig {
	d := DefaultLabyrinthConfig()
	if c.Timing.TickRate == 0 {
		c.Timing.TickRate = d.Timing.TickRate
	}
	if c.Timing.EnemyPeriodMS == 0 {
		c.Timing.EnemyPeriodMS = d.Timing.EnemyPeriodMS
	}
	if c.Session.InitialRadius == 0 {
		c.Session.InitialRadius = d.Session.InitialRadius
	}
	if c.Session.HeroHealth == 0 {
		c.Session.HeroHealth = d.Session.HeroHealth
	}
	if c.Render.HUDHeight == 0 {
		c.Render.HUDHeight = d.Render.HUDHeight
	}
	return c
}

// Runtime converts the config into the settings passed to a game.
func (c LabyrinthConfig) Runtime(screenW, screenH int) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:       screenW,
		ScreenH:       screenH,
		TickRate:      c.Timing.TickRate,
		EnemyPeriod:   c.EnemyPeriod(),
		InitialRadius: c.Session.InitialRadius,
		HeroHealth:    c.Session.HeroHealth,
		HUDHeight:     c.Render.HUDHeight,
	}
}
