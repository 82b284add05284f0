package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSession is returned when a session cannot be created from a spec.
var ErrInvalidSession = errors.New("invalid session")

// Defaults used when SessionOptions fields are zero.
const (
	DefaultEnemyPeriod   = 100 * time.Millisecond
	DefaultInitialRadius = 1
	DefaultHeroHealth    = 3
)

// EnemySpec places one enemy at session start.
type EnemySpec struct {
	Pos    Position
	Kind   string
	Health int
}

// SessionSpec is the per-level actor layout.
type SessionSpec struct {
	Hero    Position
	Enemies []EnemySpec
	Lights  []Position
}

// SessionOptions tunes the simulation.
type SessionOptions struct {
	EnemyPeriod   time.Duration // simulated time between enemy steps
	InitialRadius int
	HeroHealth    int
}

// DefaultSessionOptions returns the standard tuning.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		EnemyPeriod:   DefaultEnemyPeriod,
		InitialRadius: DefaultInitialRadius,
		HeroHealth:    DefaultHeroHealth,
	}
}

func (o SessionOptions) withDefaults() SessionOptions {
	if o.EnemyPeriod <= 0 {
		o.EnemyPeriod = DefaultEnemyPeriod
	}
	if o.InitialRadius <= 0 {
		o.InitialRadius = DefaultInitialRadius
	}
	if o.HeroHealth <= 0 {
		o.HeroHealth = DefaultHeroHealth
	}
	return o
}

// Session is one playthrough of a level.
// It owns all mutable game state and is advanced only through Step.
type Session struct {
	m       *TileMap
	opts    SessionOptions
	hero    Hero
	enemies []Enemy
	lights  []Light
	radius  int
	state   State

	tick       uint64
	enemyStep  int           // patrol step index shared by all enemies
	enemyClock time.Duration // simulated time not yet spent on enemy steps
}

// NewSession creates a session and plans every enemy's patrol.
func NewSession(m *TileMap, spec SessionSpec, opts SessionOptions) (*Session, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil tile map", ErrInvalidSession)
	}
	if !m.InBounds(spec.Hero) {
		return nil, fmt.Errorf("%w: hero start %v outside %dx%d map", ErrInvalidSession, spec.Hero, m.Width(), m.Height())
	}
	opts = opts.withDefaults()

	s := &Session{
		m:       m,
		opts:    opts,
		hero:    Hero{Pos: spec.Hero, Health: opts.HeroHealth},
		enemies: make([]Enemy, 0, len(spec.Enemies)),
		lights:  make([]Light, 0, len(spec.Lights)),
		radius:  opts.InitialRadius,
		state:   StatePlaying,
	}

	for i, es := range spec.Enemies {
		if es.Health <= 0 {
			return nil, fmt.Errorf("%w: enemy %d has health %d", ErrInvalidSession, i, es.Health)
		}
		e := Enemy{
			ID:     i,
			Kind:   es.Kind,
			Pos:    es.Pos,
			Origin: es.Pos,
			Health: es.Health,
			Alive:  true,
		}
		if probe, ok := PlanPatrol(es.Pos, m); ok {
			e.Path = NewPatrolPath(es.Pos, probe)
		}
		s.enemies = append(s.enemies, e)
	}

	for i, pos := range spec.Lights {
		s.lights = append(s.lights, Light{ID: i, Pos: pos, Alive: true})
	}

	return s, nil
}

// Step advances the session by one tick of dt simulated time.
//
// Order within a tick:
//  1. reset the hero frame
//  2. resolve the intent (attack, then move)
//  3. advance enemies for every full enemy period accumulated
//  4. collect a light under the hero
//  5. damage the hero if it shares a cell with an enemy
//  6. evaluate win (first) and loss
//
// Once the session is won or lost only the tick counter changes.
func (s *Session) Step(in Intent, dt time.Duration) StepResult {
	s.tick++
	result := StepResult{Tick: s.tick}

	if s.state.Terminal() {
		result.State = s.state
		return result
	}

	s.hero.Frame = FrameIdle

	in = in.normalized()
	if in.Attack {
		s.attack(&result)
	}
	if in.Moving() {
		s.move(in, &result)
	}

	if dt > 0 {
		s.enemyClock += dt
	}
	for s.enemyClock >= s.opts.EnemyPeriod {
		s.enemyClock -= s.opts.EnemyPeriod
		s.advanceEnemies(&result)
	}

	s.collectLight(&result)
	s.collide(&result)
	s.evaluate(&result)

	result.State = s.state
	return result
}

// attack damages every living enemy adjacent to the hero, diagonals included.
func (s *Session) attack(result *StepResult) {
	for i := range s.enemies {
		e := &s.enemies[i]
		if !e.Alive || e.Pos.Chebyshev(s.hero.Pos) > 1 {
			continue
		}
		e.Frame = FrameDamaged
		killed := e.Damage()
		result.Events = append(result.Events, Event{Kind: EventEnemyDamaged, Pos: e.Pos, Index: i})
		if killed {
			result.Events = append(result.Events, Event{Kind: EventEnemyKilled, Pos: e.Pos, Index: i})
		}
	}
}

// move commits the requested step when the target cell is free.
func (s *Session) move(in Intent, result *StepResult) {
	next := s.hero.Pos.Add(in.DX, in.DY)
	if !s.m.IsFree(next) {
		result.Events = append(result.Events, Event{Kind: EventMoveBlocked, Pos: next, Index: -1})
		return
	}
	s.hero.Pos = next
	result.Events = append(result.Events, Event{Kind: EventHeroMoved, Pos: next, Index: -1})
}

// advanceEnemies moves every living enemy one patrol step.
func (s *Session) advanceEnemies(result *StepResult) {
	for i := range s.enemies {
		s.enemies[i].Advance(s.enemyStep)
	}
	s.enemyStep++
	result.Events = append(result.Events, Event{Kind: EventEnemiesAdvanced, Index: s.enemyStep - 1})
}

// collectLight consumes the first living light under the hero.
func (s *Session) collectLight(result *StepResult) {
	for i := range s.lights {
		l := &s.lights[i]
		if !l.Alive || l.Pos != s.hero.Pos {
			continue
		}
		l.Kill()
		s.radius++
		result.Events = append(result.Events, Event{Kind: EventLightCollected, Pos: l.Pos, Index: i})
		return
	}
}

// collide applies one point of damage if any living enemy shares the hero cell.
func (s *Session) collide(result *StepResult) {
	for i := range s.enemies {
		e := &s.enemies[i]
		if !e.Alive || e.Pos != s.hero.Pos {
			continue
		}
		s.hero.Frame = FrameDamaged
		s.hero.Damage()
		result.Events = append(result.Events, Event{Kind: EventHeroDamaged, Pos: s.hero.Pos, Index: i})
		return
	}
}

// evaluate checks terminal conditions. Reaching the finish wins even with no
// health left.
func (s *Session) evaluate(result *StepResult) {
	switch {
	case s.m.IsFinish(s.hero.Pos):
		s.state = StateWon
		result.Events = append(result.Events, Event{Kind: EventWon, Pos: s.hero.Pos, Index: -1})
	case s.hero.Dead():
		s.state = StateLost
		result.Events = append(result.Events, Event{Kind: EventLost, Pos: s.hero.Pos, Index: -1})
	}
}

// State returns the current state machine position.
func (s *Session) State() State {
	return s.state
}

// Tick returns the number of ticks stepped so far.
func (s *Session) Tick() uint64 {
	return s.tick
}

// Map returns the session's tile map.
func (s *Session) Map() *TileMap {
	return s.m
}

// Radius returns the current visibility radius.
func (s *Session) Radius() int {
	return s.radius
}

// Options returns the effective tuning.
func (s *Session) Options() SessionOptions {
	return s.opts
}

// Hero returns a copy of the hero.
func (s *Session) Hero() Hero {
	return s.hero
}

// Enemies returns a copy of all enemies, killed ones included.
func (s *Session) Enemies() []Enemy {
	out := make([]Enemy, len(s.enemies))
	copy(out, s.enemies)
	return out
}

// Lights returns a copy of all light pickups, collected ones included.
func (s *Session) Lights() []Light {
	out := make([]Light, len(s.lights))
	copy(out, s.lights)
	return out
}

// AliveEnemies returns the number of enemies still in play.
func (s *Session) AliveEnemies() int {
	n := 0
	for _, e := range s.enemies {
		if e.Alive {
			n++
		}
	}
	return n
}

// Kills returns the number of enemies killed.
func (s *Session) Kills() int {
	return len(s.enemies) - s.AliveEnemies()
}

// LightsCollected returns the number of pickups taken.
func (s *Session) LightsCollected() int {
	n := 0
	for _, l := range s.lights {
		if !l.Alive {
			n++
		}
	}
	return n
}
