package core

// Hero is the player-controlled actor.
type Hero struct {
	Pos    Position
	Health int
	Frame  Frame
}

// Damage removes one point of health. Health never drops below zero.
func (h *Hero) Damage() {
	if h.Health > 0 {
		h.Health--
	}
}

// Dead reports whether the hero has no health left.
func (h *Hero) Dead() bool {
	return h.Health < 1
}

// Enemy is a patrolling actor the hero can attack.
// Killed enemies keep their slot and position but are skipped by
// patrol, collision, attack and drawing.
type Enemy struct {
	ID     int
	Kind   string // sprite family, e.g. "enemy1"
	Pos    Position
	Origin Position
	Health int
	Alive  bool
	Frame  Frame
	Path   PatrolPath // empty when no patrol direction qualified
}

// Patrols reports whether the enemy has a route to walk.
func (e *Enemy) Patrols() bool {
	return e.Path.Len() > 0
}

// Damage removes one point of health and kills the enemy at zero.
// Returns true if this hit killed it.
func (e *Enemy) Damage() bool {
	if !e.Alive {
		return false
	}
	e.Health--
	if e.Health <= 0 {
		e.Health = 0
		e.Kill()
		return true
	}
	return false
}

// Kill removes the enemy from play.
func (e *Enemy) Kill() {
	e.Alive = false
}

// Advance moves the enemy to patrol step i and clears the damaged frame.
// Stationary and dead enemies do not move.
func (e *Enemy) Advance(step int) {
	if !e.Alive {
		return
	}
	e.Frame = FrameIdle
	if pos, ok := e.Path.At(step); ok {
		e.Pos = pos
	}
}

// Light is a pickup that widens the hero's visibility radius.
type Light struct {
	ID    int
	Pos   Position
	Alive bool
}

// Kill removes the light from play.
func (l *Light) Kill() {
	l.Alive = false
}
