package core

// EnemySnapshot captures one enemy's observable state.
type EnemySnapshot struct {
	X, Y   int
	Health int
	Alive  bool
}

// Snapshot captures the complete session state for determinism testing.
type Snapshot struct {
	Tick       uint64
	State      State
	HeroX      int
	HeroY      int
	HeroHealth int
	Radius     int
	EnemyStep  int
	Enemies    []EnemySnapshot
	LightsLeft int
}

// Snapshot returns the current session snapshot.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:       s.tick,
		State:      s.state,
		HeroX:      s.hero.Pos.X,
		HeroY:      s.hero.Pos.Y,
		HeroHealth: s.hero.Health,
		Radius:     s.radius,
		EnemyStep:  s.enemyStep,
		Enemies:    make([]EnemySnapshot, len(s.enemies)),
		LightsLeft: len(s.lights) - s.LightsCollected(),
	}
	for i, e := range s.enemies {
		snap.Enemies[i] = EnemySnapshot{X: e.Pos.X, Y: e.Pos.Y, Health: e.Health, Alive: e.Alive}
	}
	return snap
}

// Equal returns true if two snapshots describe the same state.
func (a Snapshot) Equal(b Snapshot) bool {
	if a.Tick != b.Tick || a.State != b.State || a.HeroX != b.HeroX || a.HeroY != b.HeroY ||
		a.HeroHealth != b.HeroHealth || a.Radius != b.Radius || a.EnemyStep != b.EnemyStep ||
		a.LightsLeft != b.LightsLeft || len(a.Enemies) != len(b.Enemies) {
		return false
	}
	for i := range a.Enemies {
		if a.Enemies[i] != b.Enemies[i] {
			return false
		}
	}
	return true
}
