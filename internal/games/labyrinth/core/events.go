package core

// EventKind identifies something that happened during a tick.
type EventKind uint8

const (
	EventHeroMoved EventKind = iota
	EventMoveBlocked
	EventEnemyDamaged
	EventEnemyKilled
	EventEnemiesAdvanced
	EventLightCollected
	EventHeroDamaged
	EventWon
	EventLost
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventHeroMoved:
		return "hero_moved"
	case EventMoveBlocked:
		return "move_blocked"
	case EventEnemyDamaged:
		return "enemy_damaged"
	case EventEnemyKilled:
		return "enemy_killed"
	case EventEnemiesAdvanced:
		return "enemies_advanced"
	case EventLightCollected:
		return "light_collected"
	case EventHeroDamaged:
		return "hero_damaged"
	case EventWon:
		return "won"
	case EventLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Event records a single state change.
// Index is the enemy or light slot involved, or -1.
type Event struct {
	Kind  EventKind
	Pos   Position
	Index int
}

// StepResult contains information about what happened during a tick.
type StepResult struct {
	Tick   uint64
	State  State
	Events []Event
}

// Has returns true if an event of the given kind occurred.
func (r StepResult) Has(kind EventKind) bool {
	for _, e := range r.Events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Count returns how many events of the given kind occurred.
func (r StepResult) Count(kind EventKind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
