package core

// PatrolLength is the number of cells a patrol probe covers.
const PatrolLength = 4

// patrolOrder is the fixed priority in which probe directions are tried.
var patrolOrder = [...]Dir{DirEast, DirWest, DirSouth, DirNorth}

// PlanPatrol finds the first straight line of PatrolLength free cells
// leading away from origin, trying east, west, south and north in that order.
// The returned probe excludes origin. ok is false when no direction qualifies,
// in which case the actor stays where it is.
func PlanPatrol(origin Position, m *TileMap) (probe []Position, ok bool) {
	if m == nil {
		return nil, false
	}
	for _, d := range patrolOrder {
		candidate := make([]Position, 0, PatrolLength)
		for i := 1; i <= PatrolLength; i++ {
			p := origin.Step(d, i)
			if !m.IsFree(p) {
				break
			}
			candidate = append(candidate, p)
		}
		if len(candidate) == PatrolLength {
			return candidate, true
		}
	}
	return nil, false
}

// PatrolPath is a back-and-forth route anchored at its origin.
type PatrolPath struct {
	points []Position
}

// NewPatrolPath returns the route origin followed by probe.
func NewPatrolPath(origin Position, probe []Position) PatrolPath {
	points := make([]Position, 0, len(probe)+1)
	points = append(points, origin)
	points = append(points, probe...)
	return PatrolPath{points: points}
}

// Len returns the number of positions on the route, origin included.
func (p PatrolPath) Len() int {
	return len(p.points)
}

// At returns the position for patrol step i.
// Even passes walk the route forward, odd passes walk it in reverse, so the
// sequence over 2*Len steps is origin..end, end..origin.
func (p PatrolPath) At(step int) (Position, bool) {
	n := len(p.points)
	if n == 0 {
		return Position{}, false
	}
	if step < 0 {
		step = 0
	}
	idx := step % n
	if (step/n)%2 == 1 {
		idx = n - 1 - idx
	}
	return p.points[idx], true
}
