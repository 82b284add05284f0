// Package core provides the simulation core of the Labyrinth game: the tile
// map, enemy patrol planning, the fog-of-war visibility filter, the actors and
// the per-tick session state machine.
// This package is UI-agnostic and deterministic.
package core

import "fmt"

// TileID identifies a tile type in a level's tileset.
type TileID int

// Position is a cell on the tile grid.
// X increases to the right, Y increases downward (screen coordinates).
type Position struct {
	X int
	Y int
}

// P is a convenience constructor for Position.
func P(x, y int) Position {
	return Position{X: x, Y: y}
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns a new Position offset by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Step returns the neighbouring position n cells away in direction d.
func (p Position) Step(d Dir, n int) Position {
	dx, dy := d.Delta()
	return p.Add(dx*n, dy*n)
}

// Chebyshev returns the chessboard distance to another position.
func (p Position) Chebyshev(other Position) int {
	return max(abs(p.X-other.X), abs(p.Y-other.Y))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Dir is one of the four axis directions.
type Dir uint8

const (
	DirEast Dir = iota
	DirWest
	DirSouth
	DirNorth
)

// String returns the string representation of a direction.
func (d Dir) String() string {
	switch d {
	case DirEast:
		return "east"
	case DirWest:
		return "west"
	case DirSouth:
		return "south"
	case DirNorth:
		return "north"
	default:
		return "unknown"
	}
}

// Delta returns the (dx, dy) offset for one step in this direction.
func (d Dir) Delta() (dx, dy int) {
	switch d {
	case DirEast:
		return 1, 0
	case DirWest:
		return -1, 0
	case DirSouth:
		return 0, 1
	case DirNorth:
		return 0, -1
	default:
		return 0, 0
	}
}

// Frame selects between the two sprite frames every actor carries.
type Frame uint8

const (
	FrameIdle Frame = iota
	FrameDamaged
)

// String returns the frame name.
func (f Frame) String() string {
	if f == FrameDamaged {
		return "damaged"
	}
	return "idle"
}

// State is the session state machine position.
type State uint8

const (
	StatePlaying State = iota
	StateWon
	StateLost
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state ends the session.
func (s State) Terminal() bool {
	return s == StateWon || s == StateLost
}

// Intent is the player's request for a single tick.
// DX and DY are clamped to [-1, 1]; both may be set for a diagonal step.
type Intent struct {
	DX, DY int
	Attack bool
}

// Moving reports whether the intent requests a position change.
func (in Intent) Moving() bool {
	return in.DX != 0 || in.DY != 0
}

// normalized clamps the movement components to single steps.
func (in Intent) normalized() Intent {
	in.DX = max(-1, min(1, in.DX))
	in.DY = max(-1, min(1, in.DY))
	return in
}
