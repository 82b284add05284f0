package core

import (
	"errors"
	"fmt"
)

// ErrInvalidMap is returned when a tile map cannot be constructed.
var ErrInvalidMap = errors.New("invalid tile map")

// TileMap is an immutable grid of tile types with walkability rules.
// Tiles are stored in row-major order: index = y*width + x.
type TileMap struct {
	width    int
	height   int
	tileSize int
	tiles    []TileID
	free     map[TileID]struct{}
	finish   TileID
}

// NewTileMap builds a tile map from a row-major tile slice.
// free lists the walkable tile types and finish is the tile type that wins
// the level. The tile slice is copied.
func NewTileMap(width, height, tileSize int, tiles []TileID, free []TileID, finish TileID) (*TileMap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidMap, width, height)
	}
	if tileSize <= 0 {
		return nil, fmt.Errorf("%w: tile size %d", ErrInvalidMap, tileSize)
	}
	if len(tiles) != width*height {
		return nil, fmt.Errorf("%w: expected %d tiles, got %d", ErrInvalidMap, width*height, len(tiles))
	}

	m := &TileMap{
		width:    width,
		height:   height,
		tileSize: tileSize,
		tiles:    make([]TileID, len(tiles)),
		free:     make(map[TileID]struct{}, len(free)),
		finish:   finish,
	}
	copy(m.tiles, tiles)
	for _, id := range free {
		m.free[id] = struct{}{}
	}
	return m, nil
}

// Width returns the number of columns.
func (m *TileMap) Width() int {
	return m.width
}

// Height returns the number of rows.
func (m *TileMap) Height() int {
	return m.height
}

// TileSize returns the edge length of a tile in pixels.
func (m *TileMap) TileSize() int {
	return m.tileSize
}

// InBounds returns true if the position lies on the grid.
func (m *TileMap) InBounds(p Position) bool {
	return p.X >= 0 && p.X < m.width && p.Y >= 0 && p.Y < m.height
}

// TileAt returns the tile type at p. ok is false for out-of-bounds positions.
func (m *TileMap) TileAt(p Position) (id TileID, ok bool) {
	if !m.InBounds(p) {
		return 0, false
	}
	return m.tiles[p.Y*m.width+p.X], true
}

// IsFree reports whether an actor may stand on p.
// Positions outside the grid are never free.
func (m *TileMap) IsFree(p Position) bool {
	id, ok := m.TileAt(p)
	if !ok {
		return false
	}
	_, free := m.free[id]
	return free
}

// IsFinish reports whether p holds the finish tile.
func (m *TileMap) IsFinish(p Position) bool {
	id, ok := m.TileAt(p)
	return ok && id == m.finish
}

// Positions returns every grid position in row-major order.
func (m *TileMap) Positions() []Position {
	out := make([]Position, 0, m.width*m.height)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			out = append(out, P(x, y))
		}
	}
	return out
}
