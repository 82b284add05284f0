package core_test

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/core"
)

// Tile types used by test maps.
const (
	tileWall   core.TileID = 1
	tileFloor  core.TileID = 2
	tileFinish core.TileID = 3
)

const testTileSize = 4

// tick is one render tick at 10 FPS.
const tick = 100 * time.Millisecond

// buildMap creates a tile map from glyph rows: '#' wall, '.' floor, 'F' finish.
func buildMap(t *testing.T, rows ...string) *core.TileMap {
	t.Helper()
	h := len(rows)
	w := len(rows[0])
	tiles := make([]core.TileID, 0, w*h)
	for y, row := range rows {
		if len(row) != w {
			t.Fatalf("row %d has width %d, expected %d", y, len(row), w)
		}
		for _, ch := range row {
			switch ch {
			case '#':
				tiles = append(tiles, tileWall)
			case 'F':
				tiles = append(tiles, tileFinish)
			default:
				tiles = append(tiles, tileFloor)
			}
		}
	}
	m, err := core.NewTileMap(w, h, testTileSize, tiles, []core.TileID{tileFloor, tileFinish}, tileFinish)
	if err != nil {
		t.Fatalf("NewTileMap failed: %v", err)
	}
	return m
}

// openMap returns a w x h map with no walls.
func openMap(t *testing.T, w, h int) *core.TileMap {
	t.Helper()
	rows := make([]string, h)
	for y := range rows {
		row := make([]byte, w)
		for x := range row {
			row[x] = '.'
		}
		rows[y] = string(row)
	}
	return buildMap(t, rows...)
}

func newSession(t *testing.T, m *core.TileMap, spec core.SessionSpec, opts core.SessionOptions) *core.Session {
	t.Helper()
	s, err := core.NewSession(m, spec, opts)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return s
}

func move(dx, dy int) core.Intent {
	return core.Intent{DX: dx, DY: dy}
}

var (
	idle   = core.Intent{}
	attack = core.Intent{Attack: true}
)
