package core_test

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/core"
)

func TestTileMapOutOfBoundsNeverFree(t *testing.T) {
	m := openMap(t, 5, 4)

	tests := []struct {
		name string
		pos  core.Position
	}{
		{"left of grid", core.P(-1, 0)},
		{"above grid", core.P(0, -1)},
		{"right edge (exclusive)", core.P(5, 0)},
		{"bottom edge (exclusive)", core.P(0, 4)},
		{"far away", core.P(1000, 1000)},
		{"negative corner", core.P(-3, -3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if m.IsFree(tc.pos) {
				t.Errorf("IsFree(%v) = true, expected false", tc.pos)
			}
			if m.IsFinish(tc.pos) {
				t.Errorf("IsFinish(%v) = true, expected false", tc.pos)
			}
			if _, ok := m.TileAt(tc.pos); ok {
				t.Errorf("TileAt(%v) reported ok for out-of-bounds position", tc.pos)
			}
		})
	}
}

func TestTileMapQueries(t *testing.T) {
	m := buildMap(t,
		"#####",
		"#..F#",
		"#####",
	)

	if m.Width() != 5 || m.Height() != 3 {
		t.Fatalf("expected 5x3, got %dx%d", m.Width(), m.Height())
	}
	if m.TileSize() != testTileSize {
		t.Errorf("TileSize() = %d, expected %d", m.TileSize(), testTileSize)
	}

	tests := []struct {
		pos    core.Position
		tile   core.TileID
		free   bool
		finish bool
	}{
		{core.P(0, 0), tileWall, false, false},
		{core.P(1, 1), tileFloor, true, false},
		{core.P(3, 1), tileFinish, true, true},
		{core.P(4, 1), tileWall, false, false},
	}

	for _, tc := range tests {
		id, ok := m.TileAt(tc.pos)
		if !ok || id != tc.tile {
			t.Errorf("TileAt(%v) = %d,%v expected %d,true", tc.pos, id, ok, tc.tile)
		}
		if m.IsFree(tc.pos) != tc.free {
			t.Errorf("IsFree(%v) = %v, expected %v", tc.pos, !tc.free, tc.free)
		}
		if m.IsFinish(tc.pos) != tc.finish {
			t.Errorf("IsFinish(%v) = %v, expected %v", tc.pos, !tc.finish, tc.finish)
		}
	}
}

func TestNewTileMapRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		w, h     int
		tileSize int
		tiles    int
	}{
		{"zero width", 0, 3, 4, 0},
		{"negative height", 3, -1, 4, 0},
		{"zero tile size", 2, 2, 0, 4},
		{"short grid", 3, 3, 4, 8},
		{"long grid", 3, 3, 4, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tiles := make([]core.TileID, tc.tiles)
			_, err := core.NewTileMap(tc.w, tc.h, tc.tileSize, tiles, nil, 0)
			if !errors.Is(err, core.ErrInvalidMap) {
				t.Errorf("expected ErrInvalidMap, got %v", err)
			}
		})
	}
}

func TestNewTileMapCopiesTiles(t *testing.T) {
	tiles := []core.TileID{tileFloor, tileFloor}
	m, err := core.NewTileMap(2, 1, 1, tiles, []core.TileID{tileFloor}, tileFinish)
	if err != nil {
		t.Fatalf("NewTileMap failed: %v", err)
	}

	tiles[0] = tileWall
	if !m.IsFree(core.P(0, 0)) {
		t.Error("tile map should not alias the caller's slice")
	}
}

func TestTileMapPositionsRowMajor(t *testing.T) {
	m := openMap(t, 3, 2)
	got := m.Positions()
	want := []core.Position{
		core.P(0, 0), core.P(1, 0), core.P(2, 0),
		core.P(0, 1), core.P(1, 1), core.P(2, 1),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d positions, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %v, expected %v", i, got[i], want[i])
		}
	}
}
