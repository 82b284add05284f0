package core

import (
	"fmt"
	"image"
)

// Layer orders draw commands; lower layers are drawn first.
type Layer uint8

const (
	LayerMap Layer = iota
	LayerHero
	LayerLights
	LayerEnemies
)

// DrawCommand asks the renderer to blit Image with its top-left corner at
// pixel (X, Y).
type DrawCommand struct {
	Layer Layer
	Image image.Image
	X, Y  int
}

// SpriteSource supplies the images a session is drawn with.
type SpriteSource interface {
	Tile(id TileID) (image.Image, error)
	Hero(f Frame) (image.Image, error)
	Enemy(kind string, f Frame) (image.Image, error)
	Light() (image.Image, error)
}

// DrawCommands builds the frame in z-order: map tiles, hero, lights, enemies.
// Everything except the hero is passed through the visibility filter keyed by
// its own cell. Killed enemies and collected lights are omitted.
// filter may be nil, in which case images are filtered without caching.
func (s *Session) DrawCommands(src SpriteSource, filter *VisibilityFilter) ([]DrawCommand, error) {
	viewer := s.hero.Pos
	cmds := make([]DrawCommand, 0, s.m.Width()*s.m.Height()+1+len(s.lights)+len(s.enemies))

	for _, p := range s.m.Positions() {
		id, _ := s.m.TileAt(p)
		img, err := src.Tile(id)
		if err != nil {
			return nil, fmt.Errorf("tile %d at %v: %w", id, p, err)
		}
		key := SpriteKey{Layer: LayerMap, Tile: id}
		cmds = append(cmds, s.place(LayerMap, filter.Apply(key, img, p, viewer, s.radius), p))
	}

	heroImg, err := src.Hero(s.hero.Frame)
	if err != nil {
		return nil, fmt.Errorf("hero sprite: %w", err)
	}
	cmds = append(cmds, s.place(LayerHero, heroImg, s.hero.Pos))

	for _, l := range s.lights {
		if !l.Alive {
			continue
		}
		img, err := src.Light()
		if err != nil {
			return nil, fmt.Errorf("light sprite: %w", err)
		}
		key := SpriteKey{Layer: LayerLights}
		cmds = append(cmds, s.place(LayerLights, filter.Apply(key, img, l.Pos, viewer, s.radius), l.Pos))
	}

	for _, e := range s.enemies {
		if !e.Alive {
			continue
		}
		img, err := src.Enemy(e.Kind, e.Frame)
		if err != nil {
			return nil, fmt.Errorf("enemy %d sprite: %w", e.ID, err)
		}
		key := SpriteKey{Layer: LayerEnemies, Kind: e.Kind, Frame: e.Frame}
		cmds = append(cmds, s.place(LayerEnemies, filter.Apply(key, img, e.Pos, viewer, s.radius), e.Pos))
	}

	return cmds, nil
}

// place centres img on the cell at p. Sprites larger than a tile overhang
// evenly on each side.
func (s *Session) place(layer Layer, img image.Image, p Position) DrawCommand {
	size := s.m.TileSize()
	b := img.Bounds()
	dx := (b.Dx() - size) / 2
	dy := (b.Dy() - size) / 2
	return DrawCommand{
		Layer: layer,
		Image: img,
		X:     p.X*size - dx,
		Y:     p.Y*size - dy,
	}
}

// FrameSize returns the pixel size of the whole map.
func (s *Session) FrameSize() (w, h int) {
	return s.m.Width() * s.m.TileSize(), s.m.Height() * s.m.TileSize()
}
