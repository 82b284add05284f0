// Package assets provides the embedded pixel-art sprite atlas for Labyrinth.
package assets

import (
	_ "embed"
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/core"
)

// ErrSpriteNotFound is returned when the atlas has no sprite for a request.
var ErrSpriteNotFound = errors.New("sprite not found")

// Transparent is the palette value for fully transparent pixels.
const Transparent = "transparent"

//go:embed data/sprites.yaml
var defaultSprites []byte

// yamlFrames holds the two frames every actor carries.
type yamlFrames struct {
	Idle    []string `yaml:"idle"`
	Damaged []string `yaml:"damaged"`
}

// yamlAtlas represents the YAML structure for a sprite file.
type yamlAtlas struct {
	Size    int                   `yaml:"size"`
	Palette map[string]string     `yaml:"palette"`
	Tiles   map[int][]string      `yaml:"tiles"`
	Hero    yamlFrames            `yaml:"hero"`
	Enemies map[string]yamlFrames `yaml:"enemies"`
	Light   []string              `yaml:"light"`
	Health  []string              `yaml:"health"`
}

// Atlas holds decoded sprites. It is immutable after loading and safe to
// share between sessions.
type Atlas struct {
	size    int
	tiles   map[core.TileID]*image.NRGBA
	hero    [2]*image.NRGBA
	enemies map[string][2]*image.NRGBA
	light   *image.NRGBA
	health  *image.NRGBA
}

// Default decodes the sprites shipped with the binary.
func Default() (*Atlas, error) {
	return Parse(defaultSprites)
}

// Parse decodes a YAML sprite file.
func Parse(data []byte) (*Atlas, error) {
	var ya yamlAtlas
	if err := yaml.Unmarshal(data, &ya); err != nil {
		return nil, fmt.Errorf("assets: yaml unmarshal: %w", err)
	}

	pal, err := parsePalette(ya.Palette)
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}

	a := &Atlas{
		size:    ya.Size,
		tiles:   make(map[core.TileID]*image.NRGBA, len(ya.Tiles)),
		enemies: make(map[string][2]*image.NRGBA, len(ya.Enemies)),
	}
	if a.size <= 0 {
		return nil, fmt.Errorf("assets: size must be positive, got %d", a.size)
	}

	for id, rows := range ya.Tiles {
		img, err := decode(rows, pal)
		if err != nil {
			return nil, fmt.Errorf("assets: tile %d: %w", id, err)
		}
		if b := img.Bounds(); b.Dx() != a.size || b.Dy() != a.size {
			return nil, fmt.Errorf("assets: tile %d is %dx%d, expected %dx%d", id, b.Dx(), b.Dy(), a.size, a.size)
		}
		a.tiles[core.TileID(id)] = img
	}

	if a.hero, err = decodeFrames(ya.Hero, pal); err != nil {
		return nil, fmt.Errorf("assets: hero: %w", err)
	}
	for kind, frames := range ya.Enemies {
		decoded, err := decodeFrames(frames, pal)
		if err != nil {
			return nil, fmt.Errorf("assets: enemy %s: %w", kind, err)
		}
		a.enemies[kind] = decoded
	}
	if a.light, err = decode(ya.Light, pal); err != nil {
		return nil, fmt.Errorf("assets: light: %w", err)
	}
	if a.health, err = decode(ya.Health, pal); err != nil {
		return nil, fmt.Errorf("assets: health: %w", err)
	}

	return a, nil
}

// Size returns the tile edge length in pixels.
func (a *Atlas) Size() int {
	return a.size
}

// Tile returns the sprite for a map tile type.
func (a *Atlas) Tile(id core.TileID) (image.Image, error) {
	img, ok := a.tiles[id]
	if !ok {
		return nil, fmt.Errorf("%w: tile %d", ErrSpriteNotFound, id)
	}
	return img, nil
}

// Hero returns the hero sprite for frame f.
func (a *Atlas) Hero(f core.Frame) (image.Image, error) {
	return pick(a.hero, f, "hero")
}

// Enemy returns the sprite of an enemy kind for frame f.
func (a *Atlas) Enemy(kind string, f core.Frame) (image.Image, error) {
	frames, ok := a.enemies[kind]
	if !ok {
		return nil, fmt.Errorf("%w: enemy %q", ErrSpriteNotFound, kind)
	}
	return pick(frames, f, kind)
}

// Light returns the light pickup sprite.
func (a *Atlas) Light() (image.Image, error) {
	return a.light, nil
}

// Health returns the heart icon used by the HUD.
func (a *Atlas) Health() (image.Image, error) {
	return a.health, nil
}

// Check reports whether the atlas can draw a level: the tile size must
// match and every tile type and enemy kind needs a sprite.
func (a *Atlas) Check(tileSize int, tiles []core.TileID, kinds []string) error {
	if tileSize != a.size {
		return fmt.Errorf("assets: tile size %d, sprites are %d", tileSize, a.size)
	}

	var missingTiles []core.TileID
	for _, id := range tiles {
		if _, ok := a.tiles[id]; !ok && !slices.Contains(missingTiles, id) {
			missingTiles = append(missingTiles, id)
		}
	}
	if len(missingTiles) > 0 {
		slices.Sort(missingTiles)
		return fmt.Errorf("%w: tiles %v", ErrSpriteNotFound, missingTiles)
	}

	for _, kind := range kinds {
		if _, ok := a.enemies[kind]; !ok {
			return fmt.Errorf("%w: enemy %q", ErrSpriteNotFound, kind)
		}
	}
	return nil
}

func pick(frames [2]*image.NRGBA, f core.Frame, name string) (image.Image, error) {
	if int(f) >= len(frames) {
		return nil, fmt.Errorf("%w: %s frame %v", ErrSpriteNotFound, name, f)
	}
	return frames[f], nil
}

func parsePalette(raw map[string]string) (map[rune]color.NRGBA, error) {
	pal := make(map[rune]color.NRGBA, len(raw))
	for glyph, value := range raw {
		if utf8.RuneCountInString(glyph) != 1 {
			return nil, fmt.Errorf("palette key %q must be one character", glyph)
		}
		r, _ := utf8.DecodeRuneInString(glyph)

		if strings.EqualFold(value, Transparent) {
			pal[r] = color.NRGBA{}
			continue
		}
		c, err := colorful.Hex(value)
		if err != nil {
			return nil, fmt.Errorf("palette %q: %w", glyph, err)
		}
		cr, cg, cb := c.RGB255()
		pal[r] = color.NRGBA{R: cr, G: cg, B: cb, A: 255}
	}
	return pal, nil
}

func decodeFrames(yf yamlFrames, pal map[rune]color.NRGBA) ([2]*image.NRGBA, error) {
	var out [2]*image.NRGBA
	var err error
	if out[core.FrameIdle], err = decode(yf.Idle, pal); err != nil {
		return out, fmt.Errorf("idle: %w", err)
	}
	if out[core.FrameDamaged], err = decode(yf.Damaged, pal); err != nil {
		return out, fmt.Errorf("damaged: %w", err)
	}
	return out, nil
}

// decode turns glyph rows into an image. Rows must be non-empty and equal width.
func decode(rows []string, pal map[rune]color.NRGBA) (*image.NRGBA, error) {
	if len(rows) == 0 {
		return nil, errors.New("no rows")
	}
	w := utf8.RuneCountInString(rows[0])
	if w == 0 {
		return nil, errors.New("empty row")
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, len(rows)))
	for y, row := range rows {
		glyphs := []rune(row)
		if len(glyphs) != w {
			return nil, fmt.Errorf("row %d has width %d, expected %d", y, len(glyphs), w)
		}
		for x, g := range glyphs {
			c, ok := pal[g]
			if !ok {
				return nil, fmt.Errorf("glyph %q at (%d,%d) not in palette", g, x, y)
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img, nil
}
