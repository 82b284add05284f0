// Package formats provides level file format parsers for Labyrinth.
package formats

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/core"
	"gopkg.in/yaml.v3"
)

// ErrInvalidLevel is returned when a level file parses but fails validation.
var ErrInvalidLevel = errors.New("invalid level")

// DefaultEnemyKind is used for enemies without an explicit sprite kind.
const DefaultEnemyKind = "enemy1"

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Order    int            `yaml:"order"`
	TileSize int            `yaml:"tile_size"`
	Legend   map[string]int `yaml:"legend"`
	Free     []TileRange    `yaml:"free"`
	Finish   int            `yaml:"finish"`
	Tiles    []string       `yaml:"tiles"`
	Hero     YAMLPoint      `yaml:"hero"`
	Enemies  []YAMLEnemy    `yaml:"enemies"`
	Lights   []YAMLPoint    `yaml:"lights"`
}

// YAMLPoint is a grid cell.
type YAMLPoint struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// YAMLEnemy places one enemy.
type YAMLEnemy struct {
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Kind   string `yaml:"kind,omitempty"`
	Health int    `yaml:"health"`
}

// TileRange is an inclusive span of tile ids.
// In YAML it is written either as a single id (86) or a range ("86-91").
type TileRange struct {
	From int
	To   int
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *TileRange) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: free entry must be a number or a range", node.Line)
	}
	from, to, found := strings.Cut(node.Value, "-")
	lo, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return fmt.Errorf("line %d: bad tile id %q", node.Line, node.Value)
	}
	hi := lo
	if found {
		hi, err = strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			return fmt.Errorf("line %d: bad tile range %q", node.Line, node.Value)
		}
	}
	if hi < lo {
		return fmt.Errorf("line %d: empty tile range %q", node.Line, node.Value)
	}
	r.From, r.To = lo, hi
	return nil
}

// IDs expands the range.
func (r TileRange) IDs() []core.TileID {
	out := make([]core.TileID, 0, r.To-r.From+1)
	for id := r.From; id <= r.To; id++ {
		out = append(out, core.TileID(id))
	}
	return out
}

// Level represents a parsed and validated level ready for use.
type Level struct {
	ID       string
	Name     string
	Order    int
	Width    int
	Height   int
	TileSize int
	Tiles    []core.TileID // row-major
	Free     []core.TileID
	Finish   core.TileID
	Hero     core.Position
	Enemies  []core.EnemySpec
	Lights   []core.Position
}

// ParseYAML parses and validates a YAML level.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return yl.toLevel()
}

func (yl YAMLLevel) toLevel() (Level, error) {
	if yl.ID == "" {
		return Level{}, fmt.Errorf("%w: missing id", ErrInvalidLevel)
	}
	if yl.TileSize <= 0 {
		return Level{}, fmt.Errorf("%w: %s: tile_size must be positive", ErrInvalidLevel, yl.ID)
	}
	if len(yl.Tiles) == 0 {
		return Level{}, fmt.Errorf("%w: %s: no tiles", ErrInvalidLevel, yl.ID)
	}

	legend := make(map[rune]core.TileID, len(yl.Legend))
	for glyph, id := range yl.Legend {
		if utf8.RuneCountInString(glyph) != 1 {
			return Level{}, fmt.Errorf("%w: %s: legend key %q must be one character", ErrInvalidLevel, yl.ID, glyph)
		}
		r, _ := utf8.DecodeRuneInString(glyph)
		legend[r] = core.TileID(id)
	}

	width := utf8.RuneCountInString(yl.Tiles[0])
	height := len(yl.Tiles)
	tiles := make([]core.TileID, 0, width*height)
	for y, row := range yl.Tiles {
		if n := utf8.RuneCountInString(row); n != width {
			return Level{}, fmt.Errorf("%w: %s: row %d has width %d, expected %d", ErrInvalidLevel, yl.ID, y, n, width)
		}
		for x, glyph := range []rune(row) {
			id, ok := legend[glyph]
			if !ok {
				return Level{}, fmt.Errorf("%w: %s: glyph %q at (%d,%d) not in legend", ErrInvalidLevel, yl.ID, glyph, x, y)
			}
			tiles = append(tiles, id)
		}
	}

	var free []core.TileID
	for _, r := range yl.Free {
		free = append(free, r.IDs()...)
	}

	lvl := Level{
		ID:       yl.ID,
		Name:     yl.Name,
		Order:    yl.Order,
		Width:    width,
		Height:   height,
		TileSize: yl.TileSize,
		Tiles:    tiles,
		Free:     free,
		Finish:   core.TileID(yl.Finish),
		Hero:     core.P(yl.Hero.X, yl.Hero.Y),
	}
	if lvl.Name == "" {
		lvl.Name = lvl.ID
	}

	m, err := core.NewTileMap(width, height, yl.TileSize, tiles, free, lvl.Finish)
	if err != nil {
		return Level{}, fmt.Errorf("%s: %w", yl.ID, err)
	}
	if !m.IsFree(lvl.Hero) {
		return Level{}, fmt.Errorf("%w: %s: hero start %v is not a free tile", ErrInvalidLevel, yl.ID, lvl.Hero)
	}

	for i, ye := range yl.Enemies {
		pos := core.P(ye.X, ye.Y)
		if !m.InBounds(pos) {
			return Level{}, fmt.Errorf("%w: %s: enemy %d at %v is outside the map", ErrInvalidLevel, yl.ID, i, pos)
		}
		if ye.Health <= 0 {
			return Level{}, fmt.Errorf("%w: %s: enemy %d has health %d", ErrInvalidLevel, yl.ID, i, ye.Health)
		}
		kind := ye.Kind
		if kind == "" {
			kind = DefaultEnemyKind
		}
		lvl.Enemies = append(lvl.Enemies, core.EnemySpec{Pos: pos, Kind: kind, Health: ye.Health})
	}

	for i, yp := range yl.Lights {
		pos := core.P(yp.X, yp.Y)
		if !m.InBounds(pos) {
			return Level{}, fmt.Errorf("%w: %s: light %d at %v is outside the map", ErrInvalidLevel, yl.ID, i, pos)
		}
		lvl.Lights = append(lvl.Lights, pos)
	}

	return lvl, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
