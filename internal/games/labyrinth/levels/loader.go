// Package levels provides level loading for Labyrinth.
// This package depends on core but core does not depend on levels.
package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/core"
	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/levels/formats"
)

// ErrLevelNotFound is returned by LoadByID for unknown ids.
var ErrLevelNotFound = errors.New("level not found")

//go:embed data/*.yaml
var embedded embed.FS

// Level represents a complete level definition.
type Level struct {
	formats.Level
	FilePath string
}

// TileMap creates the level's tile map.
func (l *Level) TileMap() (*core.TileMap, error) {
	return core.NewTileMap(l.Width, l.Height, l.TileSize, l.Tiles, l.Free, l.Finish)
}

// SessionSpec returns the actor layout for a new session.
func (l *Level) SessionSpec() core.SessionSpec {
	return core.SessionSpec{
		Hero:    l.Hero,
		Enemies: slices.Clone(l.Enemies),
		Lights:  slices.Clone(l.Lights),
	}
}

// EnemyKinds returns the distinct enemy sprite kinds, in first-seen order.
func (l *Level) EnemyKinds() []string {
	var kinds []string
	for _, e := range l.Enemies {
		if !slices.Contains(kinds, e.Kind) {
			kinds = append(kinds, e.Kind)
		}
	}
	return kinds
}

// Build returns everything needed to start a session on this level.
func (l *Level) Build() (*core.TileMap, core.SessionSpec, error) {
	m, err := l.TileMap()
	if err != nil {
		return nil, core.SessionSpec{}, fmt.Errorf("level %s: %w", l.ID, err)
	}
	return m, l.SessionSpec(), nil
}

// NewSession starts a session on this level.
func (l *Level) NewSession(opts core.SessionOptions) (*core.Session, error) {
	m, spec, err := l.Build()
	if err != nil {
		return nil, err
	}
	return core.NewSession(m, spec, opts)
}

// Loader handles loading levels from a file system.
type Loader struct {
	fsys fs.FS
}

// NewLoader creates a loader reading from fsys.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// Embedded returns a loader for the levels shipped with the binary.
func Embedded() *Loader {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}
	return NewLoader(sub)
}

// FromDir returns a loader for a directory on disk.
func FromDir(dir string) *Loader {
	return NewLoader(os.DirFS(dir))
}

// LoadAll recursively scans and loads all level files.
// Returns levels sorted by order, then ID, for deterministic ordering.
// Any malformed file fails the whole load.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level
	seen := make(map[string]string) // id -> file

	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isSupportedExtension(strings.ToLower(path.Ext(p))) {
			return nil
		}

		level, err := l.LoadFile(p)
		if err != nil {
			return err
		}
		if prev, ok := seen[level.ID]; ok {
			return fmt.Errorf("duplicate id %q in %s and %s", level.ID, prev, level.FilePath)
		}
		seen[level.ID] = level.FilePath
		levels = append(levels, level)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading levels: %w", err)
	}

	slices.SortFunc(levels, func(a, b Level) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		return strings.Compare(a.ID, b.ID)
	})

	return levels, nil
}

// LoadFile loads a single level file.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", p, err)
	}

	parsed, err := parseByExtension(data, strings.ToLower(path.Ext(p)))
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", p, err)
	}

	return Level{Level: parsed, FilePath: p}, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}

	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}

	return Level{}, fmt.Errorf("%w: %s", ErrLevelNotFound, id)
}

// ListIDs returns all level IDs in play order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	return slices.Contains(formats.FormatExtensions(), ext)
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
