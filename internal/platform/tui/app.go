package tui

import (
	"fmt"
	"image/color"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-labyrinth/internal/config"
	"github.com/vovakirdan/tui-labyrinth/internal/core"
	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/assets"
	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/levels"
	"github.com/vovakirdan/tui-labyrinth/internal/storage"
)

// Deps is everything a running app needs. Levels and Atlas are read-only
// and may be shared between SSH sessions; Store is safe for concurrent use.
type Deps struct {
	Levels     []levels.Level
	Atlas      *assets.Atlas
	Store      *storage.Store // nil disables run history
	Logger     *log.Logger    // nil discards
	Config     config.LabyrinthConfig
	Difficulty config.DifficultyPreset
	Player     string
	Renderer   *lipgloss.Renderer // nil uses the lipgloss default

	st *Styles
}

func (d *Deps) logger() *log.Logger {
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}
	return d.Logger
}

func (d *Deps) styles() Styles {
	if d.st == nil {
		r := d.Renderer
		if r == nil {
			r = lipgloss.DefaultRenderer()
		}
		st := NewStyles(r)
		d.st = &st
	}
	return *d.st
}

// Styles holds the lipgloss styles used by the menu and scoreboard.
type Styles struct {
	Title    lipgloss.Style
	Dim      lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Help     lipgloss.Style
	Panel    lipgloss.Style
	Empty    lipgloss.Style
}

// NewStyles builds the styles for renderer r.
func NewStyles(r *lipgloss.Renderer) Styles {
	hex := func(c color.NRGBA) lipgloss.Color { return lipgloss.Color(core.Hex(c)) }
	return Styles{
		Title:    r.NewStyle().Bold(true).Foreground(hex(core.ColorHighlight)),
		Dim:      r.NewStyle().Foreground(hex(core.ColorDim)),
		Item:     r.NewStyle().Foreground(hex(core.ColorText)),
		Selected: r.NewStyle().Bold(true).Foreground(hex(core.ColorBannerFg)).Background(hex(core.ColorBannerBg)),
		Help:     r.NewStyle().Foreground(lipgloss.Color("241")),
		Panel:    r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		Empty:    r.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4),
	}
}

// Scene identifies which screen the app is showing.
type Scene int

const (
	SceneMenu Scene = iota
	ScenePlaying
	SceneScoreboard
	SceneQuit
)

// String returns the scene name.
func (s Scene) String() string {
	switch s {
	case SceneMenu:
		return "menu"
	case ScenePlaying:
		return "playing"
	case SceneScoreboard:
		return "scoreboard"
	case SceneQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// AppOptions tweaks how the app starts.
type AppOptions struct {
	// StartLevel plays this level immediately. Leaving it exits the app
	// instead of returning to the menu.
	StartLevel string
	// StartScene opens the menu (default) or the scoreboard.
	StartScene Scene
}

// App is the top-level model: it owns the scene state and switches between
// menu, play and scoreboard.
type App struct {
	deps   *Deps
	scene  Scene
	single bool // launched straight into a level
	width  int
	height int

	menu   MenuModel
	play   PlayModel
	scores ScoreboardModel

	menuCursor int
	gen        int
}

// NewApp creates the app for a terminal of the given size.
func NewApp(deps *Deps, width, height int, opts AppOptions) (App, error) {
	a := App{
		deps:   deps,
		width:  width,
		height: height,
	}

	if opts.StartLevel != "" {
		idx := a.levelIndex(opts.StartLevel)
		if idx < 0 {
			return App{}, fmt.Errorf("tui: %w: %s", levels.ErrLevelNotFound, opts.StartLevel)
		}
		a.single = true
		a.menuCursor = idx
		a.startLevel(deps.Levels[idx])
		return a, nil
	}

	switch opts.StartScene {
	case SceneScoreboard:
		a.openScoreboard()
	default:
		a.openMenu()
	}
	return a, nil
}

func (a App) levelIndex(id string) int {
	for i, lvl := range a.deps.Levels {
		if lvl.ID == id {
			return i
		}
	}
	return -1
}

// Init starts the current scene.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("Labyrinth")}
	if a.scene == ScenePlaying {
		cmds = append(cmds, a.play.Init())
	}
	return tea.Batch(cmds...)
}

// Update routes messages to the active scene and handles transitions.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = wsm.Width
		a.height = wsm.Height
	}

	switch a.scene {
	case SceneMenu:
		return a.updateMenu(msg)
	case ScenePlaying:
		return a.updatePlay(msg)
	case SceneScoreboard:
		return a.updateScores(msg)
	}
	return a, nil
}

func (a App) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := a.menu.Update(msg)
	if mm, ok := next.(MenuModel); ok {
		a.menu = mm
	}
	a.menuCursor = a.menu.Cursor()

	switch {
	case a.menu.IsQuitting():
		return a.quit()
	case a.menu.WantsScoreboard():
		a.openScoreboard()
		return a, nil
	case a.menu.Selected() != nil:
		cmd := a.startLevel(a.menu.Selected().Level)
		return a, cmd
	}
	return a, cmd
}

func (a App) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := a.play.Update(msg)
	if pm, ok := next.(PlayModel); ok {
		a.play = pm
	}

	switch {
	case a.play.IsQuitting():
		return a.quit()
	case a.play.BackToMenu():
		if a.single {
			return a.quit()
		}
		a.openMenu()
		return a, nil
	}
	return a, cmd
}

func (a App) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := a.scores.Update(msg)
	if sm, ok := next.(ScoreboardModel); ok {
		a.scores = sm
	}

	switch {
	case a.scores.IsQuitting():
		return a.quit()
	case a.scores.IsGoingBack():
		a.openMenu()
		return a, nil
	}
	return a, cmd
}

func (a *App) openMenu() {
	a.menu = NewMenuModel(a.deps, a.width, a.height, a.menuCursor)
	a.scene = SceneMenu
}

func (a *App) openScoreboard() {
	a.scores = NewScoreboardModel(a.deps, a.width, a.height)
	a.scene = SceneScoreboard
}

func (a *App) startLevel(lvl levels.Level) tea.Cmd {
	a.gen++
	a.play = NewPlayModel(a.deps, lvl, a.width, a.height, a.gen)
	a.scene = ScenePlaying
	return a.play.Init()
}

func (a App) quit() (tea.Model, tea.Cmd) {
	a.scene = SceneQuit
	return a, tea.Quit
}

// View renders the active scene.
func (a App) View() string {
	switch a.scene {
	case SceneMenu:
		return a.menu.View()
	case ScenePlaying:
		return a.play.View()
	case SceneScoreboard:
		return a.scores.View()
	}
	return ""
}

// Scene returns the active scene.
func (a App) Scene() Scene {
	return a.scene
}

// Run starts a Bubble Tea program for the app on the local terminal.
func Run(deps *Deps, width, height int, opts AppOptions) error {
	app, err := NewApp(deps, width, height, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err = p.Run()
	return err
}
