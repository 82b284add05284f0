package tui

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-labyrinth/internal/config"
	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/assets"
	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/levels"
	"github.com/vovakirdan/tui-labyrinth/internal/storage"
)

func testDeps(t *testing.T, lvls []levels.Level) *Deps {
	t.Helper()

	atlas, err := assets.Default()
	if err != nil {
		t.Fatalf("assets.Default failed: %v", err)
	}
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("storage.Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return &Deps{
		Levels:     lvls,
		Atlas:      atlas,
		Store:      store,
		Config:     config.DefaultLabyrinthConfig(),
		Difficulty: config.DifficultyNormal,
		Player:     "tester",
		Renderer:   lipgloss.NewRenderer(io.Discard),
	}
}

func embeddedLevels(t *testing.T) []levels.Level {
	t.Helper()
	all, err := levels.Embedded().LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	return all
}

// corridor is a level won by a single step to the right.
func corridor(t *testing.T) levels.Level {
	t.Helper()
	fsys := fstest.MapFS{"corridor.yaml": {Data: []byte(`id: corridor
name: Corridor
tile_size: 4
legend: {"#": 120, ".": 86, "F": 110}
free: [86, 110]
finish: 110
tiles: ["#####", "#.F.#", "#####"]
hero: {x: 1, y: 1}
`)}}
	lvl, err := levels.NewLoader(fsys).LoadFile("corridor.yaml")
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	return lvl
}

func send(t *testing.T, a App, msgs ...tea.Msg) App {
	t.Helper()
	var m tea.Model = a
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	app, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T", m)
	}
	return app
}

func TestAppSceneFlow(t *testing.T) {
	deps := testDeps(t, embeddedLevels(t))
	a, err := NewApp(deps, 80, 40, AppOptions{})
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if a.Scene() != SceneMenu {
		t.Fatalf("expected menu, got %v", a.Scene())
	}
	if !strings.Contains(a.View(), "Level 1") {
		t.Errorf("menu should list levels:\n%s", a.View())
	}

	steps := []struct {
		name string
		msg  tea.Msg
		want Scene
	}{
		{"cursor down", tea.KeyMsg{Type: tea.KeyDown}, SceneMenu},
		{"pick level", tea.KeyMsg{Type: tea.KeyEnter}, ScenePlaying},
		{"tick", TickMsg{Gen: 1}, ScenePlaying},
		{"back to menu", tea.KeyMsg{Type: tea.KeyEsc}, SceneMenu},
		{"open scores", tea.KeyMsg{Type: tea.KeyTab}, SceneScoreboard},
		{"close scores", tea.KeyMsg{Type: tea.KeyEsc}, SceneMenu},
		{"quit", runeKey("q"), SceneQuit},
	}

	for _, step := range steps {
		a = send(t, a, step.msg)
		if a.Scene() != step.want {
			t.Fatalf("after %s: scene %v, expected %v", step.name, a.Scene(), step.want)
		}
		if step.name == "pick level" && a.play.game.ID() != "level2" {
			t.Errorf("expected level2 to start, got %s", a.play.game.ID())
		}
	}

	// Leaving mid-level is recorded as abandoned
	runs, err := deps.Store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Outcome != storage.OutcomeAbandoned || runs[0].LevelID != "level2" {
		t.Errorf("unexpected runs %+v", runs)
	}
	if runs[0].Player != "tester" || runs[0].Ticks != 1 {
		t.Errorf("run should carry player and ticks, got %+v", runs[0])
	}
}

func TestAppStartLevel(t *testing.T) {
	deps := testDeps(t, embeddedLevels(t))

	if _, err := NewApp(deps, 80, 40, AppOptions{StartLevel: "nope"}); !errors.Is(err, levels.ErrLevelNotFound) {
		t.Errorf("expected ErrLevelNotFound, got %v", err)
	}

	a, err := NewApp(deps, 80, 40, AppOptions{StartLevel: "level3"})
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if a.Scene() != ScenePlaying || a.play.game.ID() != "level3" {
		t.Fatalf("expected level3 to be playing, got %v", a.Scene())
	}

	// Leaving a directly started level exits the app
	a = send(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.Scene() != SceneQuit {
		t.Errorf("expected quit, got %v", a.Scene())
	}
}

func TestAppIgnoresStaleTicks(t *testing.T) {
	deps := testDeps(t, embeddedLevels(t))
	a, err := NewApp(deps, 80, 40, AppOptions{StartLevel: "level1"})
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}

	a = send(t, a, TickMsg{Gen: 7}, TickMsg{Gen: 0})
	if ticks := a.play.State().Ticks; ticks != 0 {
		t.Errorf("stale ticks advanced the game to %d", ticks)
	}

	a = send(t, a, TickMsg{Gen: 1})
	if ticks := a.play.State().Ticks; ticks != 1 {
		t.Errorf("expected 1 tick, got %d", ticks)
	}
}

func TestPlaySavesWin(t *testing.T) {
	deps := testDeps(t, []levels.Level{corridor(t)})
	a, err := NewApp(deps, 60, 30, AppOptions{StartLevel: "corridor"})
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}

	a = send(t, a, tea.KeyMsg{Type: tea.KeyRight}, TickMsg{Gen: 1}, TickMsg{Gen: 1})
	if st := a.play.State(); !st.GameOver || !st.Won {
		t.Fatalf("expected a win, got %+v", st)
	}
	if !strings.Contains(a.View(), "Victory") {
		t.Errorf("expected victory banner:\n%s", a.View())
	}

	best, err := deps.Store.BestRuns("corridor", 10)
	if err != nil {
		t.Fatalf("BestRuns failed: %v", err)
	}
	if len(best) != 1 || best[0].Ticks != 1 || best[0].HealthLeft != 3 || best[0].Difficulty != "normal" {
		t.Errorf("win should be saved once, got %+v", best)
	}

	// Restart then leave: the fresh attempt has no ticks and is not recorded
	a = send(t, a, runeKey("r"), TickMsg{Gen: 1})
	if a.play.State().GameOver {
		t.Fatal("restart should start a new attempt")
	}
	a = send(t, a, tea.KeyMsg{Type: tea.KeyEsc})

	runs, err := deps.Store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected only the win to be stored, got %+v", runs)
	}
}

func TestPlayHelpToggleShrinksScreen(t *testing.T) {
	deps := testDeps(t, embeddedLevels(t))
	a, err := NewApp(deps, 80, 40, AppOptions{StartLevel: "level1"})
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}

	short := a.play.screen.Height()
	a = send(t, a, runeKey("?"))
	if full := a.play.screen.Height(); full >= short {
		t.Errorf("full help should take more rows: %d -> %d", short, full)
	}

	a = send(t, a, tea.WindowSizeMsg{Width: 100, Height: 50})
	if a.play.screen.Width() != 100 {
		t.Errorf("resize not applied, width %d", a.play.screen.Width())
	}
}

func TestAppStartScoreboard(t *testing.T) {
	deps := testDeps(t, embeddedLevels(t))
	a, err := NewApp(deps, 100, 40, AppOptions{StartScene: SceneScoreboard})
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if a.Scene() != SceneScoreboard {
		t.Fatalf("expected scoreboard, got %v", a.Scene())
	}
	if !strings.Contains(a.View(), "No escapes recorded yet.") {
		t.Errorf("empty history message missing:\n%s", a.View())
	}

	a = send(t, a, runeKey("v"))
	if !strings.Contains(a.View(), "RECENT RUNS") {
		t.Errorf("toggle should switch to recent runs:\n%s", a.View())
	}

	a = send(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.Scene() != SceneMenu {
		t.Errorf("expected menu after back, got %v", a.Scene())
	}
}

func TestMenuCursorWraps(t *testing.T) {
	deps := testDeps(t, embeddedLevels(t))
	m := NewMenuModel(deps, 80, 40, 0)

	steps := []struct {
		msg  tea.KeyMsg
		want int
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, 2},
		{tea.KeyMsg{Type: tea.KeyDown}, 0},
		{tea.KeyMsg{Type: tea.KeyDown}, 1},
	}
	for _, step := range steps {
		next, _ := m.Update(step.msg)
		m = next.(MenuModel)
		if m.Cursor() != step.want {
			t.Fatalf("after %s: cursor %d, expected %d", step.msg, m.Cursor(), step.want)
		}
	}

	empty := NewMenuModel(testDeps(t, nil), 80, 40, 0)
	next, _ := empty.Update(tea.KeyMsg{Type: tea.KeyDown})
	if next.(MenuModel).Cursor() != 0 {
		t.Error("empty menu cursor should stay at 0")
	}
}
