package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-labyrinth/internal/core"
	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth"
	labcore "github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/core"
	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/levels"
	"github.com/vovakirdan/tui-labyrinth/internal/storage"
)

// PlayModel is the Bubble Tea model for one level being played.
type PlayModel struct {
	deps       *Deps
	game       *labyrinth.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	keys       KeyMap
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	gen        int // tick generation, see TickMsg
	width      int
	height     int
	quitting   bool
	backToMenu bool
	runSaved   bool // Whether the current attempt has been recorded
}

// NewPlayModel creates a play scene for level and starts the game.
func NewPlayModel(deps *Deps, level levels.Level, width, height, gen int) PlayModel {
	m := PlayModel{
		deps:       deps,
		game:       labyrinth.New(level, deps.Atlas),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
		gen:        gen,
		width:      width,
		height:     height,
	}
	m.help.Width = width
	m.config = deps.Config.Runtime(width, m.screenHeight())
	m.screen = core.NewScreen(width, m.screenHeight())
	m.game.Reset(m.config)
	m.gameState = m.game.State()

	if err := m.game.Err(); err != nil {
		deps.logger().Error("cannot start level", "level", level.ID, "error", err)
	} else {
		deps.logger().Info("level started", "level", level.ID, "player", deps.Player)
		for i, e := range m.game.Session().Enemies() {
			if !e.Patrols() {
				deps.logger().Debug("enemy has no patrol route", "level", level.ID, "enemy", i, "pos", e.Pos.String())
			}
		}
	}
	return m
}

// Init names the window after the level and starts the tick loop.
func (m PlayModel) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("Labyrinth - "+m.game.Title()),
		tickCmd(m.config.TickRate, m.gen),
	)
}

// Update handles messages and updates the model state.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg.Width, msg.Height)

	case TickMsg:
		if msg.Gen != m.gen || m.quitting || m.backToMenu {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch action := m.keys.Action(msg); action {
	case core.ActionQuit:
		m.saveRun(storage.OutcomeAbandoned)
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		m.saveRun(storage.OutcomeAbandoned)
		m.backToMenu = true
	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
		return m.handleResize(m.width, m.height)
	case core.ActionNone:
	default:
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleResize processes window resize events. The session keeps running;
// only the layout changes.
func (m PlayModel) handleResize(width, height int) (tea.Model, tea.Cmd) {
	m.width = width
	m.height = height
	m.help.Width = width

	h := m.screenHeight()
	m.config.ScreenW = width
	m.config.ScreenH = h
	m.screen.Resize(width, h)
	m.game.Resize(width, h)
	return m, nil
}

// handleTick processes simulation ticks.
func (m PlayModel) handleTick() (tea.Model, tea.Cmd) {
	wasOver := m.gameState.GameOver

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	if wasOver && !m.gameState.GameOver {
		// Restarted
		m.runSaved = false
		m.deps.logger().Info("level restarted", "level", m.game.ID())
	}

	m.logStep(m.game.LastStep())

	if m.gameState.GameOver && !m.runSaved {
		outcome := storage.OutcomeLost
		if m.gameState.Won {
			outcome = storage.OutcomeWon
		}
		m.saveRun(outcome)
	}

	return m, tickCmd(m.config.TickRate, m.gen)
}

// logStep writes the interesting events of one tick to the log.
func (m PlayModel) logStep(res labcore.StepResult) {
	logger := m.deps.logger()
	for _, ev := range res.Events {
		kv := []any{"level", m.game.ID(), "tick", res.Tick, "event", ev.Kind.String(), "pos", ev.Pos.String()}
		switch ev.Kind {
		case labcore.EventHeroMoved, labcore.EventMoveBlocked, labcore.EventEnemiesAdvanced, labcore.EventEnemyDamaged:
			logger.Debug("session event", kv...)
		default:
			logger.Info("session event", kv...)
		}
	}
}

// saveRun records the current attempt once. Abandoning before the first
// tick is not worth a row.
func (m *PlayModel) saveRun(outcome storage.Outcome) {
	if m.runSaved || m.game.Session() == nil {
		return
	}
	m.runSaved = true

	sess := m.game.Session()
	if outcome == storage.OutcomeAbandoned && (sess.Tick() == 0 || m.gameState.GameOver) {
		return
	}
	if m.deps.Store == nil {
		return
	}

	run := storage.RunResult{
		LevelID:    m.game.ID(),
		Player:     m.deps.Player,
		Outcome:    outcome,
		Ticks:      int(sess.Tick()),
		Kills:      sess.Kills(),
		Lights:     sess.LightsCollected(),
		HealthLeft: sess.Hero().Health,
		Difficulty: string(m.deps.Difficulty),
	}
	id, err := m.deps.Store.SaveRun(run)
	if err != nil {
		m.deps.logger().Warn("cannot save run", "level", run.LevelID, "error", err)
		return
	}
	m.deps.logger().Info("run saved", "id", id, "level", run.LevelID, "outcome", outcome, "ticks", run.Ticks)
}

// screenHeight is the height left for the game once the help footer is drawn.
func (m PlayModel) screenHeight() int {
	return max(m.height-lipgloss.Height(m.help.View(m.keys)), 0)
}

// View renders the current state to a string for display.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	footer := m.deps.styles().Help.Render(m.help.View(m.keys))
	return RenderScreen(m.deps.Renderer, m.screen) + "\n" + footer
}

// State returns the latest game state.
func (m PlayModel) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m PlayModel) BackToMenu() bool {
	return m.backToMenu
}
