// Package labyrinth glues the labyrinth simulation core to the platform
// screen: it turns input frames into intents, advances the session and
// composes sprites into a half-block picture with a HUD on top.
package labyrinth

import (
	"fmt"
	"image"
	"image/draw"
	"time"

	platformcore "github.com/vovakirdan/tui-labyrinth/internal/core"
	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/assets"
	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/core"
	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/levels"
)

// Minimum screen needed to show anything useful. Larger maps scroll.
const (
	minViewW = 16
	minViewH = 4
)

// Game is one playthrough of a single level.
type Game struct {
	level   levels.Level
	atlas   *assets.Atlas
	session *core.Session
	filter  *core.VisibilityFilter
	frame   *image.NRGBA
	cfg     platformcore.RuntimeConfig
	err     error

	// Layout
	screenW    int
	screenH    int
	hudHeight  int
	tooSmall   bool
	mapOffsetX int // screen column of the viewport
	mapOffsetY int // screen row of the viewport

	last core.StepResult
}

// New creates a game for level drawn with atlas. Call Reset before use.
func New(level levels.Level, atlas *assets.Atlas) *Game {
	return &Game{
		level:  level,
		atlas:  atlas,
		filter: core.NewVisibilityFilter(),
	}
}

// ID returns the level identifier.
func (g *Game) ID() string {
	return g.level.ID
}

// Title returns the level name.
func (g *Game) Title() string {
	return g.level.Name
}

// Reset starts the level from scratch.
// A level that fails to build leaves the game over with Err set.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.cfg = cfg
	g.err = nil
	g.last = core.StepResult{}
	g.hudHeight = max(cfg.HUDHeight, 1)

	g.session, g.err = g.level.NewSession(core.SessionOptions{
		EnemyPeriod:   cfg.EnemyPeriod,
		InitialRadius: cfg.InitialRadius,
		HeroHealth:    cfg.HeroHealth,
	})
	if g.err != nil {
		g.err = fmt.Errorf("labyrinth: level %s: %w", g.level.ID, g.err)
		return
	}

	w, h := g.session.FrameSize()
	g.frame = image.NewNRGBA(image.Rect(0, 0, w, h))
	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// Resize adapts the layout to a new screen size without touching the session.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.cfg.ScreenW = w
	g.cfg.ScreenH = h

	viewH := h - g.hudHeight
	if w < minViewW || viewH < minViewH {
		g.tooSmall = true
		return
	}
	g.tooSmall = false
	g.mapOffsetY = g.hudHeight
	g.mapOffsetX = 0
}

// Err reports why the level could not be started, if it could not.
func (g *Game) Err() error {
	return g.err
}

// Step advances the game by one tick.
func (g *Game) Step(input platformcore.InputFrame) platformcore.StepResult {
	if g.session == nil {
		return platformcore.StepResult{State: g.State()}
	}

	if g.session.State().Terminal() {
		if input.Has(platformcore.ActionRestart) {
			g.Reset(g.cfg)
		}
		return platformcore.StepResult{State: g.State()}
	}

	if g.tooSmall {
		g.last = core.StepResult{Tick: g.session.Tick(), State: g.session.State()}
		return platformcore.StepResult{State: g.State()}
	}

	dx, dy := input.Direction()
	intent := core.Intent{DX: dx, DY: dy, Attack: input.Has(platformcore.ActionAttack)}
	g.last = g.session.Step(intent, g.cfg.TickDuration())

	return platformcore.StepResult{State: g.State()}
}

// LastStep returns what happened during the most recent tick.
func (g *Game) LastStep() core.StepResult {
	return g.last
}

// Session exposes the running simulation.
func (g *Game) Session() *core.Session {
	return g.session
}

// Snapshot returns the session snapshot, or the zero value before Reset.
func (g *Game) Snapshot() core.Snapshot {
	if g.session == nil {
		return core.Snapshot{}
	}
	return g.session.Snapshot()
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	if g.session == nil {
		return platformcore.GameState{GameOver: true}
	}
	st := g.session.State()
	return platformcore.GameState{
		Score:    g.session.Kills(),
		Ticks:    int(g.session.Tick()),
		GameOver: st.Terminal(),
		Won:      st == core.StateWon,
	}
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()

	if g.err != nil {
		g.renderOverlay(dst, "Level failed to load", g.err.Error())
		return
	}
	if g.session == nil {
		return
	}

	if g.tooSmall {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small")
		dst.DrawTextCentered(dst.Height()/2+1, "Resize to continue")
		return
	}

	if err := g.compose(); err != nil {
		g.renderOverlay(dst, "Render failed", err.Error())
		return
	}
	g.renderMap(dst)
	g.renderHUD(dst)

	switch g.session.State() {
	case core.StateWon:
		g.renderBanner(dst, "Victory", "Press R to play again, Esc for menu")
	case core.StateLost:
		g.renderBanner(dst, "Game over", "Press R to retry, Esc for menu")
	}
}

// compose paints the session's draw commands onto the pixel frame.
func (g *Game) compose() error {
	cmds, err := g.session.DrawCommands(g.atlas, g.filter)
	if err != nil {
		return err
	}
	draw.Draw(g.frame, g.frame.Bounds(), image.Black, image.Point{}, draw.Src)
	for _, c := range cmds {
		b := c.Image.Bounds()
		r := image.Rect(c.X, c.Y, c.X+b.Dx(), c.Y+b.Dy())
		draw.Draw(g.frame, r, c.Image, b.Min, draw.Over)
	}
	return nil
}

// viewport returns the part of the frame that fits on screen, following
// the hero when the map is larger than the window.
func (g *Game) viewport() image.Rectangle {
	fb := g.frame.Bounds()
	viewW := min(g.screenW, fb.Dx())
	viewH := min((g.screenH-g.hudHeight)*2, fb.Dy())

	size := g.session.Map().TileSize()
	hero := g.session.Hero().Pos
	cx := hero.X*size + size/2
	cy := hero.Y*size + size/2

	x0 := platformcore.Clamp(cx-viewW/2, 0, fb.Dx()-viewW)
	y0 := platformcore.Clamp(cy-viewH/2, 0, fb.Dy()-viewH)
	y0 -= y0 % 2 // keep pixel pairs stable while scrolling

	return image.Rect(x0, y0, x0+viewW, y0+viewH)
}

func (g *Game) renderMap(dst *platformcore.Screen) {
	view := g.viewport()
	rows := (view.Dy() + 1) / 2
	x := g.mapOffsetX + (g.screenW-view.Dx())/2
	y := g.mapOffsetY + (g.screenH-g.hudHeight-rows)/2
	dst.BlitImage(x, y, g.frame.SubImage(view))
}

func (g *Game) renderHUD(dst *platformcore.Screen) {
	hero := g.session.Hero()
	hud := fmt.Sprintf(" %s  Light: %d  Kills: %d/%d  Tick: %d",
		g.level.Name, g.session.Radius(), g.session.Kills(),
		len(g.session.Enemies()), g.session.Tick())
	dst.DrawStyledText(0, 0, hud, platformcore.ColorText, platformcore.ColorNone)

	// Hearts sit at the right edge, lost ones dimmed; the icon needs two rows.
	slots := max(g.session.Options().HeroHealth, hero.Health)
	heart, err := g.atlas.Health()
	if err != nil || g.hudHeight < 2 {
		x := dst.Width() - slots - 1
		for i := range slots {
			fg := platformcore.ColorHeart
			if i >= hero.Health {
				fg = platformcore.ColorDim
			}
			dst.DrawStyledText(x+i, 0, "♥", fg, platformcore.ColorNone)
		}
		return
	}
	lost := core.ApplyClass(heart, core.VisibilityDim)
	w := heart.Bounds().Dx()
	x := dst.Width() - 1 - slots*(w+1)
	for i := range slots {
		if i < hero.Health {
			dst.BlitImage(x, 0, heart)
		} else {
			dst.BlitImage(x, 0, lost)
		}
		x += w + 1
	}
	if g.hudHeight > 2 {
		dst.DrawHLine(0, g.hudHeight-1, dst.Width(), '─')
	}
}

// renderBanner draws a full-width strip across the middle of the screen.
func (g *Game) renderBanner(dst *platformcore.Screen, title, subtitle string) {
	y := dst.Height()/2 - 1
	strip := platformcore.NewRect(0, y, dst.Width(), 3)
	dst.FillRect(strip, platformcore.Cell{Rune: ' ', Bg: platformcore.ColorBannerBg})
	dst.DrawStyledTextCentered(y, title, platformcore.ColorBannerFg, platformcore.ColorBannerBg)
	dst.DrawStyledTextCentered(y+2, subtitle, platformcore.ColorBannerFg, platformcore.ColorBannerBg)
}

func (g *Game) renderOverlay(dst *platformcore.Screen, line1, line2 string) {
	boxW := min(max(len([]rune(line1)), len([]rune(line2)))+4, dst.Width())
	box := dst.Bounds().Centered(boxW, 5)
	dst.FillRect(box, platformcore.Cell{Rune: ' '})
	dst.DrawBox(box)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+3, line2)
}

// TickDuration is the simulated time covered by each Step call.
func (g *Game) TickDuration() time.Duration {
	return g.cfg.TickDuration()
}
