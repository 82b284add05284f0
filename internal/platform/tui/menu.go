package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-labyrinth/internal/core"
	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/levels"
	"github.com/vovakirdan/tui-labyrinth/internal/storage"
)

// MenuItem represents a selectable level in the menu.
type MenuItem struct {
	Level levels.Level
	Stats storage.LevelStats
}

// MenuModel is the Bubble Tea model for the level picker.
type MenuModel struct {
	deps           *Deps
	items          []MenuItem
	cursor         int
	width          int
	height         int
	keys           KeyMap
	help           help.Model
	quitting       bool
	selected       *MenuItem // Set when user selects a level
	openScoreboard bool      // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu model. cursor preselects a level.
func NewMenuModel(deps *Deps, width, height, cursor int) MenuModel {
	stats := make(map[string]storage.LevelStats)
	if deps.Store != nil {
		all, err := deps.Store.AllLevelStats()
		if err != nil {
			deps.logger().Warn("cannot load level stats", "error", err)
		}
		for _, st := range all {
			stats[st.LevelID] = st
		}
	}

	items := make([]MenuItem, 0, len(deps.Levels))
	for _, lvl := range deps.Levels {
		items = append(items, MenuItem{Level: lvl, Stats: stats[lvl.ID]})
	}

	h := help.New()
	h.Width = width

	return MenuModel{
		deps:   deps,
		items:  items,
		cursor: max(0, min(cursor, len(items)-1)),
		width:  width,
		height: height,
		keys:   DefaultKeyMap(),
		help:   h,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true

	case key.Matches(msg, m.keys.Up):
		if len(m.items) > 0 {
			m.cursor = core.Wrap(m.cursor-1, len(m.items))
		}

	case key.Matches(msg, m.keys.Down):
		if len(m.items) > 0 {
			m.cursor = core.Wrap(m.cursor+1, len(m.items))
		}

	case key.Matches(msg, m.keys.Select), key.Matches(msg, m.keys.Attack):
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}

	case key.Matches(msg, m.keys.Scores):
		m.openScoreboard = true
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	st := m.deps.styles()
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(st.Title.Render("L A B Y R I N T H"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(st.Dim.Render("Reach the golden tile. Mind the dark."), m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText(st.Dim.Render("No levels found."), m.width))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		cursor := "  "
		style := st.Item
		if i == m.cursor {
			cursor = "> "
			style = st.Selected
		}
		line := fmt.Sprintf("%s%-10s %s", cursor, item.Level.Name, describeStats(item.Stats))
		b.WriteString(centerText(style.Render(line), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(st.Help.Render(m.help.View(menuKeys(m.keys))), m.width))
	b.WriteString("\n")

	return b.String()
}

// describeStats summarises a level's history for the menu line.
func describeStats(st storage.LevelStats) string {
	switch {
	case st.Runs == 0:
		return "not played"
	case st.BestTicks > 0:
		return fmt.Sprintf("best %d ticks  (%d/%d won)", st.BestTicks, st.Wins, st.Runs)
	default:
		return fmt.Sprintf("unbeaten  (%d runs)", st.Runs)
	}
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// Cursor returns the highlighted item index.
func (m MenuModel) Cursor() int {
	return m.cursor
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
