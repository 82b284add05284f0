package tui

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-labyrinth/internal/core"
)

// cellStyle is the colour pair shared by a run of cells.
type cellStyle struct {
	fg, bg color.NRGBA
}

func (cs cellStyle) style(r *lipgloss.Renderer) lipgloss.Style {
	st := r.NewStyle()
	if core.IsSet(cs.fg) {
		st = st.Foreground(lipgloss.Color(core.Hex(cs.fg)))
	}
	if core.IsSet(cs.bg) {
		st = st.Background(lipgloss.Color(core.Hex(cs.bg)))
	}
	return st
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colours to minimize ANSI escape
// sequences. A nil renderer uses the lipgloss default.
func RenderScreen(r *lipgloss.Renderer, s *core.Screen) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*8 + s.Height())

	styles := make(map[cellStyle]lipgloss.Style)
	var run strings.Builder

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		row := s.RowCells(y)
		x := 0
		for x < len(row) {
			key := cellStyle{fg: row[x].Fg, bg: row[x].Bg}

			run.Reset()
			for x < len(row) && (cellStyle{fg: row[x].Fg, bg: row[x].Bg}) == key {
				run.WriteRune(row[x].Rune)
				x++
			}

			if key == (cellStyle{}) {
				sb.WriteString(run.String())
				continue
			}
			st, ok := styles[key]
			if !ok {
				st = key.style(r)
				styles[key] = st
			}
			sb.WriteString(st.Render(run.String()))
		}
	}
	return sb.String()
}
