package tui

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-labyrinth/internal/core"
)

func TestRenderScreenKeepsLayout(t *testing.T) {
	s := core.NewScreen(6, 3)
	s.DrawText(0, 0, "plain")
	s.DrawStyledText(1, 1, "hot", core.ColorHeart, core.ColorBlack)
	s.SetCell(5, 2, core.Cell{Rune: core.UpperHalf, Fg: core.ColorLight, Bg: core.ColorDim})

	// Output to a non-terminal has no colour profile, so only the text is left.
	r := lipgloss.NewRenderer(io.Discard)
	got := RenderScreen(r, s)

	if got != s.String() {
		t.Errorf("RenderScreen() = %q, expected %q", got, s.String())
	}
	if n := strings.Count(got, "\n"); n != 2 {
		t.Errorf("expected 3 lines, got %d newlines", n)
	}
}

func TestRenderScreenEmpty(t *testing.T) {
	if got := RenderScreen(nil, core.NewScreen(0, 0)); got != "" {
		t.Errorf("empty screen should render nothing, got %q", got)
	}
}
