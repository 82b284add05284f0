package core

import (
	"image"
	"image/color"
	"strings"
	"unicode/utf8"
)

// Upper and lower half blocks used to show two pixels per terminal cell.
const (
	UpperHalf = '▀'
	LowerHalf = '▄'
)

// Cell is one terminal character with optional truecolor styling.
// A zero-alpha Fg or Bg means the terminal default.
type Cell struct {
	Rune rune
	Fg   color.NRGBA
	Bg   color.NRGBA
}

// blank is the cell every screen starts with.
var blank = Cell{Rune: ' '}

// Screen is a 2D cell buffer for rendering game graphics.
// It decouples game rendering from the terminal: games draw runes, text and
// images while the platform handles the actual display.
type Screen struct {
	width  int
	height int
	cells  [][]Cell
}

// NewScreen creates a new screen buffer with the given dimensions.
func NewScreen(width, height int) *Screen {
	s := &Screen{
		width:  max(width, 0),
		height: max(height, 0),
	}
	s.allocate()
	s.Clear()
	return s
}

func (s *Screen) allocate() {
	s.cells = make([][]Cell, s.height)
	for y := range s.cells {
		s.cells[y] = make([]Cell, s.width)
	}
}

// Width returns the screen width in characters.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in characters.
func (s *Screen) Height() int {
	return s.height
}

// Bounds returns the screen area as a rectangle.
func (s *Screen) Bounds() Rect {
	return NewRect(0, 0, s.width, s.height)
}

// Resize changes the screen dimensions, preserving content where possible.
func (s *Screen) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == s.width && height == s.height {
		return
	}

	old := s.cells
	copyW := min(s.width, width)
	copyH := min(s.height, height)

	s.width = width
	s.height = height
	s.allocate()
	s.Clear()

	for y := range copyH {
		copy(s.cells[y][:copyW], old[y][:copyW])
	}
}

// Clear resets every cell to an unstyled space.
func (s *Screen) Clear() {
	s.FillCell(blank)
}

// Fill fills the entire screen with the given rune, dropping styling.
func (s *Screen) Fill(r rune) {
	s.FillCell(Cell{Rune: r})
}

// FillCell sets every cell to c.
func (s *Screen) FillCell(c Cell) {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = c
		}
	}
}

// Set places an unstyled rune at the given position.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, r rune) {
	s.SetCell(x, y, Cell{Rune: r})
}

// SetCell places a cell at the given position.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) SetCell(x, y int, c Cell) {
	if !s.Bounds().Contains(x, y) {
		return
	}
	s.cells[y][x] = c
}

// Get returns the rune at the given position.
// Returns space for out-of-bounds coordinates.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the cell at the given position.
// Returns a blank cell for out-of-bounds coordinates.
func (s *Screen) GetCell(x, y int) Cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return blank
	}
	return s.cells[y][x]
}

// DrawText writes a string horizontally starting at (x, y).
// Characters that extend beyond screen bounds are clipped.
func (s *Screen) DrawText(x, y int, text string) {
	s.DrawStyledText(x, y, text, ColorNone, ColorNone)
}

// DrawStyledText writes coloured text starting at (x, y).
func (s *Screen) DrawStyledText(x, y int, text string, fg, bg color.NRGBA) {
	i := 0
	for _, r := range text {
		s.SetCell(x+i, y, Cell{Rune: r, Fg: fg, Bg: bg})
		i++
	}
}

// DrawTextCentered draws text centered horizontally at the given y position.
func (s *Screen) DrawTextCentered(y int, text string) {
	s.DrawText(s.centerX(text), y, text)
}

// DrawStyledTextCentered draws coloured text centered at the given y position.
func (s *Screen) DrawStyledTextCentered(y int, text string, fg, bg color.NRGBA) {
	s.DrawStyledText(s.centerX(text), y, text, fg, bg)
}

func (s *Screen) centerX(text string) int {
	return (s.width - utf8.RuneCountInString(text)) / 2
}

// FillRect fills a rectangular area with the given cell.
func (s *Screen) FillRect(r Rect, c Cell) {
	r = r.Intersect(s.Bounds())
	if r.Empty() {
		return
	}
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			s.SetCell(x, y, c)
		}
	}
}

// DrawBox draws a box outline using box-drawing characters.
func (s *Screen) DrawBox(r Rect) {
	s.Set(r.X, r.Y, '┌')
	s.Set(r.Right()-1, r.Y, '┐')
	s.Set(r.X, r.Bottom()-1, '└')
	s.Set(r.Right()-1, r.Bottom()-1, '┘')

	for x := r.X + 1; x < r.Right()-1; x++ {
		s.Set(x, r.Y, '─')
		s.Set(x, r.Bottom()-1, '─')
	}
	for y := r.Y + 1; y < r.Bottom()-1; y++ {
		s.Set(r.X, y, '│')
		s.Set(r.Right()-1, y, '│')
	}
}

// DrawHLine draws a horizontal line from (x, y) with the given length.
func (s *Screen) DrawHLine(x, y, length int, r rune) {
	for i := range length {
		s.Set(x+i, y, r)
	}
}

// BlitImage draws img with its top-left pixel at cell (x, y).
// Each cell shows two vertically stacked pixels using half blocks, so the
// image covers ceil(h/2) rows. Pixels with alpha below 128 are treated as
// transparent and leave the terminal default showing.
func (s *Screen) BlitImage(x, y int, img image.Image) {
	b := img.Bounds()
	for py := b.Min.Y; py < b.Max.Y; py += 2 {
		cy := y + (py-b.Min.Y)/2
		if cy < 0 || cy >= s.height {
			continue
		}
		for px := b.Min.X; px < b.Max.X; px++ {
			cx := x + (px - b.Min.X)
			if cx < 0 || cx >= s.width {
				continue
			}
			top := opaque(img.At(px, py))
			var bottom color.NRGBA
			if py+1 < b.Max.Y {
				bottom = opaque(img.At(px, py+1))
			}
			s.cells[cy][cx] = halfBlock(top, bottom)
		}
	}
}

// opaque converts c to NRGBA, mapping mostly transparent pixels to unset.
func opaque(c color.Color) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A < 128 {
		return ColorNone
	}
	n.A = 255
	return n
}

func halfBlock(top, bottom color.NRGBA) Cell {
	switch {
	case IsSet(top) && IsSet(bottom):
		return Cell{Rune: UpperHalf, Fg: top, Bg: bottom}
	case IsSet(top):
		return Cell{Rune: UpperHalf, Fg: top}
	case IsSet(bottom):
		return Cell{Rune: LowerHalf, Fg: bottom}
	default:
		return blank
	}
}

// String converts the screen buffer to plain text, dropping colours.
// Each row is joined with newlines.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := range s.height {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := range s.width {
			sb.WriteRune(s.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Row returns the runes of the specified row as a string.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	var sb strings.Builder
	for _, c := range s.cells[y] {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}

// RowCells returns a copy of the cells in the specified row.
func (s *Screen) RowCells(y int) []Cell {
	if y < 0 || y >= s.height {
		return nil
	}
	out := make([]Cell, s.width)
	copy(out, s.cells[y])
	return out
}
