package core

import (
	"fmt"
	"image/color"
)

// Palette used by the platform chrome. Game art brings its own colours.
// ColorNone selects the terminal default.
var (
	ColorNone      = color.NRGBA{}
	ColorBlack     = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	ColorText      = color.NRGBA{R: 215, G: 252, B: 212, A: 255}
	ColorDim       = color.NRGBA{R: 120, G: 124, B: 140, A: 255}
	ColorHeart     = color.NRGBA{R: 230, G: 57, B: 70, A: 255}
	ColorLight     = color.NRGBA{R: 255, G: 209, B: 102, A: 255}
	ColorBannerFg  = color.NRGBA{R: 24, G: 31, B: 44, A: 255}
	ColorBannerBg  = color.NRGBA{R: 143, G: 136, B: 179, A: 255}
	ColorHighlight = color.NRGBA{R: 244, G: 162, B: 97, A: 255}
)

// IsSet reports whether c carries a colour rather than the terminal default.
func IsSet(c color.NRGBA) bool {
	return c.A != 0
}

// Hex formats c as "#rrggbb" for terminal styling.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
