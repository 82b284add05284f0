package core

import (
	"image"
	"image/draw"
)

// Visibility classifies how much of a cell the hero can see.
type Visibility uint8

const (
	VisibilityLit  Visibility = iota // inside the radius, drawn unchanged
	VisibilityDim                    // exactly on the radius, drawn at half brightness
	VisibilityDark                   // outside the radius, drawn black
)

// String returns the visibility name.
func (v Visibility) String() string {
	switch v {
	case VisibilityLit:
		return "lit"
	case VisibilityDim:
		return "dim"
	case VisibilityDark:
		return "dark"
	default:
		return "unknown"
	}
}

// Classify returns the visibility of tile as seen from viewer.
// Walls do not occlude: the lit area is a Chebyshev square around the viewer.
func Classify(tile, viewer Position, radius int) Visibility {
	d := tile.Chebyshev(viewer)
	switch {
	case d > radius:
		return VisibilityDark
	case d == radius:
		return VisibilityDim
	default:
		return VisibilityLit
	}
}

// ApplyVisibility returns a copy of img darkened according to the distance
// between tile and viewer. Alpha is never changed.
func ApplyVisibility(img image.Image, tile, viewer Position, radius int) *image.NRGBA {
	return ApplyClass(img, Classify(tile, viewer, radius))
}

// ApplyClass returns a copy of img with the per-pixel rule for v applied.
func ApplyClass(img image.Image, v Visibility) *image.NRGBA {
	out := toNRGBA(img)
	if v == VisibilityLit {
		return out
	}
	for i := 0; i+3 < len(out.Pix); i += 4 {
		switch v {
		case VisibilityDark:
			out.Pix[i], out.Pix[i+1], out.Pix[i+2] = 0, 0, 0
		case VisibilityDim:
			out.Pix[i] /= 2
			out.Pix[i+1] /= 2
			out.Pix[i+2] /= 2
		}
	}
	return out
}

// toNRGBA copies img into a fresh non-premultiplied buffer anchored at (0,0).
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			srcOff := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()*4], src.Pix[srcOff:srcOff+b.Dx()*4])
		}
		return out
	}
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// SpriteKey identifies a source image for memoization.
type SpriteKey struct {
	Layer Layer
	Tile  TileID
	Kind  string
	Frame Frame
}

type filterKey struct {
	sprite SpriteKey
	vis    Visibility
}

// VisibilityFilter memoizes ApplyClass results per sprite and visibility
// class. Results are shared between calls and must not be modified.
// A filter belongs to one session and is not safe for concurrent use.
type VisibilityFilter struct {
	cache map[filterKey]*image.NRGBA
}

// NewVisibilityFilter creates an empty filter cache.
func NewVisibilityFilter() *VisibilityFilter {
	return &VisibilityFilter{cache: make(map[filterKey]*image.NRGBA)}
}

// Apply returns img filtered for the given tile, viewer and radius.
func (f *VisibilityFilter) Apply(key SpriteKey, img image.Image, tile, viewer Position, radius int) image.Image {
	if f == nil {
		return ApplyVisibility(img, tile, viewer, radius)
	}
	k := filterKey{sprite: key, vis: Classify(tile, viewer, radius)}
	if cached, ok := f.cache[k]; ok {
		return cached
	}
	out := ApplyClass(img, k.vis)
	f.cache[k] = out
	return out
}

// Len returns the number of cached images.
func (f *VisibilityFilter) Len() int {
	return len(f.cache)
}
