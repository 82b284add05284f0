package core_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/core"
)

// sampleImage returns a 2x2 image with distinct colours and alphas.
func sampleImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 51, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 128})
	img.SetNRGBA(0, 1, color.NRGBA{R: 1, G: 3, B: 7, A: 0})
	img.SetNRGBA(1, 1, color.NRGBA{R: 90, G: 60, B: 30, A: 200})
	return img
}

func TestClassify(t *testing.T) {
	viewer := core.P(5, 5)

	tests := []struct {
		name   string
		tile   core.Position
		radius int
		want   core.Visibility
	}{
		{"viewer cell at radius 1", core.P(5, 5), 1, core.VisibilityLit},
		{"adjacent at radius 1", core.P(6, 5), 1, core.VisibilityDim},
		{"diagonal at radius 1", core.P(4, 4), 1, core.VisibilityDim},
		{"two away at radius 1", core.P(7, 5), 1, core.VisibilityDark},
		{"two away at radius 2", core.P(7, 6), 2, core.VisibilityDim},
		{"adjacent at radius 2", core.P(6, 6), 2, core.VisibilityLit},
		{"viewer cell at radius 0", core.P(5, 5), 0, core.VisibilityDim},
		{"far corner", core.P(0, 0), 4, core.VisibilityDark},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := core.Classify(tc.tile, viewer, tc.radius)
			if got != tc.want {
				t.Errorf("Classify(%v, %v, %d) = %v, expected %v", tc.tile, viewer, tc.radius, got, tc.want)
			}
		})
	}
}

func TestApplyVisibilityPixels(t *testing.T) {
	src := sampleImage()
	viewer := core.P(0, 0)

	tests := []struct {
		name string
		tile core.Position
		want func(c color.NRGBA) color.NRGBA
	}{
		{
			name: "lit keeps pixels",
			tile: core.P(0, 0),
			want: func(c color.NRGBA) color.NRGBA { return c },
		},
		{
			name: "dim halves rgb",
			tile: core.P(1, 1),
			want: func(c color.NRGBA) color.NRGBA {
				return color.NRGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A}
			},
		},
		{
			name: "dark blacks rgb",
			tile: core.P(3, 0),
			want: func(c color.NRGBA) color.NRGBA {
				return color.NRGBA{A: c.A}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := core.ApplyVisibility(src, tc.tile, viewer, 1)
			if out.Bounds() != src.Bounds() {
				t.Fatalf("bounds changed: %v -> %v", src.Bounds(), out.Bounds())
			}
			for y := range 2 {
				for x := range 2 {
					want := tc.want(src.NRGBAAt(x, y))
					if got := out.NRGBAAt(x, y); got != want {
						t.Errorf("pixel (%d,%d) = %v, expected %v", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestApplyVisibilityDoesNotMutateInput(t *testing.T) {
	src := sampleImage()
	before := append([]byte(nil), src.Pix...)

	out := core.ApplyVisibility(src, core.P(9, 9), core.P(0, 0), 1)
	out.Pix[0] = 42

	for i := range before {
		if src.Pix[i] != before[i] {
			t.Fatalf("input modified at byte %d", i)
		}
	}
}

func TestApplyVisibilityIdempotent(t *testing.T) {
	src := sampleImage()

	for _, tile := range []core.Position{core.P(0, 0), core.P(1, 0), core.P(5, 0)} {
		a := core.ApplyVisibility(src, tile, core.P(0, 0), 1)
		b := core.ApplyVisibility(src, tile, core.P(0, 0), 1)
		if string(a.Pix) != string(b.Pix) {
			t.Errorf("tile %v: repeated application differs", tile)
		}
	}

	// Darkening something already dark changes nothing
	dark := core.ApplyClass(src, core.VisibilityDark)
	again := core.ApplyClass(dark, core.VisibilityDark)
	if string(dark.Pix) != string(again.Pix) {
		t.Error("dark filter is not idempotent on its own output")
	}
}

func TestApplyVisibilityConvertsRGBA(t *testing.T) {
	// Opaque RGBA converts without loss
	src := image.NewRGBA(image.Rect(3, 3, 4, 4))
	src.SetRGBA(3, 3, color.RGBA{R: 100, G: 40, B: 20, A: 255})

	out := core.ApplyClass(src, core.VisibilityDim)
	if out.Bounds().Min != (image.Point{}) {
		t.Errorf("expected output anchored at origin, got %v", out.Bounds())
	}
	want := color.NRGBA{R: 50, G: 20, B: 10, A: 255}
	if got := out.NRGBAAt(0, 0); got != want {
		t.Errorf("got %v, expected %v", got, want)
	}
}

func TestVisibilityFilterCaches(t *testing.T) {
	f := core.NewVisibilityFilter()
	src := sampleImage()
	key := core.SpriteKey{Layer: core.LayerMap, Tile: 7}
	viewer := core.P(0, 0)

	a := f.Apply(key, src, core.P(5, 0), viewer, 1)
	b := f.Apply(key, src, core.P(0, 6), viewer, 1)
	if a != b {
		t.Error("two dark cells of the same sprite should share one image")
	}
	if f.Len() != 1 {
		t.Errorf("expected 1 cached image, got %d", f.Len())
	}

	f.Apply(key, src, core.P(1, 0), viewer, 1)
	f.Apply(key, src, core.P(0, 0), viewer, 1)
	if f.Len() != 3 {
		t.Errorf("expected 3 cached images (dark, dim, lit), got %d", f.Len())
	}

	other := core.SpriteKey{Layer: core.LayerEnemies, Kind: "enemy1"}
	f.Apply(other, src, core.P(5, 0), viewer, 1)
	if f.Len() != 4 {
		t.Errorf("expected distinct sprite to get its own entry, got %d", f.Len())
	}
}

func TestVisibilityFilterNil(t *testing.T) {
	var f *core.VisibilityFilter
	out := f.Apply(core.SpriteKey{}, sampleImage(), core.P(5, 5), core.P(0, 0), 1)
	if c := out.(*image.NRGBA).NRGBAAt(0, 0); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("expected dark pixel from nil filter, got %v", c)
	}
}
