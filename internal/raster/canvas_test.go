package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"seehuhn.de/go/geom/vec"

	"github.com/opd-ai/go-flagdraw/internal/draw"
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	red   = color.RGBA{R: 255, A: 255}
)

func at(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

// TestBlueSquareWhiteDisc paints the canonical exercise: a blue square over
// the whole canvas with a white disc of radius 60 in the middle.
func TestBlueSquareWhiteDisc(t *testing.T) {
	for _, backend := range []string{BackendVector, BackendGG} {
		t.Run(backend, func(t *testing.T) {
			s, err := New(backend, 240, 240)
			if err != nil {
				t.Fatal(err)
			}
			s.Fill(white)
			p := draw.NewPainter(s)
			p.DrawRectangle(0, 0, 240, 240, blue, 0)
			p.DrawCircle(120, 120, white, 60)
			img := s.Image()

			for _, pt := range []image.Point{{0, 0}, {239, 0}, {0, 239}, {239, 239}, {120, 20}, {20, 120}} {
				if got := at(img, pt.X, pt.Y); got != blue {
					t.Errorf("pixel %v = %v, want blue", pt, got)
				}
			}
			for y := 0; y < 240; y += 7 {
				for x := 0; x < 240; x += 7 {
					d := math.Hypot(float64(x)+0.5-120, float64(y)+0.5-120)
					got := at(img, x, y)
					switch {
					case d < 58 && got != white:
						t.Fatalf("pixel (%d,%d) at distance %.1f = %v, want white", x, y, d, got)
					case d > 62 && got != blue:
						t.Fatalf("pixel (%d,%d) at distance %.1f = %v, want blue", x, y, d, got)
					}
				}
			}
		})
	}
}

func TestCanvasStarCenterFilled(t *testing.T) {
	c := NewCanvas(100, 100)
	c.Fill(white)
	p := draw.NewPainter(c)
	p.DrawStar(50, 50, red, 40, 5, 0)
	if got := at(c.Image(), 50, 50); got != red {
		t.Errorf("star center = %v, want red", got)
	}
	// between two outer points, outside the inner radius
	if got := at(c.Image(), 50, 88); got != white {
		t.Errorf("notch pixel = %v, want white", got)
	}
}

func TestCanvasRotatedRectangle(t *testing.T) {
	c := NewCanvas(100, 100)
	c.Fill(white)
	p := draw.NewPainter(c)
	// a 60x10 bar rotated by 90 degrees stands upright
	p.DrawRectangle(20, 45, 60, 10, blue, 90)
	if got := at(c.Image(), 50, 25); got != blue {
		t.Errorf("upright bar missing at (50,25): %v", got)
	}
	if got := at(c.Image(), 25, 50); got != white {
		t.Errorf("unrotated bar drawn at (25,50): %v", got)
	}
}

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(10, 10)
	c.DrawLine(vec.Vec2{X: 0, Y: 5}, vec.Vec2{X: 10, Y: 5}, red)
	if _, _, _, a := c.Image().At(5, 4).RGBA(); a == 0 {
		if _, _, _, a := c.Image().At(5, 5).RGBA(); a == 0 {
			t.Error("line left no coverage near y=5")
		}
	}
	if _, _, _, a := c.Image().At(5, 0).RGBA(); a != 0 {
		t.Error("line painted far away from its path")
	}
	c.DrawLine(vec.Vec2{X: 3, Y: 3}, vec.Vec2{X: 3, Y: 3}, red)
}

func TestCanvasDegenerate(t *testing.T) {
	c := NewCanvas(10, 10)
	c.FillCircle(vec.Vec2{X: 5, Y: 5}, 0, red)
	c.FillCircle(vec.Vec2{X: 5, Y: 5}, -3, red)
	c.FillPolygon([]vec.Vec2{{X: 1, Y: 1}, {X: 9, Y: 9}}, red)
	c.Blit(nil, vec.Vec2{})
	b := c.RGBA()
	for _, v := range b.Pix {
		if v != 0 {
			t.Fatal("degenerate shapes painted pixels")
		}
	}
}

func TestCanvasBlit(t *testing.T) {
	c := NewCanvas(20, 20)
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	c.Blit(src, vec.Vec2{X: 10.4, Y: 2.6})
	if got := at(c.Image(), 10, 3); got != white {
		t.Errorf("blit top-left = %v, want white", got)
	}
	if got := at(c.Image(), 14, 3); got != (color.RGBA{}) {
		t.Errorf("blit overflowed: %v", got)
	}
}

func TestEncodePNG(t *testing.T) {
	for _, backend := range []string{BackendVector, BackendGG} {
		t.Run(backend, func(t *testing.T) {
			s, err := New(backend, 16, 8)
			if err != nil {
				t.Fatal(err)
			}
			s.Fill(red)
			var buf bytes.Buffer
			if err := s.EncodePNG(&buf); err != nil {
				t.Fatalf("EncodePNG() error = %v", err)
			}
			img, err := png.Decode(&buf)
			if err != nil {
				t.Fatal(err)
			}
			if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
				t.Errorf("decoded bounds = %v", b)
			}
		})
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New("opengl", 10, 10); err == nil {
		t.Error("New accepted an unknown backend")
	}
	if _, err := New(BackendVector, 0, 10); err == nil {
		t.Error("New accepted a zero width")
	}
}
