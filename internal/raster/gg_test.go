package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"seehuhn.de/go/geom/vec"
)

func TestGGCanvas(t *testing.T) {
	c := NewGGCanvas(40, 20)
	defer c.Close()

	if w, h := c.Size(); w != 40 || h != 20 {
		t.Fatalf("Size() = %dx%d, want 40x20", w, h)
	}

	c.Fill(white)
	c.FillPolygon([]vec.Vec2{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 20}, {X: 0, Y: 20}}, blue)
	c.FillPolygon([]vec.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}}, red)
	c.FillCircle(vec.Vec2{X: 30, Y: 10}, 0, red)
	if err := c.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}

	patch := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range patch.Pix {
		if i%4 == 0 || i%4 == 3 {
			patch.Pix[i] = 0xff
		}
	}
	c.Blit(patch, vec.Vec2{X: 30.4, Y: 2.6})
	c.Blit(nil, vec.Vec2{})

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"square", 10, 10, blue},
		{"background", 25, 15, white},
		{"blit rounded", 31, 4, red},
	}
	for _, tt := range tests {
		if got := at(img, tt.x, tt.y); got != tt.want {
			t.Errorf("%s (%d,%d) = %v, want %v", tt.name, tt.x, tt.y, got, tt.want)
		}
	}
}
