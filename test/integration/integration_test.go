//go:build integration

// Package integration provides end-to-end integration tests for flagdraw.
// These tests run Lua scripts through the scene buffer and both software
// rasterizers without opening a window.
package integration

import (
	"image"
	"image/color"
	stddraw "image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/opd-ai/go-flagdraw/internal/assets"
	"github.com/opd-ai/go-flagdraw/internal/config"
	"github.com/opd-ai/go-flagdraw/internal/draw"
	"github.com/opd-ai/go-flagdraw/internal/lua"
	"github.com/opd-ai/go-flagdraw/internal/raster"
	"github.com/opd-ai/go-flagdraw/internal/scene"
	"github.com/opd-ai/go-flagdraw/pkg/flagdraw"
)

var backends = []string{raster.BackendVector, raster.BackendGG}

// runScene executes code against a width x height canvas and returns the
// recorded shapes.
func runScene(t *testing.T, code string, width, height int) *scene.Buffer {
	t.Helper()
	runtime, err := lua.New(lua.DefaultConfig())
	if err != nil {
		t.Fatalf("lua.New failed: %v", err)
	}
	defer runtime.Close()

	buf := scene.NewBuffer()
	if _, err := lua.NewSceneModule(runtime, buf, lua.WithCanvasSize(width, height)); err != nil {
		t.Fatalf("NewSceneModule failed: %v", err)
	}
	if _, err := runtime.ExecuteString("scene", code); err != nil {
		t.Fatalf("script failed: %v", err)
	}
	return buf
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

// TestScriptToRaster draws the same scene with every backend and checks
// the bottom-left origin of scene coordinates.
func TestScriptToRaster(t *testing.T) {
	buf := runScene(t, `
draw_rectangle(0, 0, SCREEN_WIDTH, SCREEN_HEIGHT, "blue")
draw_circle(SCREEN_WIDTH / 2, SCREEN_HEIGHT / 2, "white", 60)
draw_rectangle(0, 0, 20, 20, "red")
`, 240, 240)
	if buf.Len() != 3 {
		t.Fatalf("recorded %d shapes, want 3", buf.Len())
	}

	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			surf, err := raster.New(backend, 240, 240)
			if err != nil {
				t.Fatal(err)
			}
			surf.Fill(color.Black)
			if err := buf.Flush(draw.NewPainter(surf)); err != nil {
				t.Fatalf("Flush failed: %v", err)
			}
			img := surf.Image()

			tests := []struct {
				name string
				x, y int
				want color.RGBA
			}{
				{"center", 120, 120, color.RGBA{R: 255, G: 255, B: 255, A: 255}},
				{"top left", 5, 5, color.RGBA{B: 255, A: 255}},
				{"bottom left", 5, 234, color.RGBA{R: 255, A: 255}},
			}
			for _, tt := range tests {
				if got := rgbaAt(img, tt.x, tt.y); got != tt.want {
					t.Errorf("%s (%d,%d) = %v, want %v", tt.name, tt.x, tt.y, got, tt.want)
				}
			}
		})
	}
}

// TestBackendsAgree checks that both rasterizers fill the same interior
// pixels for a scene with no edges near the sampled points.
func TestBackendsAgree(t *testing.T) {
	buf := runScene(t, `
draw_rectangle(0, 0, SCREEN_WIDTH, SCREEN_HEIGHT / 2, "green")
draw_star(60, 180, "yellow", 30)
draw_triangle(180, 60, "orange", 60, 60)
`, 240, 240)

	images := make([]image.Image, len(backends))
	for i, backend := range backends {
		surf, err := raster.New(backend, 240, 240)
		if err != nil {
			t.Fatal(err)
		}
		surf.Fill(color.White)
		if err := buf.Flush(draw.NewPainter(surf)); err != nil {
			t.Fatalf("%s: Flush failed: %v", backend, err)
		}
		images[i] = surf.Image()
	}

	for _, p := range []image.Point{{20, 220}, {20, 20}, {60, 60}, {230, 10}} {
		a, b := rgbaAt(images[0], p.X, p.Y), rgbaAt(images[1], p.X, p.Y)
		if a != b {
			t.Errorf("pixel %v: %s = %v, %s = %v", p, backends[0], a, backends[1], b)
		}
	}
}

// TestExamplesRender renders every embedded example with both backends.
func TestExamplesRender(t *testing.T) {
	names := lua.Examples()
	if len(names) == 0 {
		t.Fatal("no embedded examples")
	}

	for _, name := range names {
		for _, backend := range backends {
			t.Run(name+"/"+backend, func(t *testing.T) {
				b, err := config.ParseBackend(backend)
				if err != nil {
					t.Fatal(err)
				}
				s, err := flagdraw.NewFromFS(lua.ExampleFS(), name+".lua", &flagdraw.Options{
					Override: func(c *config.Config) { c.Output.Backend = b },
				})
				if err != nil {
					t.Fatalf("load failed: %v", err)
				}
				img, err := s.Render()
				if err != nil {
					t.Fatalf("Render failed: %v", err)
				}
				cfg := s.Config()
				if got := img.Bounds().Size(); got != image.Pt(cfg.Canvas.Width, cfg.Canvas.Height) {
					t.Errorf("bounds = %v, want %dx%d", got, cfg.Canvas.Width, cfg.Canvas.Height)
				}
				if s.Buffer().Len() == 0 {
					t.Error("example drew nothing")
				}
			})
		}
	}
}

// TestImagesFromDisk loads PNG files next to a script and draws them with
// their bottom-left corner at the given point.
func TestImagesFromDisk(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "images"), 0o755); err != nil {
		t.Fatal(err)
	}
	red := image.NewRGBA(image.Rect(0, 0, 10, 10))
	stddraw.Draw(red, red.Bounds(), image.NewUniform(color.RGBA{R: 255, A: 255}), image.Point{}, stddraw.Src)
	f, err := os.Create(filepath.Join(dir, "images", "red.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, red); err != nil {
		t.Fatal(err)
	}
	f.Close()

	script := filepath.Join(dir, "flag.lua")
	code := `
flags.config.width = 40
flags.config.height = 40
draw_image("red.png", 0, 0)
`
	if err := os.WriteFile(script, []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := assets.LoadImages(filepath.Join(dir, "images"))
	if err != nil {
		t.Fatalf("LoadImages failed: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("loaded %d images, want 1", store.Len())
	}

	s, err := flagdraw.New(script, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	img, err := s.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := rgbaAt(img, 5, 35); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("image pixel = %v, want red", got)
	}
	if got := rgbaAt(img, 20, 20); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("background pixel = %v, want white", got)
	}
}
