//go:build !noebiten

package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"seehuhn.de/go/geom/vec"

	"github.com/opd-ai/go-flagdraw/internal/draw"
)

// countingScene records how often it was flushed and fails with err.
type countingScene struct {
	mu      sync.Mutex
	flushes int
	err     error
}

func (s *countingScene) Flush(p *draw.Painter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++
	p.DrawRectangle(0, 0, 10, 10, color.Black, 0)
	return s.err
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.Width != 240 || c.Height != 240 {
		t.Errorf("size = %dx%d, want 240x240", c.Width, c.Height)
	}
	if c.BackgroundColor != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("background = %v, want white", c.BackgroundColor)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"zero scale", func(c *Config) { c.Scale = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)
			if err := c.Validate(); err == nil {
				t.Error("Validate() accepted an invalid config")
			}
		})
	}
}

func TestGameLayout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.Scale = 300, 200, 2
	game := NewGame(cfg, nil)
	w, h := game.Layout(600, 400)
	if w != 300 || h != 200 {
		t.Errorf("Layout() = %d, %d, want 300, 200", w, h)
	}
}

func TestGameDrawFlushesEveryFrame(t *testing.T) {
	scene := &countingScene{}
	game := NewGame(DefaultConfig(), scene)
	screen := ebiten.NewImage(240, 240)

	for i := 0; i < 3; i++ {
		game.Draw(screen)
	}
	if scene.flushes != 3 {
		t.Errorf("flushes = %d, want 3", scene.flushes)
	}
	if err := game.Update(); err != nil {
		t.Errorf("Update() error = %v", err)
	}
}

func TestGameStopsOnFlushError(t *testing.T) {
	wantErr := errors.New("boom")
	scene := &countingScene{err: wantErr}
	game := NewGame(DefaultConfig(), scene)

	var reported []error
	game.SetErrorHandler(func(err error) { reported = append(reported, err) })

	screen := ebiten.NewImage(240, 240)
	game.Draw(screen)
	game.Draw(screen)

	if len(reported) != 1 {
		t.Errorf("error reported %d times, want once", len(reported))
	}
	if err := game.Update(); !errors.Is(err, wantErr) {
		t.Errorf("Update() error = %v, want %v", err, wantErr)
	}

	game.SetScene(&countingScene{})
	if err := game.Update(); err != nil {
		t.Errorf("Update() after SetScene error = %v", err)
	}
}

func TestGameKeepsRunningWithoutStopOnError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StopOnError = false
	game := NewGame(cfg, &countingScene{err: errors.New("boom")})
	game.SetErrorHandler(nil)
	game.Draw(ebiten.NewImage(240, 240))

	if err := game.Update(); err != nil {
		t.Errorf("Update() error = %v, want nil", err)
	}
	if game.Err() == nil {
		t.Error("Err() = nil, want the flush error")
	}
}

func TestGameFrameObserver(t *testing.T) {
	game := NewGame(DefaultConfig(), &countingScene{})
	var frames int
	game.SetFrameObserver(func(d time.Duration, err error) {
		frames++
		if d < 0 || err != nil {
			t.Errorf("observer got %v, %v", d, err)
		}
	})
	game.Draw(ebiten.NewImage(240, 240))
	if frames != 1 {
		t.Errorf("observer ran %d times, want 1", frames)
	}
}

func TestGameSetContext(t *testing.T) {
	game := NewGame(DefaultConfig(), &countingScene{})

	ctx, cancel := context.WithCancel(context.Background())
	game.SetContext(ctx)

	if err := game.Update(); err != nil {
		t.Errorf("Update() error = %v, want nil", err)
	}

	cancel()

	if err := game.Update(); err != ErrGameTerminated {
		t.Errorf("Update() error = %v, want %v", err, ErrGameTerminated)
	}
}

func TestGameIsRunning(t *testing.T) {
	if NewGame(DefaultConfig(), nil).IsRunning() {
		t.Error("IsRunning() = true before Run")
	}
}

func TestSceneFunc(t *testing.T) {
	called := false
	var s Scene = SceneFunc(func(p *draw.Painter) error {
		called = true
		return nil
	})
	if err := s.Flush(nil); err != nil || !called {
		t.Errorf("SceneFunc.Flush() = %v, called %v", err, called)
	}
}

func TestScreenTargetTextureCache(t *testing.T) {
	target := NewScreenTarget(true)
	screen := ebiten.NewImage(20, 20)
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	target.BeginFrame(screen)
	target.Blit(img, vec.Vec2{X: 1, Y: 1})
	target.Blit(img, vec.Vec2{X: 5, Y: 5})
	if len(target.textures) != 1 {
		t.Fatalf("textures = %d, want 1", len(target.textures))
	}

	target.BeginFrame(screen)
	target.Blit(img, vec.Vec2{})
	if len(target.textures) != 1 {
		t.Errorf("texture evicted while still in use")
	}

	target.BeginFrame(screen)
	target.BeginFrame(screen)
	if len(target.textures) != 0 {
		t.Errorf("unused texture kept: %d", len(target.textures))
	}
}

func TestScreenTargetSize(t *testing.T) {
	target := NewScreenTarget(false)
	target.BeginFrame(ebiten.NewImage(30, 40))
	if w, h := target.Size(); w != 30 || h != 40 {
		t.Errorf("Size() = %d, %d", w, h)
	}
}

func TestUnpremultiply(t *testing.T) {
	tests := []struct {
		in         color.RGBA
		r, g, b, a float32
	}{
		{color.RGBA{R: 255, A: 255}, 1, 0, 0, 1},
		{color.RGBA{}, 0, 0, 0, 0},
		{color.RGBA{G: 128, A: 128}, 0, 1, 0, 128.0 / 255},
	}
	for _, tt := range tests {
		r, g, b, a := unpremultiply(tt.in)
		if abs32(r-tt.r) > 1e-4 || abs32(g-tt.g) > 1e-4 || abs32(b-tt.b) > 1e-4 || abs32(a-tt.a) > 1e-4 {
			t.Errorf("unpremultiply(%v) = %v %v %v %v", tt.in, r, g, b, a)
		}
	}
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
