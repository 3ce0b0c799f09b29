package render

import (
	"errors"
	"image/color"
	"testing"

	"github.com/opd-ai/go-flagdraw/internal/draw"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Width != 240 || config.Height != 240 {
		t.Errorf("size = %dx%d, want 240x240", config.Width, config.Height)
	}
	if config.Title != "flagdraw" {
		t.Errorf("Title = %q, want %q", config.Title, "flagdraw")
	}
	if config.Scale != 1 {
		t.Errorf("Scale = %g, want 1", config.Scale)
	}
	if config.BackgroundColor != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("BackgroundColor = %v, want white", config.BackgroundColor)
	}
	if !config.AntiAlias || !config.StopOnError {
		t.Errorf("AntiAlias = %v, StopOnError = %v, want both true", config.AntiAlias, config.StopOnError)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "zero width", modify: func(c *Config) { c.Width = 0 }, wantErr: true},
		{name: "negative height", modify: func(c *Config) { c.Height = -10 }, wantErr: true},
		{name: "zero scale", modify: func(c *Config) { c.Scale = 0 }, wantErr: true},
		{name: "fractional scale", modify: func(c *Config) { c.Scale = 0.5 }},
		{name: "wide canvas", modify: func(c *Config) { c.Width, c.Height = 900, 100 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(&config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSceneFunc(t *testing.T) {
	boom := errors.New("boom")
	var got *draw.Painter
	scene := SceneFunc(func(p *draw.Painter) error {
		got = p
		return boom
	})

	p := draw.NewPainter(nil)
	if err := scene.Flush(p); !errors.Is(err, boom) {
		t.Errorf("Flush() = %v, want %v", err, boom)
	}
	if got != p {
		t.Error("Flush did not pass the painter through")
	}
}
