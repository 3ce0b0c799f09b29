//go:build !noebiten

package flagdraw

import (
	"context"
	"time"

	"github.com/opd-ai/go-flagdraw/internal/render"
)

// Run opens a window showing the scene and blocks until the window is
// closed or ctx is cancelled. Without watching, a shape that fails to draw
// ends the loop and its error is returned. While watching, the error is
// logged and the window waits for a fixed script.
func (s *Sketch) Run(ctx context.Context) error {
	cfg := s.Config()
	watch := s.opts.Watch || cfg.Window.Watch

	game := render.NewGame(render.Config{
		Width:           cfg.Canvas.Width,
		Height:          cfg.Canvas.Height,
		Title:           cfg.Window.Title,
		Scale:           cfg.Window.Scale,
		BackgroundColor: cfg.Canvas.Background,
		AntiAlias:       cfg.Canvas.AntiAlias,
		StopOnError:     !watch,
	}, render.SceneFunc(s.flush))

	game.SetContext(ctx)
	game.SetErrorHandler(func(err error) {
		s.setErr(wrapError(CategoryRender, "flush", err))
		s.logger.Error("flush failed", "script", s.src.name, "error", err)
	})
	game.SetFrameObserver(func(elapsed time.Duration, err error) {
		s.metrics.IncrementFrames()
		s.metrics.RecordFlush(elapsed, s.Buffer().Len(), err)
	})

	if watch {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		s.setOnSwap(func(prev, next *sceneState) {
			if next.cfg.Canvas != prev.cfg.Canvas || next.cfg.Window != prev.cfg.Window {
				s.logger.Warn("canvas and window settings apply after a restart")
			}
			// Clears the pending flush error.
			game.SetScene(render.SceneFunc(s.flush))
		})
		defer s.setOnSwap(nil)

		go func() {
			if err := s.Watch(ctx, nil); err != nil {
				s.logger.Warn("hot reload disabled", "error", err)
			}
		}()
	}

	s.logger.Info("window opened", "title", cfg.Window.Title,
		"width", cfg.Canvas.Width, "height", cfg.Canvas.Height, "watch", watch)
	if err := game.Run(); err != nil {
		return wrapError(CategoryRender, "run", err)
	}
	return nil
}

func (s *Sketch) setOnSwap(fn func(prev, next *sceneState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSwap = fn
}
