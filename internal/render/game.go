package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-flagdraw/internal/draw"
)

// ErrGameTerminated is returned when the game loop is terminated via context cancellation.
var ErrGameTerminated = errors.New("game terminated")

// ErrorHandler receives flush errors.
type ErrorHandler func(err error)

// DefaultErrorHandler writes errors to stderr.
func DefaultErrorHandler(err error) {
	fmt.Fprintf(os.Stderr, "draw error: %v\n", err)
}

// FrameObserver is told how long each flush took and how it ended.
type FrameObserver func(elapsed time.Duration, err error)

// Game implements ebiten.Game. Every frame it clears the canvas to the
// background color and flushes the scene onto it.
type Game struct {
	config       Config
	scene        Scene
	painterOpts  []draw.Option
	target       *ScreenTarget
	errorHandler ErrorHandler
	observer     FrameObserver
	err          error
	mu           sync.RWMutex
	running      bool
	ctx          context.Context
}

// NewGame creates a Game that draws scene. The options configure the painter
// used for every frame, typically with a font and an image store.
func NewGame(config Config, scene Scene, opts ...draw.Option) *Game {
	return &Game{
		config:       config,
		scene:        scene,
		painterOpts:  opts,
		target:       NewScreenTarget(config.AntiAlias),
		errorHandler: DefaultErrorHandler,
	}
}

// SetErrorHandler sets the handler for flush errors.
// If nil is passed, errors are not reported but still stop the loop when
// StopOnError is set.
func (g *Game) SetErrorHandler(handler ErrorHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errorHandler = handler
}

// SetFrameObserver sets a callback run after every flush.
func (g *Game) SetFrameObserver(fo FrameObserver) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.observer = fo
}

// SetContext sets a context for the game loop. When the context is cancelled,
// the game loop will terminate gracefully.
func (g *Game) SetContext(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctx = ctx
}

// SetScene replaces the scene drawn from the next frame on and clears a
// pending flush error.
func (g *Game) SetScene(scene Scene) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scene = scene
	g.err = nil
}

// Update implements ebiten.Game.Update.
func (g *Game) Update() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.ctx != nil {
		select {
		case <-g.ctx.Done():
			return ErrGameTerminated
		default:
		}
	}
	if g.err != nil && g.config.StopOnError {
		return g.err
	}
	return nil
}

// Draw implements ebiten.Game.Draw.
func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	defer g.mu.Unlock()

	screen.Fill(g.config.BackgroundColor)
	if g.scene == nil {
		return
	}

	g.target.BeginFrame(screen)
	start := time.Now()
	err := g.scene.Flush(draw.NewPainter(g.target, g.painterOpts...))
	if g.observer != nil {
		g.observer(time.Since(start), err)
	}
	if err == nil {
		return
	}
	// Report each distinct failure once rather than every frame.
	if g.err == nil || g.err.Error() != err.Error() {
		if g.errorHandler != nil {
			g.errorHandler(err)
		}
	}
	g.err = err
}

// Layout implements ebiten.Game.Layout.
// It returns the game's logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.config.Width, g.config.Height
}

// Config returns the current configuration.
func (g *Game) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config
}

// Err returns the last flush error, if any.
func (g *Game) Err() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.err
}

// Run opens the window and blocks until it is closed, the context is
// cancelled, or a flush fails with StopOnError set. Closing the window
// returns nil.
func (g *Game) Run() error {
	if err := g.config.Validate(); err != nil {
		return err
	}
	ebiten.SetWindowSize(int(float64(g.config.Width)*g.config.Scale), int(float64(g.config.Height)*g.config.Scale))
	ebiten.SetWindowTitle(g.config.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	err := ebiten.RunGame(g)

	g.mu.Lock()
	g.running = false
	g.mu.Unlock()

	if errors.Is(err, ErrGameTerminated) {
		return nil
	}
	return err
}

// IsRunning returns whether the game loop is currently running.
func (g *Game) IsRunning() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.running
}
