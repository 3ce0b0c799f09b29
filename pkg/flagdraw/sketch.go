package flagdraw

import (
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"
	"time"

	rt "github.com/arnodel/golua/runtime"
	"golang.org/x/crypto/blake2b"
	xdraw "golang.org/x/image/draw"

	"github.com/opd-ai/go-flagdraw/internal/assets"
	"github.com/opd-ai/go-flagdraw/internal/config"
	"github.com/opd-ai/go-flagdraw/internal/draw"
	"github.com/opd-ai/go-flagdraw/internal/lua"
	"github.com/opd-ai/go-flagdraw/internal/profiling"
	"github.com/opd-ai/go-flagdraw/internal/raster"
	"github.com/opd-ai/go-flagdraw/internal/scene"
)

// ErrNoOutput is returned by Capture when no output path is configured.
var ErrNoOutput = errors.New("no output path configured")

// Sketch is a loaded flag script: the configuration it produced, the
// shapes it recorded and the images and font they are drawn with.
// It is safe for concurrent use; a reload replaces the whole scene at once.
type Sketch struct {
	src      source
	opts     Options
	logger   Logger
	metrics  *Metrics
	reloads  *profiling.ReloadTracker
	watching atomic.Bool

	mu       sync.RWMutex
	state    *sceneState
	loads    int
	loadedAt time.Time
	lastErr  error
	onSwap   func(prev, next *sceneState)
}

// sceneState is everything one load produces. It is never modified after
// the load that built it.
type sceneState struct {
	cfg    config.Config
	buf    *scene.Buffer
	images *assets.ImageStore
	font   draw.Font
	// digest identifies the script source the scene was recorded from.
	digest [blake2b.Size256]byte
}

// New loads the script at scriptPath. Images are read from the configured
// images directory, relative to the script's directory.
func New(scriptPath string, opts *Options) (*Sketch, error) {
	return newSketch(diskSource(scriptPath), opts)
}

// NewFromFS loads the script at scriptPath in fsys. Images are read from
// fsys, relative to the script's directory. Embedded scripts cannot be
// watched.
//
// Example:
//
//	//go:embed flags
//	var flagsFS embed.FS
//
//	s, err := flagdraw.NewFromFS(flagsFS, "flags/tricolore.lua", nil)
func NewFromFS(fsys fs.FS, scriptPath string, opts *Options) (*Sketch, error) {
	return newSketch(fsSource(fsys, scriptPath), opts)
}

func newSketch(src source, opts *Options) (*Sketch, error) {
	var o Options
	if opts != nil {
		o = *opts
	}
	o = o.withDefaults()

	s := &Sketch{
		src:     src,
		opts:    o,
		logger:  o.Logger,
		metrics: o.Metrics,
		reloads: profiling.NewReloadTracker(0, 0),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load runs the script again and replaces the current scene. On failure
// the previous scene is kept.
func (s *Sketch) Load() error {
	start := time.Now()
	st, err := s.load()
	if err != nil {
		s.metrics.RecordLoad(time.Since(start), 0, 0, err)
		s.setErr(err)
		s.logger.Error("script load failed", "script", s.src.name, "error", err)
		return err
	}
	s.metrics.RecordLoad(time.Since(start), st.buf.Len(), st.images.Len(), nil)

	s.mu.Lock()
	prev := s.state
	s.state = st
	s.loads++
	s.loadedAt = time.Now()
	s.lastErr = nil
	onSwap := s.onSwap
	s.mu.Unlock()

	s.reloads.Record(profiling.TakeSnapshot(st.buf.Len()))
	if prev != nil && prev.digest == st.digest {
		s.logger.Debug("script unchanged since the last load", "script", s.src.name)
	}
	s.logger.Info("scene loaded",
		"script", s.src.name,
		"digest", st.shortDigest(),
		"shapes", st.buf.Len(),
		"images", st.images.Len(),
		"width", st.cfg.Canvas.Width,
		"height", st.cfg.Canvas.Height,
		"elapsed", time.Since(start))

	if onSwap != nil {
		onSwap(prev, st)
	}
	return nil
}

func (s *Sketch) load() (*sceneState, error) {
	code, err := s.src.read()
	if err != nil {
		return nil, wrapError(CategoryIO, "read script", err)
	}

	base, err := s.loadConfig(nil)
	if err != nil {
		return nil, wrapError(CategoryConfig, "load config", err)
	}

	buf, table, err := s.runScript(code, base.Canvas.Width, base.Canvas.Height)
	if err != nil {
		return nil, wrapError(CategoryScript, "run script", err)
	}

	cfg, err := s.loadConfig(table)
	if err != nil {
		return nil, wrapError(CategoryConfig, "script config", err)
	}

	// SCREEN_WIDTH and SCREEN_HEIGHT were wrong for the first run.
	if cfg.Canvas.Width != base.Canvas.Width || cfg.Canvas.Height != base.Canvas.Height {
		s.logger.Debug("canvas size set by script, running it again",
			"width", cfg.Canvas.Width, "height", cfg.Canvas.Height)
		buf, _, err = s.runScript(code, cfg.Canvas.Width, cfg.Canvas.Height)
		if err != nil {
			return nil, wrapError(CategoryScript, "run script", err)
		}
	}

	images, err := s.src.loadImages(cfg.Assets.ImagesDir)
	if err != nil {
		return nil, wrapError(CategoryAssets, "load images", err)
	}
	s.logger.Debug("images loaded", "dir", cfg.Assets.ImagesDir, "count", images.Len())

	font, err := assets.NewFont(cfg.Assets.Font, cfg.Assets.FontSize)
	if err != nil {
		return nil, wrapError(CategoryAssets, "load font", err)
	}

	return &sceneState{
		cfg:    *cfg,
		buf:    buf,
		images: images,
		font:   font,
		digest: blake2b.Sum256(code),
	}, nil
}

// shortDigest is the first bytes of the script digest, for log lines.
func (st *sceneState) shortDigest() string {
	return hex.EncodeToString(st.digest[:6])
}

// loadConfig merges every configuration source. table is the script's
// flags.config table, nil before the script has run.
func (s *Sketch) loadConfig(table *rt.Table) (*config.Config, error) {
	src := config.Sources{File: s.opts.ConfigFile, Script: table}
	if s.opts.UseEnv {
		src.Lookup = os.LookupEnv
	}
	cfg, err := config.Load(src)
	if err != nil {
		return nil, err
	}
	if s.opts.Override != nil {
		s.opts.Override(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// runScript executes code in a fresh Lua runtime with a canvas of the
// given size and returns the shapes it recorded.
func (s *Sketch) runScript(code []byte, width, height int) (*scene.Buffer, *rt.Table, error) {
	rc := lua.DefaultConfig()
	rc.Stdout = s.opts.Stdout
	if s.opts.LuaCPULimit > 0 {
		rc.CPULimit = s.opts.LuaCPULimit
	}
	if s.opts.LuaMemoryLimit > 0 {
		rc.MemoryLimit = s.opts.LuaMemoryLimit
	}

	runtime, err := lua.New(rc)
	if err != nil {
		return nil, nil, err
	}
	defer runtime.Close()

	buf := scene.NewBuffer()
	module, err := lua.NewSceneModule(runtime, buf, lua.WithCanvasSize(width, height))
	if err != nil {
		return nil, nil, err
	}

	closure, err := runtime.Load(s.src.name, code)
	if err != nil {
		return nil, nil, err
	}
	if _, err := runtime.Execute(closure); err != nil {
		return nil, nil, err
	}
	return buf, module.ConfigTable(), nil
}

func (s *Sketch) current() *sceneState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Sketch) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

// Buffer returns the shapes recorded by the last successful load. The
// buffer is shared; do not modify it.
func (s *Sketch) Buffer() *scene.Buffer {
	return s.current().buf
}

// Config returns the configuration of the current scene.
func (s *Sketch) Config() config.Config {
	return s.current().cfg
}

// Metrics returns the metrics collector of the sketch.
func (s *Sketch) Metrics() *Metrics {
	return s.metrics
}

// Status returns a summary of the current scene.
func (s *Sketch) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		Source:    s.src.name,
		Loads:     s.loads,
		LoadedAt:  s.loadedAt,
		Shapes:    s.state.buf.Len(),
		Images:    s.state.images.Len(),
		Width:     s.state.cfg.Canvas.Width,
		Height:    s.state.cfg.Canvas.Height,
		Digest:    hex.EncodeToString(s.state.digest[:]),
		Watching:  s.watching.Load(),
		LastError: s.lastErr,
	}
}

// Render draws the current scene on an off-screen surface of the
// configured backend. When a shape fails to draw, the image holds the
// shapes drawn before it and the error is returned with it.
func (s *Sketch) Render() (image.Image, error) {
	surf, err := s.rasterize()
	if surf == nil {
		return nil, err
	}
	defer closeSurface(surf)

	src := surf.Image()
	img := image.NewRGBA(src.Bounds())
	xdraw.Draw(img, img.Bounds(), src, src.Bounds().Min, xdraw.Src)
	return img, err
}

// WritePNG renders the current scene and encodes it to w. Nothing is
// written when a shape fails to draw.
func (s *Sketch) WritePNG(w io.Writer) error {
	surf, err := s.rasterize()
	if surf == nil {
		return err
	}
	defer closeSurface(surf)
	if err != nil {
		return err
	}
	if err := surf.EncodePNG(w); err != nil {
		return wrapError(CategoryIO, "encode png", err)
	}
	return nil
}

// SavePNG renders the current scene into the PNG file at path.
func (s *Sketch) SavePNG(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return wrapError(CategoryIO, "save png", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = wrapError(CategoryIO, "save png", cerr)
		}
	}()

	if err := s.WritePNG(f); err != nil {
		return err
	}
	s.logger.Info("capture written", "path", path)
	return nil
}

// Capture saves the scene to the output path of the configuration.
func (s *Sketch) Capture() error {
	path := s.Config().Output.Path
	if path == "" {
		return wrapError(CategoryConfig, "capture", ErrNoOutput)
	}
	return s.SavePNG(path)
}

func (s *Sketch) rasterize() (raster.Surface, error) {
	st := s.current()
	w, h := st.cfg.Canvas.Width, st.cfg.Canvas.Height

	surf, err := raster.New(st.cfg.Output.Backend.String(), w, h)
	if err != nil {
		return nil, wrapError(CategoryRender, "render", err)
	}
	surf.Fill(st.cfg.Canvas.Background)

	start := time.Now()
	err = st.paint(surf)
	if e, ok := surf.(interface{ Err() error }); ok && err == nil {
		err = e.Err()
	}
	s.metrics.RecordFlush(time.Since(start), st.buf.Len(), err)
	s.metrics.IncrementCaptures()

	if err != nil {
		err = wrapError(CategoryRender, "render", err)
		s.setErr(err)
		s.logger.Error("render failed", "script", s.src.name, "error", err)
		return surf, err
	}
	s.logger.Debug("scene rendered", "backend", st.cfg.Output.Backend, "shapes", st.buf.Len(),
		"elapsed", time.Since(start))
	return surf, nil
}

// paint replays the scene onto target with the scene's own font and images.
func (st *sceneState) paint(target draw.Target) error {
	return st.buf.Flush(draw.NewPainter(target, draw.WithFont(st.font), draw.WithImages(st.images)))
}

// flush draws one frame. The scene is read once so a reload during the
// frame cannot mix two scenes.
func (s *Sketch) flush(p *draw.Painter) error {
	return s.current().paint(p.Target())
}

func closeSurface(surf raster.Surface) {
	if c, ok := surf.(io.Closer); ok {
		c.Close()
	}
}

// String describes the sketch for logs.
func (s *Sketch) String() string {
	st := s.Status()
	return fmt.Sprintf("%s (%d shapes, %dx%d)", st.Source, st.Shapes, st.Width, st.Height)
}
