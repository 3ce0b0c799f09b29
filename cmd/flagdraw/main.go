// Package main provides the flagdraw command. It runs a Lua flag script and
// shows the scene in a window, or writes it to a PNG file with -o.
package main

import (
	"context"
	"errors"
	"expvar"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/opd-ai/go-flagdraw/internal/config"
	"github.com/opd-ai/go-flagdraw/internal/lua"
	"github.com/opd-ai/go-flagdraw/internal/profiling"
	"github.com/opd-ai/go-flagdraw/pkg/flagdraw"
)

// Version is the current version of flagdraw.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cliFlags holds the parsed command line.
type cliFlags struct {
	output       string
	backend      string
	watch        bool
	width        int
	height       int
	images       string
	configFile   string
	noEnv        bool
	debug        bool
	jsonLogs     bool
	metricsAddr  string
	cpuProfile   string
	memProfile   string
	version      bool
	example      string
	listExamples bool

	// set records which flags were given explicitly.
	set    map[string]bool
	script string
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	f := &cliFlags{set: make(map[string]bool)}
	fs := flag.NewFlagSet("flagdraw", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: flagdraw [flags] script.lua")
		fmt.Fprintln(stderr, "       flagdraw [flags] -example NAME")
		fs.PrintDefaults()
	}

	fs.StringVar(&f.output, "o", "", "Write the scene to this PNG file instead of opening a window")
	fs.StringVar(&f.backend, "backend", "", "Software rasterizer for -o: vector or gg")
	fs.BoolVar(&f.watch, "watch", false, "Reload when the script or its images change")
	fs.IntVar(&f.width, "width", 0, "Canvas width in pixels")
	fs.IntVar(&f.height, "height", 0, "Canvas height in pixels")
	fs.StringVar(&f.images, "images", "", "Images directory, relative to the script")
	fs.StringVar(&f.configFile, "config", "", "Lua configuration file applied before the script")
	fs.BoolVar(&f.noEnv, "no-env", false, "Ignore FLAGDRAW_* environment variables")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.jsonLogs, "json", false, "Log in JSON")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "Serve expvar metrics on this address, e.g. localhost:6060")
	fs.StringVar(&f.cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	fs.StringVar(&f.memProfile, "memprofile", "", "Write memory profile to file")
	fs.BoolVar(&f.version, "v", false, "Print version and exit")
	fs.StringVar(&f.example, "example", "", "Run a built-in example scene")
	fs.BoolVar(&f.listExamples, "list-examples", false, "List the built-in example scenes and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })

	if f.version || f.listExamples {
		return f, nil
	}
	switch {
	case fs.NArg() > 1:
		return nil, errors.New("only one script can be drawn at a time")
	case fs.NArg() == 1 && f.example != "":
		return nil, errors.New("give either a script or -example, not both")
	case fs.NArg() == 0 && f.example == "":
		fs.Usage()
		return nil, errors.New("no script specified")
	}
	f.script = fs.Arg(0)
	return f, nil
}

// override applies the explicitly given flags on top of every other
// configuration source.
func (f *cliFlags) override(cfg *config.Config) {
	if f.set["width"] {
		cfg.Canvas.Width = f.width
	}
	if f.set["height"] {
		cfg.Canvas.Height = f.height
	}
	if f.set["images"] {
		cfg.Assets.ImagesDir = f.images
	}
	if f.set["o"] {
		cfg.Output.Path = f.output
	}
	if f.set["watch"] {
		cfg.Window.Watch = f.watch
	}
	if f.set["backend"] {
		// Checked in run before the sketch is created.
		cfg.Output.Backend, _ = config.ParseBackend(f.backend)
	}
}

func (f *cliFlags) logger(stderr io.Writer) flagdraw.Logger {
	level := slog.LevelInfo
	if f.debug {
		level = slog.LevelDebug
	}
	if f.jsonLogs {
		return flagdraw.JSONLogger(stderr, level)
	}
	return flagdraw.TextLogger(stderr, level)
}

func run(args []string, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "flagdraw: %v\n", err)
		return 2
	}

	if f.version {
		fmt.Fprintf(stdout, "flagdraw version %s\n", Version)
		return 0
	}
	if f.listExamples {
		for _, name := range lua.Examples() {
			fmt.Fprintln(stdout, name)
		}
		return 0
	}
	if f.set["backend"] {
		if _, err := config.ParseBackend(f.backend); err != nil {
			fmt.Fprintf(stderr, "flagdraw: %v\n", err)
			return 2
		}
	}

	stopProfile, err := profiling.Session(profiling.Config{
		CPUProfilePath: f.cpuProfile,
		MemProfilePath: f.memProfile,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Failed to start profiling: %v\n", err)
		return 1
	}
	defer func() {
		if err := stopProfile(); err != nil {
			fmt.Fprintf(stderr, "Warning: failed to stop profiling: %v\n", err)
		}
	}()

	logger := f.logger(stderr)
	metrics := flagdraw.NewMetrics()
	if f.metricsAddr != "" {
		metrics.RegisterExpvar()
		go func() {
			if err := http.ListenAndServe(f.metricsAddr, expvar.Handler()); err != nil {
				logger.Warn("metrics server stopped", "addr", f.metricsAddr, "error", err)
			}
		}()
	}

	opts := &flagdraw.Options{
		ConfigFile: f.configFile,
		UseEnv:     !f.noEnv,
		Override:   f.override,
		Watch:      f.watch,
		Stdout:     stdout,
		Logger:     logger,
		Metrics:    metrics,
	}

	var s *flagdraw.Sketch
	if f.example != "" {
		if _, err := lua.Example(f.example); err != nil {
			fmt.Fprintf(stderr, "flagdraw: %v (see -list-examples)\n", err)
			return 2
		}
		s, err = flagdraw.NewFromFS(lua.ExampleFS(), f.example+".lua", opts)
	} else {
		s, err = flagdraw.New(f.script, opts)
	}
	if err != nil {
		fmt.Fprintf(stderr, "flagdraw: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go reloadOnHangup(ctx, s, logger)

	if err := draw(ctx, s, logger); err != nil {
		fmt.Fprintf(stderr, "flagdraw: %v\n", err)
		return 1
	}
	return 0
}

// draw opens the window, or captures the scene when an output path is
// configured. A watched capture is written again after every reload.
func draw(ctx context.Context, s *flagdraw.Sketch, logger flagdraw.Logger) error {
	cfg := s.Config()
	if !cfg.Headless() {
		return s.Run(ctx)
	}

	if err := s.Capture(); err != nil {
		return err
	}
	if !cfg.Window.Watch {
		return nil
	}
	return s.Watch(ctx, recapture(s, logger))
}

// recapture returns the reload callback of a watched capture. It writes the
// scene again after a successful reload and logs a failed write.
func recapture(s *flagdraw.Sketch, logger flagdraw.Logger) func(error) {
	return func(err error) {
		if err != nil {
			return
		}
		if err := s.Capture(); err != nil {
			logger.Error("capture failed", "output", s.Config().Output.Path, "error", err)
			return
		}
		logger.Info("capture written", "output", s.Config().Output.Path)
	}
}

// reloadOnHangup reloads the script on SIGHUP until ctx is done.
func reloadOnHangup(ctx context.Context, s *flagdraw.Sketch, logger flagdraw.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sigCh:
			logger.Info("received SIGHUP, reloading script")
			s.Load()
		}
	}
}
