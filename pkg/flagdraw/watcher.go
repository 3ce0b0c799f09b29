package flagdraw

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the default debounce interval for file watch events.
const DefaultWatchDebounce = 500 * time.Millisecond

// scriptWatcher reports changes to a script file and to the PNG files of
// its images directory.
type scriptWatcher struct {
	watcher   *fsnotify.Watcher
	script    string
	imagesDir string
	debounce  time.Duration
	onChange  func()
	onError   func(error)
	stopCh    chan struct{}
	stoppedCh chan struct{}
	mu        sync.Mutex
	running   bool
}

// newScriptWatcher watches script and, when it exists, imagesDir.
// onChange is called once per burst of changes, after debouncing.
func newScriptWatcher(script, imagesDir string, debounce time.Duration, onChange func(), onError func(error)) (*scriptWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	script, _ = filepath.Abs(script)

	// Watch the directory containing the script, not the file itself.
	// This handles editors that atomically rename files (vim, emacs, etc.).
	if err := watcher.Add(filepath.Dir(script)); err != nil {
		watcher.Close()
		return nil, err
	}

	if imagesDir != "" {
		imagesDir, _ = filepath.Abs(imagesDir)
		if info, err := os.Stat(imagesDir); err == nil && info.IsDir() {
			if err := watcher.Add(imagesDir); err != nil {
				watcher.Close()
				return nil, err
			}
		} else {
			imagesDir = ""
		}
	}

	return &scriptWatcher{
		watcher:   watcher,
		script:    script,
		imagesDir: imagesDir,
		debounce:  debounce,
		onChange:  onChange,
		onError:   onError,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}, nil
}

// Start begins watching for file changes in a goroutine.
func (sw *scriptWatcher) Start() {
	sw.mu.Lock()
	if sw.running {
		sw.mu.Unlock()
		return
	}
	sw.running = true
	sw.mu.Unlock()

	go sw.watchLoop()
}

// Stop stops the file watcher and waits for cleanup.
func (sw *scriptWatcher) Stop() {
	sw.mu.Lock()
	if !sw.running {
		sw.mu.Unlock()
		return
	}
	sw.mu.Unlock()

	close(sw.stopCh)
	<-sw.stoppedCh
}

// relevant reports whether event should trigger a reload.
func (sw *scriptWatcher) relevant(event fsnotify.Event) bool {
	name, _ := filepath.Abs(event.Name)

	if name == sw.script {
		// Only react to write/create/rename events (covers atomic saves)
		return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
	}
	if sw.imagesDir != "" && filepath.Dir(name) == sw.imagesDir {
		return strings.EqualFold(filepath.Ext(name), ".png") &&
			event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
	}
	return false
}

// watchLoop is the main event loop for file watching with debouncing.
func (sw *scriptWatcher) watchLoop() {
	defer close(sw.stoppedCh)
	defer sw.watcher.Close()

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-sw.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			sw.mu.Lock()
			sw.running = false
			sw.mu.Unlock()
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !sw.relevant(event) {
				continue
			}

			// Debounce: reset the timer on each event
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(sw.debounce)
			debounceCh = debounceTimer.C

		case <-debounceCh:
			if sw.onChange != nil {
				sw.onChange()
			}
			debounceTimer = nil
			debounceCh = nil

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			if sw.onError != nil {
				sw.onError(err)
			}
		}
	}
}

// Watch reloads the script whenever it or one of its images changes, until
// ctx is cancelled. after, when not nil, is called with the result of every
// reload. A failed reload keeps the previous scene.
func (s *Sketch) Watch(ctx context.Context, after func(err error)) error {
	if !s.src.onDisk() {
		return wrapError(CategoryIO, "watch", ErrEmbeddedWatch)
	}
	if !s.watching.CompareAndSwap(false, true) {
		return wrapError(CategoryIO, "watch", errAlreadyWatching)
	}
	defer s.watching.Store(false)

	imagesDir := s.Config().Assets.ImagesDir
	if imagesDir != "" {
		imagesDir = s.src.imagesPath(imagesDir)
	}

	sw, err := newScriptWatcher(s.src.scriptFile(), imagesDir, s.opts.WatchDebounce,
		func() { s.reload(after) },
		func(err error) { s.logger.Warn("watch error", "error", err) },
	)
	if err != nil {
		return wrapError(CategoryIO, "watch", err)
	}

	sw.Start()
	s.logger.Info("watching for changes", "script", sw.script, "images", sw.imagesDir)
	<-ctx.Done()
	sw.Stop()
	return nil
}

func (s *Sketch) reload(after func(error)) {
	s.metrics.IncrementReloads()
	err := s.Load()
	if err == nil {
		if g := s.reloads.Growth(); g != nil && g.PotentialLeak {
			s.logger.Warn("memory grows across reloads", "growth", g.String())
		}
	}
	if after != nil {
		after(err)
	}
}
