package profiling

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Byte size constants for memory formatting
const (
	KB = 1024
	MB = KB * 1024
	GB = MB * 1024
)

// Snapshot is the memory state measured after one script load.
type Snapshot struct {
	Timestamp   time.Time
	HeapAlloc   uint64
	HeapObjects uint64
	Goroutines  int
	Shapes      int
}

// TakeSnapshot reads the current memory statistics. shapes is the size of
// the scene buffer the load produced.
func TakeSnapshot(shapes int) Snapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return Snapshot{
		Timestamp:   time.Now(),
		HeapAlloc:   ms.HeapAlloc,
		HeapObjects: ms.HeapObjects,
		Goroutines:  runtime.NumGoroutine(),
		Shapes:      shapes,
	}
}

// Growth compares the first and last snapshot of a ReloadTracker.
type Growth struct {
	Reloads        int
	HeapAllocDelta int64
	GoroutineDelta int
	PotentialLeak  bool
	LeakReason     string
}

// String summarizes the growth on one line.
func (g Growth) String() string {
	s := fmt.Sprintf("%d reloads: heap %+d B, goroutines %+d", g.Reloads, g.HeapAllocDelta, g.GoroutineDelta)
	if g.PotentialLeak {
		s += ": " + g.LeakReason
	}
	return s
}

// ReloadTracker keeps a bounded history of snapshots, one per hot reload
// of a scene script. Every reload replaces the scene buffer, so heap and
// goroutine counts should stay flat between reloads of the same script.
type ReloadTracker struct {
	max       int
	heapLimit int64
	snapshots []Snapshot
	mu        sync.Mutex
}

// NewReloadTracker keeps up to max snapshots and flags heap growth of more
// than heapLimit bytes per reload. Non-positive arguments select 32
// snapshots and 1 MB.
func NewReloadTracker(max int, heapLimit int64) *ReloadTracker {
	if max <= 0 {
		max = 32
	}
	if heapLimit <= 0 {
		heapLimit = MB
	}
	return &ReloadTracker{max: max, heapLimit: heapLimit}
}

// Record stores s, dropping the oldest snapshot when full.
func (t *ReloadTracker) Record(s Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.snapshots = append(t.snapshots, s)
	if len(t.snapshots) > t.max {
		t.snapshots = t.snapshots[1:]
	}
}

// Len returns the number of stored snapshots.
func (t *ReloadTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.snapshots)
}

// Growth compares the oldest and newest snapshot. It returns nil with
// fewer than two snapshots.
func (t *ReloadTracker) Growth() *Growth {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.snapshots) < 2 {
		return nil
	}
	first, last := t.snapshots[0], t.snapshots[len(t.snapshots)-1]
	reloads := len(t.snapshots) - 1

	g := &Growth{
		Reloads:        reloads,
		HeapAllocDelta: int64(last.HeapAlloc) - int64(first.HeapAlloc),
		GoroutineDelta: last.Goroutines - first.Goroutines,
	}

	switch {
	case reloads >= 2 && g.GoroutineDelta >= reloads:
		g.PotentialLeak = true
		g.LeakReason = "goroutine count grows with every reload"
	case last.Shapes <= first.Shapes && g.HeapAllocDelta/int64(reloads) > t.heapLimit:
		g.PotentialLeak = true
		g.LeakReason = fmt.Sprintf("heap grows %s per reload without more shapes",
			FormatBytes(uint64(g.HeapAllocDelta/int64(reloads))))
	}
	return g
}

// FormatBytes formats a byte count as a human-readable string.
func FormatBytes(bytes uint64) string {
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
