package flagdraw

import (
	"expvar"
	"sync/atomic"
	"time"
)

// Metrics counts what a Sketch does. It uses Go's expvar package for
// exposition, which serves /debug/vars when an HTTP server is running.
//
// Thread-safe for concurrent use.
type Metrics struct {
	// Counters
	loads       atomic.Int64
	loadErrors  atomic.Int64
	reloads     atomic.Int64
	frames      atomic.Int64
	flushes     atomic.Int64
	flushErrors atomic.Int64
	shapesDrawn atomic.Int64
	captures    atomic.Int64

	// Latency tracking (stored as nanoseconds)
	loadLatencyNs  atomic.Int64
	loadLatencyN   atomic.Int64
	flushLatencyNs atomic.Int64
	flushLatencyN  atomic.Int64

	// Gauges
	sceneShapes atomic.Int64
	images      atomic.Int64

	registered atomic.Bool
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RegisterExpvar publishes the metrics under flagdraw_* names.
// Safe to call multiple times; subsequent calls are no-ops.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return
	}

	counters := map[string]*atomic.Int64{
		"flagdraw_loads_total":        &m.loads,
		"flagdraw_load_errors_total":  &m.loadErrors,
		"flagdraw_reloads_total":      &m.reloads,
		"flagdraw_frames_total":       &m.frames,
		"flagdraw_flushes_total":      &m.flushes,
		"flagdraw_flush_errors_total": &m.flushErrors,
		"flagdraw_shapes_drawn_total": &m.shapesDrawn,
		"flagdraw_captures_total":     &m.captures,
		"flagdraw_scene_shapes":       &m.sceneShapes,
		"flagdraw_images":             &m.images,
	}
	for name, v := range counters {
		expvar.Publish(name, expvar.Func(func() any { return v.Load() }))
	}

	expvar.Publish("flagdraw_load_latency_avg_ms", expvar.Func(func() any {
		return avgMillis(m.loadLatencyNs.Load(), m.loadLatencyN.Load())
	}))
	expvar.Publish("flagdraw_flush_latency_avg_ms", expvar.Func(func() any {
		return avgMillis(m.flushLatencyNs.Load(), m.flushLatencyN.Load())
	}))
}

// RecordLoad records one script load.
func (m *Metrics) RecordLoad(d time.Duration, shapes, images int, err error) {
	m.loads.Add(1)
	m.loadLatencyNs.Add(d.Nanoseconds())
	m.loadLatencyN.Add(1)
	if err != nil {
		m.loadErrors.Add(1)
		return
	}
	m.sceneShapes.Store(int64(shapes))
	m.images.Store(int64(images))
}

// IncrementReloads records a reload triggered by the watcher.
func (m *Metrics) IncrementReloads() {
	m.reloads.Add(1)
}

// IncrementCaptures records a headless render.
func (m *Metrics) IncrementCaptures() {
	m.captures.Add(1)
}

// RecordFlush records one flush of a scene with shapes records. A failed flush counts
// as an error and its shapes are not added to the drawn total.
func (m *Metrics) RecordFlush(d time.Duration, shapes int, err error) {
	m.flushes.Add(1)
	m.flushLatencyNs.Add(d.Nanoseconds())
	m.flushLatencyN.Add(1)
	if err != nil {
		m.flushErrors.Add(1)
		return
	}
	m.shapesDrawn.Add(int64(shapes))
}

// IncrementFrames records a window frame.
func (m *Metrics) IncrementFrames() {
	m.frames.Add(1)
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	Loads       int64
	LoadErrors  int64
	Reloads     int64
	Frames      int64
	Flushes     int64
	FlushErrors int64
	ShapesDrawn int64
	Captures    int64

	SceneShapes int
	Images      int

	LoadLatencyAvg  time.Duration
	FlushLatencyAvg time.Duration
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Loads:       m.loads.Load(),
		LoadErrors:  m.loadErrors.Load(),
		Reloads:     m.reloads.Load(),
		Frames:      m.frames.Load(),
		Flushes:     m.flushes.Load(),
		FlushErrors: m.flushErrors.Load(),
		ShapesDrawn: m.shapesDrawn.Load(),
		Captures:    m.captures.Load(),

		SceneShapes: int(m.sceneShapes.Load()),
		Images:      int(m.images.Load()),

		LoadLatencyAvg:  safeDivide(m.loadLatencyNs.Load(), m.loadLatencyN.Load()),
		FlushLatencyAvg: safeDivide(m.flushLatencyNs.Load(), m.flushLatencyN.Load()),
	}
}

// Reset clears all metrics. Useful for testing.
func (m *Metrics) Reset() {
	for _, v := range []*atomic.Int64{
		&m.loads, &m.loadErrors, &m.reloads, &m.frames, &m.flushes,
		&m.flushErrors, &m.shapesDrawn, &m.captures,
		&m.loadLatencyNs, &m.loadLatencyN, &m.flushLatencyNs, &m.flushLatencyN,
		&m.sceneShapes, &m.images,
	} {
		v.Store(0)
	}
}

// safeDivide performs safe division, returning 0 for divide by zero.
func safeDivide(total, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(total / count)
}

func avgMillis(totalNs, count int64) float64 {
	if count == 0 {
		return 0
	}
	return float64(totalNs) / float64(count) / 1e6
}

// defaultMetrics is a global metrics instance for convenience.
var defaultMetrics = NewMetrics()

// DefaultMetrics returns the global default Metrics instance.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}
