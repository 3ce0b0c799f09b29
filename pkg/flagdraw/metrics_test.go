package flagdraw

import (
	"errors"
	"expvar"
	"testing"
	"time"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	boom := errors.New("boom")

	m.RecordLoad(10*time.Millisecond, 19, 2, nil)
	m.RecordLoad(30*time.Millisecond, 0, 0, boom)
	m.IncrementReloads()
	m.IncrementFrames()
	m.IncrementFrames()
	m.RecordFlush(2*time.Millisecond, 19, nil)
	m.RecordFlush(4*time.Millisecond, 19, boom)
	m.IncrementCaptures()

	got := m.Snapshot()
	want := MetricsSnapshot{
		Loads:           2,
		LoadErrors:      1,
		Reloads:         1,
		Frames:          2,
		Flushes:         2,
		FlushErrors:     1,
		ShapesDrawn:     19,
		Captures:        1,
		SceneShapes:     19,
		Images:          2,
		LoadLatencyAvg:  20 * time.Millisecond,
		FlushLatencyAvg: 3 * time.Millisecond,
	}
	if got != want {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}

	m.Reset()
	if got := m.Snapshot(); got != (MetricsSnapshot{}) {
		t.Errorf("after Reset() = %+v", got)
	}
}

func TestMetricsRegisterExpvar(t *testing.T) {
	m := NewMetrics()
	m.RegisterExpvar()
	// Should not panic on duplicate registration
	m.RegisterExpvar()

	m.IncrementFrames()
	v := expvar.Get("flagdraw_frames_total")
	if v == nil {
		t.Fatal("flagdraw_frames_total not published")
	}
	if v.String() != "1" {
		t.Errorf("flagdraw_frames_total = %s, want 1", v.String())
	}
	if expvar.Get("flagdraw_flush_latency_avg_ms") == nil {
		t.Error("flush latency not published")
	}
}

func TestDefaultMetrics(t *testing.T) {
	if DefaultMetrics() != DefaultMetrics() {
		t.Error("DefaultMetrics() should return a single instance")
	}
}
