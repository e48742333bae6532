package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := New(WithRegistry(reg), WithNamespace("test"))
	return m, reg
}

func TestObserveEvent(t *testing.T) {
	m, reg := newTestMetrics(t)

	m.ObserveEvent("click", 5*time.Millisecond)
	m.ObserveEvent("click", 3*time.Millisecond)
	m.ObserveEvent("input", time.Millisecond)

	if got := testutil.ToFloat64(m.eventsTotal.WithLabelValues("click")); got != 2 {
		t.Errorf("click events = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.eventsTotal.WithLabelValues("input")); got != 1 {
		t.Errorf("input events = %v, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "test_event_duration_seconds" {
			found = true
		}
	}
	if !found {
		t.Error("event duration histogram not registered")
	}
}

func TestSessionGauge(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.SessionStarted()
	m.SessionStarted()
	m.SessionEnded()

	if got := testutil.ToFloat64(m.activeSessions); got != 1 {
		t.Errorf("active sessions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.sessionsTotal); got != 2 {
		t.Errorf("total sessions = %v, want 2", got)
	}
}

func TestObservePatch(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.ObservePatch(128)
	m.ObservePatch(64)

	if got := testutil.ToFloat64(m.patchesSent); got != 2 {
		t.Errorf("patches sent = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.patchBytes); got != 192 {
		t.Errorf("patch bytes = %v, want 192", got)
	}
}

func TestFlushObserverSkipsEmptyFlushes(t *testing.T) {
	m, reg := newTestMetrics(t)
	obs := m.FlushObserver()

	obs(0, time.Millisecond)
	obs(3, time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != "test_flush_jobs" {
			continue
		}
		// Only the non-empty flush should be recorded.
		if got := f.GetMetric()[0].GetHistogram().GetSampleCount(); got != 1 {
			t.Errorf("flush_jobs sample count = %d, want 1", got)
		}
		return
	}
	t.Fatal("flush_jobs histogram not registered")
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	m.ObserveEvent("click", time.Millisecond)
	m.ObserveEventError("click")
	m.ObservePatch(10)
	m.SessionStarted()
	m.SessionEnded()
	m.ObserveWSError("read")
}
