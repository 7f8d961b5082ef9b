package observability

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestLatencyWindowSnapshot(t *testing.T) {
	w := NewLatencyWindow(8)
	w.Observe(StageTurnTotal, 5)
	w.Observe(StageTurnTotal, 7)
	w.Observe(StageTurnTotal, 9)
	w.ObserveIndicator("phone_retry")
	w.ObserveIndicator("phone_retry")

	snap := w.Snapshot()
	if snap.WindowSize != 8 {
		t.Fatalf("WindowSize = %d, want 8", snap.WindowSize)
	}
	if len(snap.Stages) != 1 {
		t.Fatalf("len(Stages) = %d, want 1", len(snap.Stages))
	}
	s := snap.Stages[0]
	if s.Stage != StageTurnTotal {
		t.Fatalf("Stage = %q, want %q", s.Stage, StageTurnTotal)
	}
	if s.Samples != 3 || s.LastMS != 9 || s.P50MS != 7 {
		t.Fatalf("stats = %+v", s)
	}
	if s.P95MS <= 7 || s.P95MS > 9 {
		t.Fatalf("P95MS = %.2f, want (7,9]", s.P95MS)
	}
	if s.TargetP95MS != 75 {
		t.Fatalf("TargetP95MS = %.2f, want 75", s.TargetP95MS)
	}
	if len(snap.Indicators) != 1 || snap.Indicators[0].Count != 2 {
		t.Fatalf("Indicators = %+v", snap.Indicators)
	}
}

func TestLatencyWindowWrapsAround(t *testing.T) {
	w := NewLatencyWindow(4)
	for i := 1; i <= 10; i++ {
		w.Observe(StageProcess, float64(i))
	}
	s := w.Snapshot().Stages[0]
	if s.Samples != 4 {
		t.Fatalf("Samples = %d, want 4", s.Samples)
	}
	if s.AvgMS != 8.5 {
		t.Fatalf("AvgMS = %.2f, want 8.5 (last four samples)", s.AvgMS)
	}

	w.Reset()
	if got := len(w.Snapshot().Stages); got != 0 {
		t.Fatalf("len(Stages) after Reset = %d, want 0", got)
	}
}

func TestMetricsNilSafeAndServed(t *testing.T) {
	var nilMetrics *Metrics
	nilMetrics.ObserveTurn("ask_phone", "confirm", time.Millisecond)
	nilMetrics.StoreError("session", "put")

	m := NewMetrics("samvad_test", nil)
	m.ObserveTurn("ask_phone", "confirm", 3*time.Millisecond)
	m.ComplaintRegistered("Garbage")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`samvad_test_transitions_total{from="ask_phone",to="confirm"} 1`,
		`samvad_test_complaints_registered_total{category="Garbage"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
	if len(m.Latency.Snapshot().Stages) != 1 {
		t.Fatalf("turn latency not recorded in window")
	}
}

func TestLatencyWindowTurnOrder(t *testing.T) {
	w := NewLatencyWindow(4)
	w.Observe(StageTurnTotal, 12)
	w.Observe(StageStorePut, 1)
	w.Observe(StageStoreGet, 1)
	w.Observe(Stage("tts_first_audio"), 3)
	w.Observe(StageProcess, -1)

	snap := w.Snapshot()
	var got []Stage
	for _, s := range snap.Stages {
		got = append(got, s.Stage)
	}
	want := []Stage{StageStoreGet, StageStorePut, StageTurnTotal}
	if len(got) != len(want) {
		t.Fatalf("stages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stages = %v, want %v", got, want)
		}
	}
}
