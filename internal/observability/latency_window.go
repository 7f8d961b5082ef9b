package observability

import (
	"math"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"
)

// Stage is one step of a caller turn as timed by the session manager.
type Stage string

const (
	StageStoreGet  Stage = "store_get"
	StageProcess   Stage = "process"
	StageStorePut  Stage = "store_put"
	StageRecord    Stage = "record_complaint"
	StageTurnTotal Stage = "turn_total"
)

// turnStages lists the stages in the order a turn runs them, with the p95
// budget of the in-memory path. A Postgres store sits well above these.
var turnStages = []struct {
	stage     Stage
	targetP95 float64
}{
	{StageStoreGet, 10},
	{StageProcess, 2},
	{StageStorePut, 10},
	{StageRecord, 50},
	{StageTurnTotal, 75},
}

type StageStats struct {
	Stage       Stage   `json:"stage"`
	Samples     int     `json:"samples"`
	LastMS      float64 `json:"last_ms"`
	AvgMS       float64 `json:"avg_ms"`
	P50MS       float64 `json:"p50_ms"`
	P95MS       float64 `json:"p95_ms"`
	P99MS       float64 `json:"p99_ms"`
	TargetP95MS float64 `json:"target_p95_ms"`
}

type Indicator struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type LatencySnapshot struct {
	GeneratedAt time.Time    `json:"generated_at"`
	WindowSize  int          `json:"window_size"`
	Stages      []StageStats `json:"stages"`
	Indicators  []Indicator  `json:"indicators,omitempty"`
}

// LatencyWindow holds the most recent turn timings per stage and counters
// for dialogue indicators such as phone retries or cancellations.
type LatencyWindow struct {
	size int

	mu         sync.Mutex
	rings      map[Stage]*ring
	indicators map[string]int
}

// ring is a fixed-size sample buffer; total counts every sample ever added.
type ring struct {
	samples []float64
	total   int
}

func (r *ring) add(ms float64) {
	r.samples[r.total%len(r.samples)] = ms
	r.total++
}

func (r *ring) len() int { return min(r.total, len(r.samples)) }

func (r *ring) last() float64 {
	return r.samples[(r.total-1)%len(r.samples)]
}

func NewLatencyWindow(size int) *LatencyWindow {
	if size <= 0 {
		size = 256
	}
	w := &LatencyWindow{size: size}
	w.reset()
	return w
}

func (w *LatencyWindow) reset() {
	w.rings = make(map[Stage]*ring, len(turnStages))
	for _, ts := range turnStages {
		w.rings[ts.stage] = &ring{samples: make([]float64, w.size)}
	}
	w.indicators = make(map[string]int)
}

// Observe records a duration for a known stage. Unknown stages and negative
// durations are dropped.
func (w *LatencyWindow) Observe(stage Stage, ms float64) {
	if w == nil || ms < 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.rings[stage]; ok {
		r.add(ms)
	}
}

func (w *LatencyWindow) ObserveIndicator(name string) {
	name = strings.TrimSpace(name)
	if w == nil || name == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.indicators[name]++
}

// Snapshot reports stages in turn order, skipping stages with no samples.
func (w *LatencyWindow) Snapshot() LatencySnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := LatencySnapshot{GeneratedAt: time.Now().UTC(), WindowSize: w.size}
	for _, ts := range turnStages {
		r := w.rings[ts.stage]
		n := r.len()
		if n == 0 {
			continue
		}
		sorted := slices.Clone(r.samples[:n])
		slices.Sort(sorted)
		var sum float64
		for _, v := range sorted {
			sum += v
		}
		snap.Stages = append(snap.Stages, StageStats{
			Stage:       ts.stage,
			Samples:     n,
			LastMS:      round2(r.last()),
			AvgMS:       round2(sum / float64(n)),
			P50MS:       round2(nearestRank(sorted, 50)),
			P95MS:       round2(nearestRank(sorted, 95)),
			P99MS:       round2(nearestRank(sorted, 99)),
			TargetP95MS: ts.targetP95,
		})
	}

	for name, count := range w.indicators {
		snap.Indicators = append(snap.Indicators, Indicator{Name: name, Count: count})
	}
	sort.Slice(snap.Indicators, func(i, j int) bool { return snap.Indicators[i].Name < snap.Indicators[j].Name })
	return snap
}

func (w *LatencyWindow) Reset() {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reset()
}

// nearestRank returns the p-th percentile of an ascending, non-empty slice.
func nearestRank(sorted []float64, p int) float64 {
	rank := int(math.Ceil(float64(p) / 100 * float64(len(sorted))))
	return sorted[max(rank, 1)-1]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
