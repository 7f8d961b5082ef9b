package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	ActiveSessions       prometheus.Gauge
	SessionEvents        *prometheus.CounterVec
	Turns                *prometheus.CounterVec
	Transitions          *prometheus.CounterVec
	ComplaintsRegistered *prometheus.CounterVec
	Detections           *prometheus.CounterVec
	WSMessages           *prometheus.CounterVec
	StoreErrors          *prometheus.CounterVec
	TurnLatency          prometheus.Histogram

	// Latency keeps a rolling per-stage window for /v1/perf/latency.
	Latency *LatencyWindow

	gatherer prometheus.Gatherer
}

// NewMetrics registers the instruments on reg, or on a fresh registry when
// reg is nil.
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of IVR sessions held by the session store.",
		}),
		SessionEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Session lifecycle events by type.",
		}, []string{"event"}),
		Turns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Processed caller utterances by the state they were answered in.",
		}, []string{"state"}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Dialogue state transitions.",
		}, []string{"from", "to"}),
		ComplaintsRegistered: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "complaints_registered_total",
			Help:      "Complaints confirmed by callers, by category.",
		}, []string{"category"}),
		Detections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detections_total",
			Help:      "Detector outcomes on the reference endpoints.",
		}, []string{"detector", "outcome"}),
		WSMessages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_messages_total",
			Help:      "WebSocket messages by direction and type.",
		}, []string{"direction", "type"}),
		StoreErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Session and complaint store errors by store and operation.",
		}, []string{"store", "op"}),
		TurnLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_latency_ms",
			Help:      "Time to load, process and persist one utterance in milliseconds.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
		}),
		Latency:  NewLatencyWindow(256),
		gatherer: reg,
	}
}

func (m *Metrics) SessionEvent(event string) {
	if m == nil {
		return
	}
	m.SessionEvents.WithLabelValues(event).Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}

// ObserveTurn records one processed utterance.
func (m *Metrics) ObserveTurn(from, to string, d time.Duration) {
	if m == nil {
		return
	}
	m.Turns.WithLabelValues(from).Inc()
	if from != to {
		m.Transitions.WithLabelValues(from, to).Inc()
	}
	ms := float64(d.Microseconds()) / 1000
	m.TurnLatency.Observe(ms)
	m.Latency.Observe(StageTurnTotal, ms)
}

// ObserveStage records a sub-step of a turn in the latency window only.
func (m *Metrics) ObserveStage(stage Stage, d time.Duration) {
	if m == nil {
		return
	}
	m.Latency.Observe(stage, float64(d.Microseconds())/1000)
}

func (m *Metrics) Indicator(name string) {
	if m == nil {
		return
	}
	m.Latency.ObserveIndicator(name)
}

func (m *Metrics) ComplaintRegistered(category string) {
	if m == nil {
		return
	}
	m.ComplaintsRegistered.WithLabelValues(category).Inc()
}

func (m *Metrics) Detection(detector, outcome string) {
	if m == nil {
		return
	}
	m.Detections.WithLabelValues(detector, outcome).Inc()
}

func (m *Metrics) WSMessage(direction, msgType string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

func (m *Metrics) StoreError(store, op string) {
	if m == nil {
		return
	}
	m.StoreErrors.WithLabelValues(store, op).Inc()
}

// Handler serves the registry the metrics were created on.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
