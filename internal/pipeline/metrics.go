package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	detections *prometheus.CounterVec
	failures   *prometheus.CounterVec
	latency    prometheus.Histogram
}

// NewMetrics registers the pipeline collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		detections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wastesort",
			Name:      "detections_total",
			Help:      "Resolved detections by waste type.",
		}, []string{"waste_type"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wastesort",
			Name:      "detection_failures_total",
			Help:      "Failed detections by reason.",
		}, []string{"reason"}),
		latency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wastesort",
			Name:      "classify_duration_seconds",
			Help:      "Time spent in the classification stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 1.5, 2, 5, 10},
		}),
	}
}

func (m *Metrics) observeDetection(wasteType string) {
	if m == nil {
		return
	}
	m.detections.WithLabelValues(wasteType).Inc()
}

func (m *Metrics) observeFailure(reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(reason).Inc()
}

func (m *Metrics) observeClassify(d time.Duration) {
	if m == nil {
		return
	}
	m.latency.Observe(d.Seconds())
}
