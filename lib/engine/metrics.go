package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "reactssr"

// Render outcomes used as the status label.
const (
	statusOK     = "ok"
	statusError  = "error"
	statusCached = "cached"
)

type metrics struct {
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	acquire        prometheus.Histogram
	inUse          prometheus.Gauge
	created        prometheus.Counter
}

// newMetrics registers the engine metrics with reg. A nil reg creates
// unregistered metrics.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "renders_total",
			Help:      "Total number of server renders by component and outcome",
		}, []string{"component", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "render_duration_seconds",
			Help:      "Server render duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"component"}),

		acquire: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "engine_acquire_seconds",
			Help:      "Time spent waiting for a JavaScript engine",
			Buckets:   []float64{.0001, .001, .005, .01, .05, .1, .5, 1, 5},
		}),

		inUse: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "engines_in_use",
			Help:      "Number of JavaScript engines currently borrowed",
		}),

		created: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "engines_created_total",
			Help:      "Total number of JavaScript engines created",
		}),
	}
}

func (m *metrics) observeRender(component, status string, d time.Duration) {
	m.renders.WithLabelValues(component, status).Inc()
	if status != statusCached {
		m.renderDuration.WithLabelValues(component).Observe(d.Seconds())
	}
}

func (m *metrics) observeAcquire(d time.Duration) {
	m.acquire.Observe(d.Seconds())
}

func (m *metrics) engineBorrowed() {
	m.inUse.Inc()
}

func (m *metrics) engineReturned() {
	m.inUse.Dec()
}

func (m *metrics) engineCreated() {
	m.created.Inc()
}
