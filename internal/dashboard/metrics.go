package dashboard

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metricSet registers onto a private registry so multiple servers (and
// tests) never collide on metric names.
type metricSet struct {
	registry      *prometheus.Registry
	solveTotal    prometheus.Counter
	evolveTotal   prometheus.Counter
	streamSteps   prometheus.Counter
	solveDuration prometheus.Histogram
}

func newMetricSet() *metricSet {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &metricSet{
		registry: registry,
		solveTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "aethelgard_solve_requests_total",
			Help: "Static solve requests handled by the dashboard.",
		}),
		evolveTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "aethelgard_evolve_requests_total",
			Help: "Evolution requests handled by the dashboard.",
		}),
		streamSteps: factory.NewCounter(prometheus.CounterOpts{
			Name: "aethelgard_stream_steps_total",
			Help: "Evolution steps streamed over websocket.",
		}),
		solveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "aethelgard_solve_duration_seconds",
			Help:    "Wall-clock duration of solve requests.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

func (m *metricSet) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
