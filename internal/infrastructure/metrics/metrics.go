// Package metrics exposes store and HTTP counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "famitree"

// Metrics implements ports.StoreMetrics and records HTTP requests.
type Metrics struct {
	registry *prometheus.Registry

	mutations       *prometheus.CounterVec
	denied          *prometheus.CounterVec
	persistFailures prometheus.Counter
	people          prometheus.Gauge
	edges           prometheus.Gauge
	requests        *prometheus.HistogramVec
}

// New registers the famitree collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Applied mutations by action",
		}, []string{"action"}),
		denied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "denied_total",
			Help:      "Mutations dropped because the user is not privileged",
		}, []string{"action"}),
		persistFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Failed background saves",
		}),
		people: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tree",
			Name:      "people",
			Help:      "People in the current snapshot",
		}),
		edges: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tree",
			Name:      "relationships",
			Help:      "Relationships in the current snapshot",
		}),
		requests: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and status",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// MutationApplied implements ports.StoreMetrics.
func (m *Metrics) MutationApplied(action string) {
	m.mutations.WithLabelValues(action).Inc()
}

// MutationDenied implements ports.StoreMetrics.
func (m *Metrics) MutationDenied(action string) {
	m.denied.WithLabelValues(action).Inc()
}

// PersistFailed implements ports.StoreMetrics.
func (m *Metrics) PersistFailed() {
	m.persistFailures.Inc()
}

// SetTreeSize records the size of the current snapshot.
func (m *Metrics) SetTreeSize(people, relationships int) {
	m.people.Set(float64(people))
	m.edges.Set(float64(relationships))
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
