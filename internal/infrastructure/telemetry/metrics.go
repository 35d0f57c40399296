package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsNamespace prefixes every metric
const MetricsNamespace = "grocery_admin"

// Metrics holds the Prometheus collectors of the service. It satisfies
// upstream.Recorder and state.Observer.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec

	sliceLoads        *prometheus.CounterVec
	sliceLoadDuration *prometheus.HistogramVec
}

// NewMetrics registers all collectors on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Handled HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "HTTP attempts against the remote store; status is \"error\" for transport failures.",
		}, []string{"method", "route", "status"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Latency of single attempts against the remote store.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		}, []string{"method", "route"}),
		sliceLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "state",
			Name:      "loads_total",
			Help:      "Collection loads by outcome.",
		}, []string{"slice", "outcome"}),
		sliceLoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Subsystem: "state",
			Name:      "load_duration_seconds",
			Help:      "Collection load latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"slice"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration,
		m.upstreamRequests, m.upstreamDuration,
		m.sliceLoads, m.sliceLoadDuration,
	)
	return m
}

// ObserveHTTP records one handled request
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveUpstream records one attempt against the remote store; status 0 is a transport failure
func (m *Metrics) ObserveUpstream(method, route string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.upstreamRequests.WithLabelValues(method, route, label).Inc()
	m.upstreamDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveLoad records one collection load
func (m *Metrics) ObserveLoad(slice, outcome string, elapsed time.Duration) {
	m.sliceLoads.WithLabelValues(slice, outcome).Inc()
	m.sliceLoadDuration.WithLabelValues(slice).Observe(elapsed.Seconds())
}

// Registry exposes the registry for tests and extra collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
