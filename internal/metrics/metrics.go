package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the collectors.
const (
	OutcomeOK        = "ok"
	OutcomeNotFound  = "not_found"
	OutcomeError     = "error"
	OutcomeAbsent    = "absent"
	OutcomeMalformed = "malformed"
)

// Metrics owns a private registry and the collectors the daemon reports.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	listingRequests *prometheus.CounterVec
	listingLatency  prometheus.Histogram
	favoritesLoads  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		listingRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "proffy_listing_requests_total",
			Help: "Queries sent to the listing service, by outcome",
		}, []string{"outcome"}),
		listingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "proffy_listing_request_seconds",
			Help:    "Latency of listing service queries",
			Buckets: prometheus.DefBuckets,
		}),
		favoritesLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "proffy_favorites_loads_total",
			Help: "Reads of the favorites collection, by outcome",
		}, []string{"outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}

	registry.MustRegister(
		m.listingRequests,
		m.listingLatency,
		m.favoritesLoads,
		m.requestDuration,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveListing(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.listingRequests.WithLabelValues(outcome).Inc()
	m.listingLatency.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveFavoritesLoad(outcome string) {
	if m == nil {
		return
	}
	m.favoritesLoads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRequest(method, path, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, path, status).Observe(elapsed.Seconds())
}
