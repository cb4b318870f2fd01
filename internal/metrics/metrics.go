package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RateLimited     prometheus.Counter
	References      prometheus.Counter
	RangesReported  prometheus.Counter
	KindsReported   *prometheus.CounterVec
}

// New creates and registers the collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "satrarity",
			Name:      "rpc_requests_total",
			Help:      "JSON-RPC requests by method and outcome.",
		}, []string{"method", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "satrarity",
			Name:      "rpc_request_duration_seconds",
			Help:      "JSON-RPC request latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "satrarity",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-client rate limit.",
		}),
		References: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "satrarity",
			Name:      "references_resolved_total",
			Help:      "References resolved through the index.",
		}),
		RangesReported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "satrarity",
			Name:      "ranges_reported_total",
			Help:      "Sat ranges classified.",
		}),
		KindsReported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "satrarity",
			Name:      "rarity_chunks_total",
			Help:      "Reported chunks by rarity kind.",
		}, []string{"kind"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests,
		m.RequestDuration,
		m.RateLimited,
		m.References,
		m.RangesReported,
		m.KindsReported,
	)
	return m
}

// TrackRateLimitedClients exports the number of clients holding a rate limit bucket
func (m *Metrics) TrackRateLimitedClients(count func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "satrarity",
		Name:      "rate_limited_clients",
		Help:      "Clients with a live rate limit bucket.",
	}, func() float64 { return float64(count()) }))
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
