// Package metrics holds the Prometheus collectors of the gloss service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ichiran_gloss"

// Default histogram buckets.
var (
	DefaultHTTPDurationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultLookupDurationBuckets = []float64{.1, .25, .5, 1, 2, 5, 10, 30, 60}
)

// Metrics groups every collector the service records into.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	LookupsTotal   *prometheus.CounterVec
	LookupDuration prometheus.Histogram

	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	SegmentsTotal prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by path and status code.",
		}, []string{"path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by path.",
			Buckets:   DefaultHTTPDurationBuckets,
		}, []string{"path"}),
		LookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "glossary",
			Name:      "lookups_total",
			Help:      "Analyzer lookups by result.",
		}, []string{"result"}),
		LookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "glossary",
			Name:      "lookup_duration_seconds",
			Help:      "Latency of one sentence lookup, cache included.",
			Buckets:   DefaultLookupDurationBuckets,
		}),
		CacheHitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Lookup cache hits by backend.",
		}, []string{"backend"}),
		CacheMissesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Lookup cache misses by backend.",
		}, []string{"backend"}),
		SegmentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "segments_total",
			Help:      "Analyzer segments normalized by the stream processor.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.LookupsTotal,
		m.LookupDuration,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.SegmentsTotal,
	)
	return m
}

// NewUnregistered creates collectors that are not exposed anywhere.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}
