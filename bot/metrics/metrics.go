// Package metrics bundles the bot's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles prometheus collectors used by the bot. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Searches          *prometheus.CounterVec
	SearchDurationSec prometheus.Histogram
	CacheLookups      *prometheus.CounterVec
	Callbacks         *prometheus.CounterVec
	RateLimited       prometheus.Counter
	Deliveries        *prometheus.CounterVec
	StatusRequests    *prometheus.CounterVec
}

// New creates the collectors and registers them in registry.
func New(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallbot_searches_total",
			Help: "Image searches sent to the provider by result.",
		}, []string{"result"}),
		SearchDurationSec: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wallbot_search_duration_seconds",
			Help:    "Image search latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallbot_cache_lookups_total",
			Help: "Result cache lookups by outcome.",
		}, []string{"result"}),
		Callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallbot_callbacks_total",
			Help: "Decoded callback actions by verb.",
		}, []string{"verb"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wallbot_ratelimit_dropped_total",
			Help: "Callback actions dropped by the per-user cooldown.",
		}),
		Deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallbot_deliveries_total",
			Help: "Image fetch requests by outcome.",
		}, []string{"outcome"}),
		StatusRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallbot_status_requests_total",
			Help: "Status server HTTP requests.",
		}, []string{"route", "method", "status"}),
	}

	registry.MustRegister(
		m.Searches,
		m.SearchDurationSec,
		m.CacheLookups,
		m.Callbacks,
		m.RateLimited,
		m.Deliveries,
		m.StatusRequests,
	)
	return m
}

// ObserveSearch records one provider call.
func (m *Metrics) ObserveSearch(result string, seconds float64) {
	if m == nil {
		return
	}
	m.Searches.WithLabelValues(result).Inc()
	m.SearchDurationSec.Observe(seconds)
}

// CacheLookup records a cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// Callback records a decoded callback verb.
func (m *Metrics) Callback(verb string) {
	if m == nil {
		return
	}
	m.Callbacks.WithLabelValues(verb).Inc()
}

// Limited records an action dropped by the rate limiter.
func (m *Metrics) Limited() {
	if m == nil {
		return
	}
	m.RateLimited.Inc()
}

// Delivery records the outcome of an image fetch.
func (m *Metrics) Delivery(outcome string) {
	if m == nil {
		return
	}
	m.Deliveries.WithLabelValues(outcome).Inc()
}
