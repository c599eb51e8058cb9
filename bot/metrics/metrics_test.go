package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)
	m.ObserveSearch("ok", 0.2)
	m.Limited()
	m.Delivery("no_result")

	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")); got != 2 {
		t.Fatalf("cache misses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Searches.WithLabelValues("ok")); got != 1 {
		t.Fatalf("searches ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RateLimited); got != 1 {
		t.Fatalf("rate limited = %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.CacheLookup(true)
	m.ObserveSearch("error", 1)
	m.Callback("get")
	m.Limited()
	m.Delivery("ok")
}
