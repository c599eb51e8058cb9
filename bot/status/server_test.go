package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/m3rciful/wallbot/bot/metrics"
	"github.com/m3rciful/wallbot/bot/usage"
)

type stubStats struct {
	summary usage.Summary
	err     error
}

func (s stubStats) Summary(context.Context) (usage.Summary, error) { return s.summary, s.err }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	srv := New(Options{})
	if rec := get(t, srv.Handler(), "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}

	failing := New(Options{Ping: func(context.Context) error { return errors.New("db down") }})
	if rec := get(t, failing.Handler(), "/healthz"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("code = %d, want 503", rec.Code)
	}
}

func TestStatsJSON(t *testing.T) {
	srv := New(Options{Stats: stubStats{summary: usage.Summary{
		Users:      3,
		Downloads:  5,
		Categories: []usage.CategoryStat{{Category: "Cute Pets", Downloads: 5}},
	}}})
	rec := get(t, srv.Handler(), "/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	var got usage.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Users != 3 || got.Downloads != 5 || len(got.Categories) != 1 || got.Categories[0].Category != "Cute Pets" {
		t.Fatalf("summary = %+v", got)
	}
}

func TestStatsError(t *testing.T) {
	srv := New(Options{Stats: stubStats{err: errors.New("boom")}})
	if rec := get(t, srv.Handler(), "/stats"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", rec.Code)
	}
}

func TestMetricsEndpointAndRequestCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	srv := New(Options{Gatherer: reg, Metrics: m})

	get(t, srv.Handler(), "/healthz")
	rec := get(t, srv.Handler(), "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "wallbot_status_requests_total") {
		t.Fatal("metrics output missing status counter")
	}
	if got := testutil.ToFloat64(m.StatusRequests.WithLabelValues("/healthz", "GET", "200")); got != 1 {
		t.Fatalf("healthz requests = %v", got)
	}
}

func TestStartDisabledWithoutAddress(t *testing.T) {
	srv := New(Options{})
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestStartServes(t *testing.T) {
	srv := New(Options{Listen: "127.0.0.1:0"})
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	if srv.srv == nil {
		t.Fatal("server not started")
	}
}
