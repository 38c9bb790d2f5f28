package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe(http.MethodGet, "/api/v1/orders", http.StatusOK, 50*time.Millisecond)
	m.Observe(http.MethodGet, "/api/v1/orders", http.StatusOK, 20*time.Millisecond)

	count := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/orders", "200"))
	if count != 2 {
		t.Fatalf("expected 2 requests recorded, got %v", count)
	}
}

func TestObserveNilSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe(http.MethodGet, "/x", http.StatusOK, time.Millisecond)

	empty := NewHTTPMetrics(nil)
	empty.Observe(http.MethodGet, "/x", http.StatusOK, time.Millisecond)
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/abc-123", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	count := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/orders/{id}", "204"))
	if count != 1 {
		t.Fatalf("expected pattern-labeled request, got %v", count)
	}
}
