package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/mcp", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0"}`))
	})
	r.Get("/mcp", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
	r.Get("/dev/restaurant/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("<div></div>"))
	})
	return r
}

func TestMiddleware_RecordsDurationAndCount(t *testing.T) {
	r := newRouter()

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader("{}"))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/mcp", "200")); v < 1 {
		t.Errorf("expected http_requests_total >= 1, got %f", v)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := newRouter()

	for _, id := range []string{"atx-franklin", "nyc-katz"} {
		req := httptest.NewRequest(http.MethodGet, "/dev/restaurant/"+id, http.NoBody)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/dev/restaurant/{id}", "200"))
	if v < 2 {
		t.Errorf("expected both ids under one route label, got %f", v)
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := newRouter()

	tests := []struct {
		method string
		path   string
		route  string
		status string
	}{
		{http.MethodGet, "/mcp", "/mcp", "405"},
		{http.MethodGet, "/dev/restaurant/missing", "/dev/restaurant/{id}", "404"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tc.method, tc.path, http.NoBody))

			if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.method, tc.route, tc.status)); v < 1 {
				t.Errorf("expected requests_total for %s %s >= 1, got %f", tc.route, tc.status, v)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unknown"},
		{"/mcp", "/mcp"},
		{"/dev/menu/{id}", "/dev/menu/{id}"},
	}
	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestMiddleware_ResponseSize(t *testing.T) {
	r := newRouter()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dev/restaurant/atx-franklin", http.NoBody))

	if testutil.CollectAndCount(httpResponseBytes) == 0 {
		t.Error("expected http_response_size_bytes to have observations")
	}
	if v := testutil.ToFloat64(httpInFlight); v != 0 {
		t.Errorf("expected no requests in flight, got %f", v)
	}
}

func TestRegisterHTTPMetrics_Idempotent(t *testing.T) {
	RegisterHTTPMetrics()
	RegisterHTTPMetrics()
}
