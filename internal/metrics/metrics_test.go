package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		// Known exact routes.
		{"/", "/"},
		{"/reload", "/reload"},
		{"/map.svg", "/map.svg"},
		{"/healthz", "/healthz"},
		{"/readyz", "/readyz"},
		{"/metrics", "/metrics"},
		{"/api/v1/scene", "/api/v1/scene"},
		{"/api/v1/tle", "/api/v1/tle"},

		// Unknown/bot paths collapse to "other".
		{"/wp-admin", "other"},
		{"/robots.txt", "other"},
		{"/.env", "other"},
		{"/api/v2/scene", "other"},
		{"/favicon.ico", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := normalizeRoute(tt.path)
			if got != tt.want {
				t.Errorf("normalizeRoute(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

// TestMetricsCardinality verifies that 100 unknown paths produce exactly
// one distinct path label.
func TestMetricsCardinality(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		label := normalizeRoute("/probe/" + string(rune('a'+i%26)) + string(rune('0'+i/26)))
		seen[label] = true
	}
	if len(seen) != 1 {
		t.Errorf("expected 1 unique label for unknown paths, got %d: %v", len(seen), seen)
	}
}

func TestRecordRender(t *testing.T) {
	before := testutil.ToFloat64(pageRendersTotal.WithLabelValues("reload"))
	RecordRender("reload", 2*time.Millisecond)
	after := testutil.ToFloat64(pageRendersTotal.WithLabelValues("reload"))
	if after-before != 1 {
		t.Errorf("reload renders delta = %v, want 1", after-before)
	}
}

func TestRecordEphemerisLoad(t *testing.T) {
	before := testutil.ToFloat64(ephemerisLoadsTotal.WithLabelValues("unavailable"))
	RecordEphemerisLoad("unavailable")
	after := testutil.ToFloat64(ephemerisLoadsTotal.WithLabelValues("unavailable"))
	if after-before != 1 {
		t.Errorf("unavailable delta = %v, want 1", after-before)
	}
}

func TestMiddlewareCountsStatus(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	counter := httpRequestsTotal.WithLabelValues("other", "GET", "418")
	before := testutil.ToFloat64(counter)

	req := httptest.NewRequest("GET", "/teapot", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("418 counter delta = %v, want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordRender("load", time.Millisecond)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(w.Body.String(), "crashtrack_page_renders_total") {
		t.Error("expected crashtrack_page_renders_total in metrics output")
	}
}
