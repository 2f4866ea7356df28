package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crashtrack_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crashtrack_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	pageRendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crashtrack_page_renders_total",
			Help: "Total number of pipeline runs, by trigger.",
		},
		[]string{"trigger"},
	)

	renderDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crashtrack_render_duration_seconds",
			Help:    "Duration of one full pipeline run in seconds.",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
	)

	ephemerisLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crashtrack_ephemeris_loads_total",
			Help: "Orbital model construction attempts, by outcome.",
		},
		[]string{"outcome"},
	)

	rateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crashtrack_rate_limited_total",
			Help: "Requests rejected by the per-IP rate limiter.",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(pageRendersTotal)
	prometheus.MustRegister(renderDurationSeconds)
	prometheus.MustRegister(ephemerisLoadsTotal)
	prometheus.MustRegister(rateLimitedTotal)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRender counts one pipeline run and its duration.
func RecordRender(trigger string, d time.Duration) {
	pageRendersTotal.WithLabelValues(trigger).Inc()
	renderDurationSeconds.Observe(d.Seconds())
}

// RecordEphemerisLoad counts one model construction attempt.
func RecordEphemerisLoad(outcome string) {
	ephemerisLoadsTotal.WithLabelValues(outcome).Inc()
}

// IncRateLimited counts one rejected request.
func IncRateLimited() {
	rateLimitedTotal.Inc()
}

// knownRoutes are recorded under their own path label.
var knownRoutes = map[string]bool{
	"/":                 true,
	"/reload":           true,
	"/map.svg":          true,
	"/healthz":          true,
	"/readyz":           true,
	"/metrics":          true,
	"/api/v1/scene":     true,
	"/api/v1/tle":       true,
	"/static/style.css": true,
}

// normalizeRoute bounds label cardinality: anything unknown is "other".
func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		path := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(path, r.Method).Observe(duration)
	})
}
