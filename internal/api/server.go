package api

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"

	"github.com/star/crashtrack/internal/auth"
	"github.com/star/crashtrack/internal/health"
	"github.com/star/crashtrack/internal/metrics"
	"github.com/star/crashtrack/internal/page"
	"github.com/star/crashtrack/web"
)

// Config holds the server configuration.
type Config struct {
	Addr      string
	Auth      auth.Config
	RateLimit RateLimitConfig
}

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	pipeline   *page.Pipeline
	logger     *slog.Logger
}

// NewServer creates a configured HTTP server. Every page request runs the
// pipeline from scratch.
func NewServer(cfg Config, logger *slog.Logger, pipeline *page.Pipeline) *Server {
	s := &Server{
		pipeline: pipeline,
		logger:   logger,
	}

	// Build middleware chain: metrics -> request id -> logging -> auth -> gzip -> router.
	var handler http.Handler = s.routes(cfg, logger)
	handler = gzhttp.GzipHandler(handler)
	handler = auth.Middleware(cfg.Auth)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = middleware.RequestID(handler)
	handler = metrics.Middleware(handler)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes(cfg Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz(s.ready))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	static, err := fs.Sub(web.Content, "static")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	limiter := newIPRateLimiter(cfg.RateLimit, logger)
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)

		r.Get("/", s.handlePage)
		r.Post("/reload", s.handleReload)
		r.Get("/map.svg", s.handleMapSVG)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/scene", s.handleScene)
			r.Get("/tle", s.handleTLE)
		})
	})

	return r
}

func (s *Server) ready() error {
	if s.pipeline == nil {
		return errors.New("pipeline not configured")
	}
	return nil
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// probePath returns true for health/readiness probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			duration := time.Since(start)
			level := slog.LevelInfo
			if probePath(r.URL.Path) {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "request",
				"component", "api",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", duration.Milliseconds(),
				"remote_ip", r.RemoteAddr,
			)
		})
	}
}
