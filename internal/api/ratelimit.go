package api

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/star/crashtrack/internal/metrics"
)

// RateLimitConfig bounds pipeline runs per client IP. RPS <= 0 disables it.
type RateLimitConfig struct {
	RPS        float64
	Burst      int
	TrustProxy bool
}

// Idle limiters are swept once the map reaches limiterSweepAt entries.
// A client idle for limiterIdleTTL has a full bucket again, so dropping its
// limiter changes nothing. limiterMaxEntries is a hard cap.
const (
	limiterSweepAt    = 1024
	limiterMaxEntries = 10000
	limiterIdleTTL    = 3 * time.Minute
)

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	cfg      RateLimitConfig
	logger   *slog.Logger
	now      func() time.Time
}

func newIPRateLimiter(cfg RateLimitConfig, logger *slog.Logger) *ipRateLimiter {
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	return &ipRateLimiter{
		limiters: make(map[string]*limiterEntry),
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	if l.cfg.RPS <= 0 {
		return true
	}

	l.mu.Lock()
	now := l.now()
	e, ok := l.limiters[ip]
	if !ok {
		if len(l.limiters) >= limiterSweepAt {
			l.sweep(now)
		}
		e = &limiterEntry{lim: rate.NewLimiter(rate.Limit(l.cfg.RPS), l.cfg.Burst)}
		l.limiters[ip] = e
	}
	e.lastSeen = now
	l.mu.Unlock()

	return e.lim.AllowN(now, 1)
}

// sweep drops idle limiters. If the map is still at the hard cap it drops
// arbitrary entries down to half the cap. Callers hold l.mu.
func (l *ipRateLimiter) sweep(now time.Time) {
	for ip, e := range l.limiters {
		if now.Sub(e.lastSeen) > limiterIdleTTL {
			delete(l.limiters, ip)
		}
	}
	if len(l.limiters) < limiterMaxEntries {
		return
	}
	for ip := range l.limiters {
		if len(l.limiters) < limiterMaxEntries/2 {
			break
		}
		delete(l.limiters, ip)
	}
	l.logger.Warn("rate limiter at capacity, evicted active clients", "component", "api", "remaining", len(l.limiters))
}

// size returns the number of tracked clients.
func (l *ipRateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Middleware rejects requests over the per-IP budget with 429.
func (l *ipRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, l.cfg.TrustProxy)
		if !l.allow(ip) {
			metrics.IncRateLimited()
			l.logger.Warn("rate limit exceeded", "component", "api", "remote_ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client IP address from the request. Proxy headers
// are only honored when trustProxy is set, and only if they parse as an IP.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// Leftmost entry is the original client.
			first, _, _ := strings.Cut(xff, ",")
			if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
				return ip.String()
			}
		}
		if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
			return ip.String()
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
