package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/star/crashtrack/internal/api"
	"github.com/star/crashtrack/internal/auth"
	"github.com/star/crashtrack/internal/basemap"
	"github.com/star/crashtrack/internal/ephemeris"
	"github.com/star/crashtrack/internal/observability"
	"github.com/star/crashtrack/internal/page"
)

func main() {
	level := loadLogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	addr := os.Getenv("CRASHTRACK_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	authCfg, err := loadAuthConfig(logger)
	if err != nil {
		logger.Error("invalid auth configuration", "error", err)
		os.Exit(1)
	}
	rateCfg := loadRateLimitConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, loadTracingConfig(logger), logger)
	if err != nil {
		logger.Error("tracing init failed", "error", err)
		os.Exit(1)
	}

	bm, err := basemap.Load()
	if err != nil {
		logger.Error("failed to load basemap", "error", err)
		os.Exit(1)
	}
	logger.Info("basemap loaded",
		"land", len(bm.Land),
		"lakes", len(bm.Lakes),
		"borders", len(bm.Borders),
	)

	pipeline := page.NewPipeline(ephemeris.NewLoader(logger), bm, logger)
	srv := api.NewServer(api.Config{
		Addr:      addr,
		Auth:      authCfg,
		RateLimit: rateCfg,
	}, logger, pipeline)

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", addr, "auth_enabled", authCfg.Enabled, "log_level", level.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen error", "error", err)
			listenErr <- err
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	if code := shutdown(srv, shutdownTracing, listenErr, logger); code != 0 {
		os.Exit(code)
	}
	logger.Info("server stopped")
}

// shutdown stops the server and flushes traces. It returns a non-zero exit
// code if the server failed to listen or to shut down.
func shutdown(srv *api.Server, shutdownTracing func(context.Context) error, listenErr <-chan error, logger *slog.Logger) int {
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, logger)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	code := 0
	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		code = 1
	}
	select {
	case <-listenErr:
		code = 1
	default:
	}
	return code
}

func loadLogLevel() slog.Level {
	level := slog.LevelInfo
	if v := os.Getenv("CRASHTRACK_LOG_LEVEL"); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return slog.LevelInfo
		}
	}
	return level
}

func loadAuthConfig(logger *slog.Logger) (auth.Config, error) {
	cfg := auth.Config{}

	enabledStr := os.Getenv("CRASHTRACK_AUTH_ENABLED")
	if enabledStr != "" {
		enabled, err := strconv.ParseBool(enabledStr)
		if err != nil {
			return cfg, errors.New("CRASHTRACK_AUTH_ENABLED must be a boolean value (true/false/1/0)")
		}
		cfg.Enabled = enabled
	}

	if cfg.Enabled {
		cfg.Token = os.Getenv("CRASHTRACK_AUTH_TOKEN")
		if cfg.Token == "" {
			return cfg, errors.New("CRASHTRACK_AUTH_TOKEN is required when auth is enabled")
		}
		logger.Info("auth enabled")
	}

	return cfg, nil
}

func loadRateLimitConfig(logger *slog.Logger) api.RateLimitConfig {
	cfg := api.RateLimitConfig{
		RPS:   5,
		Burst: 10,
	}

	if v := os.Getenv("CRASHTRACK_RATE_LIMIT_RPS"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 {
			logger.Warn("invalid CRASHTRACK_RATE_LIMIT_RPS value, using default", "value", v, "default", cfg.RPS)
		} else {
			cfg.RPS = n
		}
	}

	if v := os.Getenv("CRASHTRACK_RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid CRASHTRACK_RATE_LIMIT_BURST value, using default", "value", v, "default", cfg.Burst)
		} else {
			cfg.Burst = n
		}
	}

	if v := os.Getenv("CRASHTRACK_TRUST_PROXY"); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid CRASHTRACK_TRUST_PROXY value, defaulting to false", "value", v)
		} else {
			cfg.TrustProxy = trust
		}
	}

	logger.Info("rate limit config",
		"rps", cfg.RPS,
		"burst", cfg.Burst,
		"trust_proxy", cfg.TrustProxy,
	)

	return cfg
}

func loadTracingConfig(logger *slog.Logger) observability.TracingConfig {
	cfg := observability.TracingConfig{
		Exporter:    "stdout",
		Endpoint:    os.Getenv("CRASHTRACK_OTLP_ENDPOINT"),
		SampleRatio: 1,
	}

	if v := os.Getenv("CRASHTRACK_TRACING_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid CRASHTRACK_TRACING_ENABLED value, defaulting to false", "value", v)
		} else {
			cfg.Enabled = enabled
		}
	}

	if v := os.Getenv("CRASHTRACK_TRACING_EXPORTER"); v != "" {
		cfg.Exporter = strings.ToLower(v)
	}

	if v := os.Getenv("CRASHTRACK_TRACING_SAMPLE_RATIO"); v != "" {
		ratio, err := strconv.ParseFloat(v, 64)
		if err != nil || ratio < 0 || ratio > 1 {
			logger.Warn("invalid CRASHTRACK_TRACING_SAMPLE_RATIO value, using default", "value", v, "default", 1)
		} else {
			cfg.SampleRatio = ratio
		}
	}

	return cfg
}
