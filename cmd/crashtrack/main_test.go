package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/star/crashtrack/internal/api"
)

func TestShutdownExitCode(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	noTracing := func(context.Context) error { return nil }

	tests := []struct {
		name      string
		listenErr error
		want      int
	}{
		{name: "clean stop", want: 0},
		{name: "listen failed", listenErr: errors.New("address already in use"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := api.NewServer(api.Config{Addr: "127.0.0.1:0"}, logger, nil)
			listenErr := make(chan error, 1)
			if tt.listenErr != nil {
				listenErr <- tt.listenErr
			}
			if got := shutdown(srv, noTracing, listenErr, logger); got != tt.want {
				t.Errorf("shutdown = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLoadLogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("CRASHTRACK_LOG_LEVEL", tt.value)
			if got := loadLogLevel(); got != tt.want {
				t.Errorf("loadLogLevel = %v, want %v", got, tt.want)
			}
		})
	}
}
