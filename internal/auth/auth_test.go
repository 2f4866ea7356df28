package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		cfg        Config
		path       string
		header     string
		wantStatus int
	}{
		{"disabled", Config{}, "/metrics", "", http.StatusOK},
		{"page is public", Config{Enabled: true, Token: "s3cret"}, "/", "", http.StatusOK},
		{"reload is public", Config{Enabled: true, Token: "s3cret"}, "/reload", "", http.StatusOK},
		{"probe is public", Config{Enabled: true, Token: "s3cret"}, "/healthz", "", http.StatusOK},
		{"metrics without token", Config{Enabled: true, Token: "s3cret"}, "/metrics", "", http.StatusUnauthorized},
		{"api without token", Config{Enabled: true, Token: "s3cret"}, "/api/v1/scene", "", http.StatusUnauthorized},
		{"api wrong token", Config{Enabled: true, Token: "s3cret"}, "/api/v1/scene", "Bearer nope", http.StatusUnauthorized},
		{"api missing scheme", Config{Enabled: true, Token: "s3cret"}, "/api/v1/scene", "s3cret", http.StatusUnauthorized},
		{"api valid token", Config{Enabled: true, Token: "s3cret"}, "/api/v1/scene", "Bearer s3cret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			Middleware(tt.cfg)(ok).ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
