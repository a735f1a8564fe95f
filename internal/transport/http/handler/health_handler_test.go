package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type staticBreakers map[string]string

func (b staticBreakers) BreakerStates() map[string]string { return b }

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		ping     error
		breakers BreakerReporter
		status   int
		want     HealthResponse
	}{
		{"healthy", nil, nil, http.StatusOK, HealthResponse{Status: "ok", Database: "ok"}},
		{"database down", errors.New("connection refused"), nil, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Database: "unreachable"}},
		{"breakers reported", nil, staticBreakers{"raw.githubusercontent.com": "open"}, http.StatusOK, HealthResponse{Status: "ok", Database: "ok"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(pingFunc(func(context.Context) error { return tt.ping }), tt.breakers)
			r := gin.New()
			r.GET("/health", h.Health)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}

			var got HealthResponse
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Status != tt.want.Status || got.Database != tt.want.Database {
				t.Fatalf("unexpected body %+v", got)
			}
			if tt.breakers != nil && got.Breakers["raw.githubusercontent.com"] != "open" {
				t.Fatalf("breaker states missing: %+v", got.Breakers)
			}
		})
	}
}
