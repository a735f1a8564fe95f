package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/service"
	"github.com/bravo68web/odinpkg/internal/infrastructure/cache"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
)

type stubIdentity map[string]*models.User

func (s stubIdentity) Resolve(_ context.Context, cred service.Credential) (*models.User, error) {
	if u, ok := s[cred.Value]; ok {
		return u, nil
	}
	return nil, apperrors.Unauthorized("invalid credentials", apperrors.ErrInvalidCredentials)
}

func newAuthEngine(identity service.IdentityService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(identity)
	r := gin.New()
	whoami := func(c *gin.Context) {
		if u := GetUserFromContext(c); u != nil {
			c.String(http.StatusOK, u.Login)
			return
		}
		c.String(http.StatusOK, "anonymous")
	}
	r.GET("/optional", m.Authenticate(), whoami)
	r.GET("/required", m.RequireAuth(), whoami)
	r.GET("/moderation", m.RequireModerator(), whoami)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	identity := stubIdentity{
		"odin_alice":  {Login: "alice"},
		"session-mod": {Login: "mod", IsModerator: true},
	}
	r := newAuthEngine(identity)

	tests := []struct {
		name   string
		path   string
		header string
		cookie string
		status int
		body   string
	}{
		{"optional anonymous", "/optional", "", "", http.StatusOK, "anonymous"},
		{"optional bad token", "/optional", "Bearer odin_bogus", "", http.StatusOK, "anonymous"},
		{"optional token", "/optional", "Bearer odin_alice", "", http.StatusOK, "alice"},
		{"required missing", "/required", "", "", http.StatusUnauthorized, ""},
		{"required bad token", "/required", "Bearer odin_bogus", "", http.StatusUnauthorized, ""},
		{"required non bearer", "/required", "Basic YWxpY2U6eA==", "", http.StatusUnauthorized, ""},
		{"required cookie", "/required", "", "session-mod", http.StatusOK, "mod"},
		{"header wins over cookie", "/required", "Bearer odin_alice", "session-mod", http.StatusOK, "alice"},
		{"moderation as user", "/moderation", "Bearer odin_alice", "", http.StatusForbidden, ""},
		{"moderation as moderator", "/moderation", "Bearer session-mod", "", http.StatusOK, "mod"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
			if tt.body != "" && w.Body.String() != tt.body {
				t.Fatalf("expected body %q, got %q", tt.body, w.Body.String())
			}
		})
	}
}

func TestCredentialClassifiesBearer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	if _, ok := Credential(c); ok {
		t.Fatalf("expected no credential")
	}

	c.Request.Header.Set("Authorization", "Bearer odin_abc")
	cred, ok := Credential(c)
	if !ok || cred.Kind != service.CredentialToken {
		t.Fatalf("expected a token credential, got %+v", cred)
	}

	c.Request.Header.Set("Authorization", "Bearer eyJhbGciOi")
	if cred, _ := Credential(c); cred.Kind != service.CredentialSession {
		t.Fatalf("expected a session credential, got %+v", cred)
	}
}

func newRateLimitedEngine(limiter Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(limiter))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestRateLimitMiddleware(t *testing.T) {
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mini.Close)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := newRateLimitedEngine(cache.NewRateLimiter(client, 2, time.Minute))
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" || w.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("missing rate limit headers: %v", w.Header())
	}
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (cache.Decision, error) {
	return cache.Decision{}, errors.New("redis down")
}

func TestRateLimitFailsOpen(t *testing.T) {
	r := newRateLimitedEngine(brokenLimiter{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected the request through, got %d", w.Code)
	}
}
