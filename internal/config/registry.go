package config

import (
	"fmt"
	"time"
)

// AuthConfig holds login and session configuration
type AuthConfig struct {
	// JWTSecret signs session credentials. Set ODINPKG_JWT_SECRET in production.
	JWTSecret string `mapstructure:"jwt_secret"`

	// SessionTTL is how long a session credential stays valid
	SessionTTL time.Duration `mapstructure:"session_ttl"`

	// FrontendURL is where the browser is sent after login
	FrontendURL string `mapstructure:"frontend_url"`

	GitHub GitHubConfig `mapstructure:"github"`
	OIDC   OIDCConfig   `mapstructure:"oidc"`
}

// GitHubConfig holds GitHub OAuth application settings
type GitHubConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
	AuthURL      string `mapstructure:"auth_url"`
	TokenURL     string `mapstructure:"token_url"`
	APIURL       string `mapstructure:"api_url"`
}

// IsConfigured returns true if GitHub login can be offered
func (g *GitHubConfig) IsConfigured() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// OIDCConfig holds generic OpenID Connect provider settings
type OIDCConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	Name         string   `mapstructure:"name"`
	Issuer       string   `mapstructure:"issuer"`
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	RedirectURL  string   `mapstructure:"redirect_url"`
	Scopes       []string `mapstructure:"scopes"`
}

// IsConfigured returns true if OIDC is enabled and properly configured
func (o *OIDCConfig) IsConfigured() bool {
	return o.Enabled && o.Issuer != "" && o.ClientID != ""
}

// Validate validates the auth configuration
func (a *AuthConfig) Validate() error {
	if len(a.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters")
	}
	if a.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive")
	}
	if a.OIDC.Enabled && (a.OIDC.Issuer == "" || a.OIDC.ClientID == "") {
		return fmt.Errorf("auth.oidc.issuer and auth.oidc.client_id are required when OIDC is enabled")
	}
	return nil
}

// ReadmeConfig holds readme fetching configuration
type ReadmeConfig struct {
	// FetchTimeout bounds a single readme download
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`

	// MaxBytes is the largest readme accepted, fetched or inline
	MaxBytes int64 `mapstructure:"max_bytes"`

	// BreakerThreshold is the number of consecutive failures that open a host's breaker
	BreakerThreshold int64 `mapstructure:"breaker_threshold"`

	// AllowPrivateHosts lets the fetcher reach loopback, private and
	// link-local addresses. Only for local development.
	AllowPrivateHosts bool `mapstructure:"allow_private_hosts"`
}

// DefaultReadmeConfig returns default readme configuration
func DefaultReadmeConfig() ReadmeConfig {
	return ReadmeConfig{
		FetchTimeout:     10 * time.Second,
		MaxBytes:         1 << 20,
		BreakerThreshold: 5,
	}
}

// Validate validates the readme configuration
func (r *ReadmeConfig) Validate() error {
	if r.FetchTimeout <= 0 {
		return fmt.Errorf("readme.fetch_timeout must be positive")
	}
	if r.MaxBytes <= 0 {
		return fmt.Errorf("readme.max_bytes must be positive")
	}
	if r.BreakerThreshold <= 0 {
		return fmt.Errorf("readme.breaker_threshold must be positive")
	}
	return nil
}

// RedisConfig holds the Redis connection used for rate limiting
type RedisConfig struct {
	// Addr is host:port. Rate limiting is disabled when empty.
	Addr      string          `mapstructure:"addr"`
	Password  string          `mapstructure:"password"`
	DB        int             `mapstructure:"db"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig holds the fixed-window limiter settings
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// IsConfigured returns true if a Redis server is configured
func (r *RedisConfig) IsConfigured() bool {
	return r.Addr != ""
}

// Validate validates the redis configuration
func (r *RedisConfig) Validate() error {
	if !r.IsConfigured() {
		return nil
	}
	if r.RateLimit.Requests <= 0 {
		return fmt.Errorf("redis.rate_limit.requests must be positive")
	}
	if r.RateLimit.Window <= 0 {
		return fmt.Errorf("redis.rate_limit.window must be positive")
	}
	return nil
}
