package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/bravo68web/odinpkg/internal/config"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
)

// OIDCService handles OpenID Connect authentication
type OIDCService struct {
	config      *config.OIDCConfig
	provider    *oidc.Provider
	oauth2Cfg   *oauth2.Config
	verifier    *oidc.IDTokenVerifier
	initialized bool
}

// OIDCClaims represents the claims from an OIDC ID token
type OIDCClaims struct {
	Subject  string `json:"sub"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"preferred_username"`
	Picture  string `json:"picture"`
}

// NewOIDCService creates a new OIDCService instance
func NewOIDCService(cfg *config.OIDCConfig) *OIDCService {
	return &OIDCService{config: cfg}
}

// Initialize sets up the OIDC provider connection
// This should be called after the service is created and before any other methods
func (s *OIDCService) Initialize(ctx context.Context) error {
	if !s.config.IsConfigured() {
		return nil
	}

	provider, err := oidc.NewProvider(ctx, s.config.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize OIDC provider: %w", err)
	}

	s.provider = provider
	s.oauth2Cfg = &oauth2.Config{
		ClientID:     s.config.ClientID,
		ClientSecret: s.config.ClientSecret,
		RedirectURL:  s.config.RedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       s.config.Scopes,
	}
	s.verifier = provider.Verifier(&oidc.Config{ClientID: s.config.ClientID})
	s.initialized = true

	return nil
}

// IsEnabled returns whether OIDC login can be offered
func (s *OIDCService) IsEnabled() bool {
	return s.initialized
}

// Name returns the display name of the provider
func (s *OIDCService) Name() string {
	if s.config.Name != "" {
		return s.config.Name
	}
	return "oidc"
}

// GenerateAuthURL generates the authorization URL for OIDC login
// Returns the URL and the state parameter (which should be stored in a cookie)
func (s *OIDCService) GenerateAuthURL() (string, string, error) {
	if !s.initialized {
		return "", "", fmt.Errorf("OIDC service not initialized")
	}

	state, err := generateRandomState()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate state: %w", err)
	}

	return s.oauth2Cfg.AuthCodeURL(state, oauth2.AccessTypeOnline), state, nil
}

// Exchange trades the callback code for the caller's provider identity
func (s *OIDCService) Exchange(ctx context.Context, code string) (*ProviderIdentity, error) {
	if !s.initialized {
		return nil, apperrors.BadRequest("OIDC login is not configured", apperrors.ErrInvalidInput)
	}

	oauth2Token, err := s.oauth2Cfg.Exchange(ctx, code)
	if err != nil {
		return nil, exchangeError(err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, apperrors.Upstream("no id_token in token response", apperrors.ErrUpstream)
	}

	idToken, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, apperrors.Unauthorized("failed to verify id_token", fmt.Errorf("%w: %v", apperrors.ErrInvalidCredentials, err))
	}

	var claims OIDCClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, apperrors.Upstream("failed to parse claims", err)
	}

	return &ProviderIdentity{
		Provider:   s.Name(),
		Subject:    idToken.Issuer + "|" + claims.Subject,
		Login:      oidcLogin(claims),
		AvatarURL:  claims.Picture,
		Credential: oauth2Token.AccessToken,
	}, nil
}

// oidcLogin derives a login from OIDC claims
func oidcLogin(claims OIDCClaims) string {
	// Prefer preferred_username, then email prefix, then name
	switch {
	case claims.Username != "":
		return sanitizeLogin(claims.Username)
	case claims.Email != "":
		return sanitizeLogin(strings.SplitN(claims.Email, "@", 2)[0])
	case claims.Name != "":
		return sanitizeLogin(strings.ReplaceAll(claims.Name, " ", ""))
	}
	return sanitizeLogin(claims.Subject)
}

// sanitizeLogin removes invalid characters from a login
func sanitizeLogin(s string) string {
	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			result.WriteRune(r)
		}
	}
	login := result.String()

	if len(login) < 3 {
		login += "user"
	}
	if len(login) > 50 {
		login = login[:50]
	}
	return strings.ToLower(login)
}
