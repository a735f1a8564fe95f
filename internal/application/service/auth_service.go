package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"

	"github.com/bravo68web/odinpkg/internal/config"
	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
	"github.com/bravo68web/odinpkg/pkg/logger"
)

// ProviderGitHub names the GitHub identity provider
const ProviderGitHub = "github"

// ProviderIdentity is what an identity provider tells us about the caller
type ProviderIdentity struct {
	Provider   string
	Subject    string
	Login      string
	AvatarURL  string
	Credential string
}

// LoginResult is a user with a freshly issued session
type LoginResult struct {
	User      *models.User
	Session   string
	ExpiresAt time.Time
}

// AuthService runs the provider logins and issues sessions
type AuthService struct {
	userRepo  repository.UserRepository
	sessions  *SessionManager
	github    *oauth2.Config
	githubAPI *resty.Client
	oidc      *OIDCService
	log       *logger.Logger
}

// NewAuthService creates a new AuthService instance
func NewAuthService(
	cfg *config.AuthConfig,
	userRepo repository.UserRepository,
	sessions *SessionManager,
	oidcService *OIDCService,
) *AuthService {
	s := &AuthService{
		userRepo: userRepo,
		sessions: sessions,
		oidc:     oidcService,
		log:      logger.Get().WithFields(logger.Component("auth-service")),
	}

	if cfg.GitHub.IsConfigured() {
		s.github = &oauth2.Config{
			ClientID:     cfg.GitHub.ClientID,
			ClientSecret: cfg.GitHub.ClientSecret,
			RedirectURL:  cfg.GitHub.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.GitHub.AuthURL,
				TokenURL: cfg.GitHub.TokenURL,
			},
			Scopes: []string{"read:user"},
		}
		s.githubAPI = resty.New().
			SetBaseURL(cfg.GitHub.APIURL).
			SetTimeout(10*time.Second).
			SetRetryCount(0).
			SetHeader("Accept", "application/vnd.github+json")
	}

	return s
}

// GitHubEnabled reports whether GitHub login is configured
func (s *AuthService) GitHubEnabled() bool {
	return s.github != nil
}

// OIDCEnabled reports whether OIDC login is configured
func (s *AuthService) OIDCEnabled() bool {
	return s.oidc != nil && s.oidc.IsEnabled()
}

// GitHubAuthURL returns the GitHub authorization URL and its state
func (s *AuthService) GitHubAuthURL() (string, string, error) {
	if s.github == nil {
		return "", "", apperrors.BadRequest("GitHub login is not configured", apperrors.ErrInvalidInput)
	}
	state, err := generateRandomState()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate state: %w", err)
	}
	return s.github.AuthCodeURL(state, oauth2.AccessTypeOnline), state, nil
}

// OIDCAuthURL returns the OIDC authorization URL and its state
func (s *AuthService) OIDCAuthURL() (string, string, error) {
	if !s.OIDCEnabled() {
		return "", "", apperrors.BadRequest("OIDC login is not configured", apperrors.ErrInvalidInput)
	}
	return s.oidc.GenerateAuthURL()
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// GitHubCallback completes a GitHub login
func (s *AuthService) GitHubCallback(ctx context.Context, code, state, expectedState string) (*LoginResult, error) {
	if s.github == nil {
		return nil, apperrors.BadRequest("GitHub login is not configured", apperrors.ErrInvalidInput)
	}
	if err := checkState(state, expectedState); err != nil {
		return nil, err
	}

	token, err := s.github.Exchange(ctx, code)
	if err != nil {
		return nil, exchangeError(err)
	}

	var gh githubUser
	resp, err := s.githubAPI.R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		SetResult(&gh).
		Get("/user")
	if err != nil {
		return nil, apperrors.Upstream("GitHub is unavailable", fmt.Errorf("%w: %v", apperrors.ErrUpstream, err))
	}
	if resp.IsError() {
		if resp.StatusCode() == 401 {
			return nil, apperrors.Unauthorized("GitHub rejected the access token", apperrors.ErrInvalidCredentials)
		}
		return nil, apperrors.Upstream("GitHub is unavailable", fmt.Errorf("%w: GET /user returned %d", apperrors.ErrUpstream, resp.StatusCode()))
	}
	if gh.Login == "" {
		return nil, apperrors.Upstream("GitHub returned no login", apperrors.ErrUpstream)
	}

	return s.Login(ctx, ProviderIdentity{
		Provider:   ProviderGitHub,
		Subject:    strconv.FormatInt(gh.ID, 10),
		Login:      gh.Login,
		AvatarURL:  gh.AvatarURL,
		Credential: token.AccessToken,
	})
}

// OIDCCallback completes an OIDC login
func (s *AuthService) OIDCCallback(ctx context.Context, code, state, expectedState string) (*LoginResult, error) {
	if !s.OIDCEnabled() {
		return nil, apperrors.BadRequest("OIDC login is not configured", apperrors.ErrInvalidInput)
	}
	if err := checkState(state, expectedState); err != nil {
		return nil, err
	}

	identity, err := s.oidc.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.Login(ctx, *identity)
}

// Login upserts the user behind a provider identity and issues a session.
// A re-login refreshes the stored credential and avatar, which invalidates
// sessions issued for the previous credential.
func (s *AuthService) Login(ctx context.Context, identity ProviderIdentity) (*LoginResult, error) {
	user, err := s.userRepo.FindByProviderSubject(ctx, identity.Provider, identity.Subject)
	switch {
	case err == nil:
		user.Login = identity.Login
		user.AccessCredential = identity.Credential
		user.AvatarURL = identity.AvatarURL
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}

	case apperrors.IsNotFound(err):
		user, err = s.createUser(ctx, identity)
		if err != nil {
			return nil, err
		}

	default:
		return nil, err
	}

	if user.Banned {
		s.log.Warn("banned user attempted login", logger.Login(user.Login))
		return nil, apperrors.Forbidden("user is banned", apperrors.ErrUserBanned)
	}

	session, expiresAt, err := s.sessions.Issue(user)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in", logger.Login(user.Login), logger.String("provider", identity.Provider))
	return &LoginResult{User: user, Session: session, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) createUser(ctx context.Context, identity ProviderIdentity) (*models.User, error) {
	user := &models.User{
		Login:            identity.Login,
		Provider:         identity.Provider,
		ProviderSubject:  identity.Subject,
		AccessCredential: identity.Credential,
		AvatarURL:        identity.AvatarURL,
	}

	// Ensure login is unique across providers
	for i := 0; i < 10; i++ {
		_, err := s.userRepo.FindByLogin(ctx, user.Login)
		if apperrors.IsNotFound(err) {
			break
		}
		if err != nil {
			return nil, err
		}
		user.Login = fmt.Sprintf("%s-%s%d", identity.Login, identity.Provider, i+1)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user created", logger.Login(user.Login), logger.String("provider", identity.Provider))
	return user, nil
}

func checkState(state, expected string) error {
	if state == "" || state != expected {
		return apperrors.Unauthorized("invalid state parameter", apperrors.ErrInvalidCredentials)
	}
	return nil
}

// exchangeError maps an OAuth code exchange failure. A provider that answered
// rejected the code; anything else means the provider was unreachable.
func exchangeError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return apperrors.Unauthorized("failed to exchange code", fmt.Errorf("%w: %v", apperrors.ErrInvalidCredentials, err))
	}
	return apperrors.Upstream("identity provider unavailable", fmt.Errorf("%w: %v", apperrors.ErrUpstream, err))
}
