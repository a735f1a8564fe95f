package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bravo68web/odinpkg/internal/config"
	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/service"
	"github.com/bravo68web/odinpkg/internal/testutil/memrepo"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
)

type identityFixture struct {
	store    *memrepo.Store
	sessions *SessionManager
	identity *IdentityServiceImpl
	tokens   *TokenService
	auth     *AuthService
}

func newIdentityFixture() *identityFixture {
	store := memrepo.New()
	sessions := NewSessionManager("test-secret", time.Hour)
	return &identityFixture{
		store:    store,
		sessions: sessions,
		identity: NewIdentityService(store.Users(), store.Tokens(), sessions),
		tokens:   NewTokenService(store.Tokens()),
		auth:     NewAuthService(&config.AuthConfig{}, store.Users(), sessions, nil),
	}
}

func githubIdentity(login, credential string) ProviderIdentity {
	return ProviderIdentity{
		Provider:   ProviderGitHub,
		Subject:    "1001",
		Login:      login,
		Credential: credential,
	}
}

func TestBearerCredential(t *testing.T) {
	if c := service.BearerCredential("odin_abc"); c.Kind != service.CredentialToken {
		t.Fatalf("expected token credential, got %v", c.Kind)
	}
	if c := service.BearerCredential("eyJhbGciOi"); c.Kind != service.CredentialSession {
		t.Fatalf("expected session credential, got %v", c.Kind)
	}
}

func TestResolveSession(t *testing.T) {
	f := newIdentityFixture()
	ctx := context.Background()

	res, err := f.auth.Login(ctx, githubIdentity("alice", "gho_first"))
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	user, err := f.identity.Resolve(ctx, service.Credential{Kind: service.CredentialSession, Value: res.Session})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if user.ID != res.User.ID {
		t.Fatalf("resolved %s, want %s", user.ID, res.User.ID)
	}
}

func TestResolveSessionAfterCredentialRotation(t *testing.T) {
	f := newIdentityFixture()
	ctx := context.Background()

	first, err := f.auth.Login(ctx, githubIdentity("alice", "gho_first"))
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	second, err := f.auth.Login(ctx, githubIdentity("alice", "gho_second"))
	if err != nil {
		t.Fatalf("second Login: %v", err)
	}
	if first.User.ID != second.User.ID {
		t.Fatalf("re-login created a second user")
	}

	_, err = f.identity.Resolve(ctx, service.Credential{Kind: service.CredentialSession, Value: first.Session})
	if !apperrors.IsUnauthorized(err) || !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("expected stale session to be invalid, got %v", err)
	}
	if _, err := f.identity.Resolve(ctx, service.Credential{Kind: service.CredentialSession, Value: second.Session}); err != nil {
		t.Fatalf("fresh session rejected: %v", err)
	}
}

func TestResolveRejectsGarbage(t *testing.T) {
	f := newIdentityFixture()
	ctx := context.Background()

	tests := []service.Credential{
		{Kind: service.CredentialSession, Value: ""},
		{Kind: service.CredentialSession, Value: "not-a-jwt"},
		{Kind: service.CredentialToken, Value: "odin_unknown"},
	}
	for _, cred := range tests {
		_, err := f.identity.Resolve(ctx, cred)
		if !errors.Is(err, apperrors.ErrInvalidCredentials) || !apperrors.IsUnauthorized(err) {
			t.Fatalf("expected invalid credentials for %q, got %v", cred.Value, err)
		}
	}
}

func TestResolveSessionWithForeignSecret(t *testing.T) {
	f := newIdentityFixture()
	ctx := context.Background()

	res, err := f.auth.Login(ctx, githubIdentity("alice", "gho_first"))
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	forged, _, err := NewSessionManager("other-secret", time.Hour).Issue(res.User)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := f.identity.Resolve(ctx, service.Credential{Value: forged}); !apperrors.IsUnauthorized(err) {
		t.Fatalf("expected forged session to fail, got %v", err)
	}
}

func TestResolveToken(t *testing.T) {
	f := newIdentityFixture()
	ctx := context.Background()

	res, err := f.auth.Login(ctx, githubIdentity("alice", "gho_first"))
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	created, err := f.tokens.CreateToken(ctx, CreateTokenRequest{UserID: res.User.ID, Name: "laptop"})
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	if !strings.HasPrefix(created.RawToken, service.TokenPrefix) {
		t.Fatalf("raw token %q lacks prefix", created.RawToken)
	}
	if created.Token.TokenHash == created.RawToken {
		t.Fatalf("raw token stored in clear")
	}

	user, err := f.identity.Resolve(ctx, service.BearerCredential(created.RawToken))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if user.Login != "alice" {
		t.Fatalf("resolved %q", user.Login)
	}

	if err := f.tokens.RevokeToken(ctx, res.User.ID, created.Token.ID); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	_, err = f.identity.Resolve(ctx, service.BearerCredential(created.RawToken))
	if !errors.Is(err, apperrors.ErrTokenRevoked) || !apperrors.IsUnauthorized(err) {
		t.Fatalf("expected revoked, got %v", err)
	}
}

func TestResolveExpiredToken(t *testing.T) {
	f := newIdentityFixture()
	ctx := context.Background()

	res, err := f.auth.Login(ctx, githubIdentity("alice", "gho_first"))
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	past := time.Now().Add(-time.Minute)
	raw := "odin_expired0000000000000000000000000000000"
	if err := f.store.Tokens().Create(ctx, &models.ApiToken{
		UserID:    res.User.ID,
		Name:      "old",
		TokenHash: hashToken(raw),
		ExpiresAt: &past,
	}); err != nil {
		t.Fatalf("create token: %v", err)
	}

	_, err = f.identity.Resolve(ctx, service.BearerCredential(raw))
	if !apperrors.IsUnauthorized(err) || errors.Is(err, apperrors.ErrTokenRevoked) {
		t.Fatalf("expected invalid (not revoked), got %v", err)
	}
}

func TestResolveBannedUser(t *testing.T) {
	f := newIdentityFixture()
	ctx := context.Background()

	res, err := f.auth.Login(ctx, githubIdentity("alice", "gho_first"))
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	res.User.Banned = true
	if err := f.store.Users().Update(ctx, res.User); err != nil {
		t.Fatalf("Update: %v", err)
	}

	_, err = f.identity.Resolve(ctx, service.Credential{Value: res.Session})
	if !errors.Is(err, apperrors.ErrUserBanned) || !apperrors.IsForbidden(err) {
		t.Fatalf("expected banned, got %v", err)
	}
	if _, err := f.auth.Login(ctx, githubIdentity("alice", "gho_again")); !apperrors.IsForbidden(err) {
		t.Fatalf("banned user logged in: %v", err)
	}
}

func TestResolveIdentityStoreFailure(t *testing.T) {
	f := newIdentityFixture()
	f.store.Fail = errors.New("connection refused")

	_, err := f.identity.Resolve(context.Background(), service.BearerCredential("odin_whatever"))
	if !apperrors.IsUpstream(err) || apperrors.IsUnauthorized(err) {
		t.Fatalf("expected upstream failure, got %v", err)
	}
}

func TestLoginDeduplicatesLogin(t *testing.T) {
	f := newIdentityFixture()
	ctx := context.Background()

	if _, err := f.auth.Login(ctx, githubIdentity("alice", "gho_first")); err != nil {
		t.Fatalf("Login: %v", err)
	}
	res, err := f.auth.Login(ctx, ProviderIdentity{
		Provider:   "oidc",
		Subject:    "https://id.example.com|42",
		Login:      "alice",
		Credential: "oidc-token",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.User.Login != "alice-oidc1" {
		t.Fatalf("unexpected login %q", res.User.Login)
	}
}

func TestTokenLifecycle(t *testing.T) {
	f := newIdentityFixture()
	ctx := context.Background()

	owner, err := f.auth.Login(ctx, githubIdentity("alice", "gho_first"))
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	other, err := f.auth.Login(ctx, ProviderIdentity{Provider: ProviderGitHub, Subject: "2002", Login: "bob", Credential: "gho_bob"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := f.tokens.CreateToken(ctx, CreateTokenRequest{UserID: owner.User.ID, Name: "  "}); !apperrors.IsBadRequest(err) {
		t.Fatalf("expected bad request for empty name, got %v", err)
	}
	past := time.Now().Add(-time.Hour)
	if _, err := f.tokens.CreateToken(ctx, CreateTokenRequest{UserID: owner.User.ID, Name: "x", ExpiresAt: &past}); !apperrors.IsBadRequest(err) {
		t.Fatalf("expected bad request for past expiry, got %v", err)
	}

	created, err := f.tokens.CreateToken(ctx, CreateTokenRequest{UserID: owner.User.ID, Name: "ci"})
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	if !strings.HasSuffix(created.RawToken, strings.TrimPrefix(created.Token.Hint, "…")) {
		t.Fatalf("hint %q does not match token", created.Token.Hint)
	}

	list, err := f.tokens.ListTokens(ctx, owner.User.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListTokens: %v %v", list, err)
	}

	if err := f.tokens.RevokeToken(ctx, other.User.ID, created.Token.ID); !apperrors.IsForbidden(err) {
		t.Fatalf("expected forbidden for foreign revoke, got %v", err)
	}
	if err := f.tokens.RevokeToken(ctx, owner.User.ID, created.Token.ID); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	if err := f.tokens.RevokeToken(ctx, owner.User.ID, created.Token.ID); err != nil {
		t.Fatalf("second revoke should be a no-op: %v", err)
	}
}
