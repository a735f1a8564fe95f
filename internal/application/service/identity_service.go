package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	"github.com/bravo68web/odinpkg/internal/domain/service"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
	"github.com/bravo68web/odinpkg/pkg/logger"
)

// IdentityServiceImpl resolves session and CLI token credentials to users
type IdentityServiceImpl struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	sessions  *SessionManager
	now       func() time.Time
	log       *logger.Logger
}

// NewIdentityService creates a new IdentityServiceImpl instance
func NewIdentityService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	sessions *SessionManager,
) *IdentityServiceImpl {
	return &IdentityServiceImpl{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		sessions:  sessions,
		now:       time.Now,
		log:       logger.Get().WithFields(logger.Component("identity")),
	}
}

// Resolve maps a credential to its user
func (s *IdentityServiceImpl) Resolve(ctx context.Context, cred service.Credential) (*models.User, error) {
	if cred.Value == "" {
		return nil, apperrors.Unauthorized("", apperrors.ErrInvalidCredentials)
	}

	var (
		user *models.User
		err  error
	)
	switch cred.Kind {
	case service.CredentialToken:
		user, err = s.resolveToken(ctx, cred.Value)
	default:
		user, err = s.resolveSession(ctx, cred.Value)
	}
	if err != nil {
		return nil, err
	}

	if user.Banned {
		return nil, apperrors.Forbidden("user is banned", apperrors.ErrUserBanned)
	}
	return user, nil
}

func (s *IdentityServiceImpl) resolveSession(ctx context.Context, raw string) (*models.User, error) {
	claims, err := s.sessions.Parse(raw)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByLogin(ctx, claims.Login)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized("invalid session", apperrors.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// the stored credential must still be the one the session was issued for
	want := credentialFingerprint(user.AccessCredential)
	if user.AccessCredential == "" || subtle.ConstantTimeCompare([]byte(want), []byte(claims.Fingerprint)) != 1 {
		return nil, apperrors.Unauthorized("session is no longer valid", apperrors.ErrInvalidCredentials)
	}
	return user, nil
}

func (s *IdentityServiceImpl) resolveToken(ctx context.Context, raw string) (*models.User, error) {
	token, err := s.tokenRepo.FindByHash(ctx, hashToken(raw))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized("invalid token", apperrors.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to find token: %w", err)
	}

	if token.Revoked {
		return nil, apperrors.Unauthorized("token has been revoked", apperrors.ErrTokenRevoked)
	}
	if token.Expired(s.now()) {
		return nil, apperrors.Unauthorized("token has expired", apperrors.ErrInvalidCredentials)
	}

	// Update last used timestamp (fire and forget)
	go func() {
		if err := s.tokenRepo.Touch(context.Background(), token.ID); err != nil {
			s.log.Warn("failed to touch token", logger.String("token_id", token.ID.String()), logger.Error(err))
		}
	}()

	user, err := s.userRepo.FindByID(ctx, token.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized("user not found", apperrors.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Verify interface compliance at compile time
var _ service.IdentityService = (*IdentityServiceImpl)(nil)
