package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	"github.com/bravo68web/odinpkg/internal/domain/service"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
	"github.com/bravo68web/odinpkg/pkg/logger"
)

// TokenService handles CLI token operations
type TokenService struct {
	tokenRepo repository.TokenRepository
	log       *logger.Logger
}

// NewTokenService creates a new TokenService instance
func NewTokenService(tokenRepo repository.TokenRepository) *TokenService {
	return &TokenService{
		tokenRepo: tokenRepo,
		log:       logger.Get().WithFields(logger.Component("token-service")),
	}
}

// CreateTokenRequest represents a request to create a new CLI token
type CreateTokenRequest struct {
	UserID    uuid.UUID
	Name      string
	ExpiresAt *time.Time // nil = never expires
}

// CreateTokenResponse represents the response after creating a CLI token
type CreateTokenResponse struct {
	Token    *models.ApiToken
	RawToken string // The unhashed token to return to user (only shown once)
}

// CreateToken mints a new CLI token for a user
func (s *TokenService) CreateToken(ctx context.Context, req CreateTokenRequest) (*CreateTokenResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.BadRequest("No Token Name Supplied", apperrors.ErrInvalidInput)
	}
	if req.ExpiresAt != nil && req.ExpiresAt.Before(time.Now()) {
		return nil, apperrors.BadRequest("expiry must be in the future", apperrors.ErrInvalidInput)
	}

	rawToken, err := generateRawToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	token := &models.ApiToken{
		UserID:    req.UserID,
		Name:      name,
		TokenHash: hashToken(rawToken),
		Hint:      tokenHint(rawToken),
		ExpiresAt: req.ExpiresAt,
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	s.log.Info("token created", logger.UserID(req.UserID.String()), logger.String("token_id", token.ID.String()))
	return &CreateTokenResponse{
		Token:    token,
		RawToken: rawToken,
	}, nil
}

// ListTokens returns all tokens of a user; only hints of the values are kept
func (s *TokenService) ListTokens(ctx context.Context, userID uuid.UUID) ([]*models.ApiToken, error) {
	return s.tokenRepo.FindByUserID(ctx, userID)
}

// RevokeToken marks a token of the user as revoked
func (s *TokenService) RevokeToken(ctx context.Context, userID, tokenID uuid.UUID) error {
	token, err := s.tokenRepo.FindByID(ctx, tokenID)
	if err != nil {
		return err
	}

	if token.UserID != userID {
		return apperrors.Forbidden("you do not own this token", apperrors.ErrForbidden)
	}
	if token.Revoked {
		return nil
	}

	if err := s.tokenRepo.Revoke(ctx, tokenID); err != nil {
		return err
	}
	s.log.Info("token revoked", logger.UserID(userID.String()), logger.String("token_id", tokenID.String()))
	return nil
}

// RevokeTokenByID revokes a token regardless of its owner
func (s *TokenService) RevokeTokenByID(ctx context.Context, tokenID uuid.UUID) error {
	if _, err := s.tokenRepo.FindByID(ctx, tokenID); err != nil {
		return err
	}
	return s.tokenRepo.Revoke(ctx, tokenID)
}

// generateRawToken generates a new token in format odin_{40 random hex chars}
func generateRawToken() (string, error) {
	bytes := make([]byte, 20)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return service.TokenPrefix + hex.EncodeToString(bytes), nil
}

// tokenHint keeps the last characters of a raw token for display
func tokenHint(raw string) string {
	if len(raw) <= 4 {
		return raw
	}
	return "…" + raw[len(raw)-4:]
}

// hashToken creates a SHA256 hash of the token for secure storage
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
