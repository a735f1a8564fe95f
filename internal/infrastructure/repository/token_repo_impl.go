package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	apperror "github.com/bravo68web/odinpkg/pkg/errors"
	"github.com/google/uuid"
)

// TokenRepoImpl implements the TokenRepository interface using GORM
type TokenRepoImpl struct {
	db *gorm.DB
}

// NewTokenRepository creates a new TokenRepoImpl instance
func NewTokenRepository(db *gorm.DB) repository.TokenRepository {
	return &TokenRepoImpl{db: db}
}

// Create creates a new token in the database
func (r *TokenRepoImpl) Create(ctx context.Context, token *models.ApiToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return apperror.DatabaseError("create token", err)
	}
	return nil
}

// FindByID retrieves a token by its ID
func (r *TokenRepoImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.ApiToken, error) {
	var token models.ApiToken
	if err := r.db.WithContext(ctx).First(&token, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("token", apperror.ErrNotFound)
		}
		return nil, apperror.DatabaseError("find token by id", err)
	}
	return &token, nil
}

// FindByHash retrieves a token by its hashed value, revoked or not
func (r *TokenRepoImpl) FindByHash(ctx context.Context, hash string) (*models.ApiToken, error) {
	var token models.ApiToken
	if err := r.db.WithContext(ctx).Where("token_hash = ?", hash).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("token", apperror.ErrNotFound)
		}
		return nil, apperror.DatabaseError("find token by hash", err)
	}
	return &token, nil
}

// FindByUserID retrieves all tokens for a user
func (r *TokenRepoImpl) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*models.ApiToken, error) {
	var tokens []*models.ApiToken
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&tokens).Error; err != nil {
		return nil, apperror.DatabaseError("find tokens by user id", err)
	}
	return tokens, nil
}

// Revoke marks a token as revoked
func (r *TokenRepoImpl) Revoke(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.ApiToken{}).Where("id = ?", id).Update("revoked", true)
	if result.Error != nil {
		return apperror.DatabaseError("revoke token", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("token", apperror.ErrNotFound)
	}
	return nil
}

// Touch updates the last_touched timestamp for a token
func (r *TokenRepoImpl) Touch(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.ApiToken{}).Where("id = ?", id).Update("last_touched", time.Now())
	if result.Error != nil {
		return apperror.DatabaseError("touch token", result.Error)
	}
	return nil
}

// CountActive returns the number of tokens that are not revoked
func (r *TokenRepoImpl) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ApiToken{}).Where("revoked = ?", false).Count(&count).Error; err != nil {
		return 0, apperror.DatabaseError("count tokens", err)
	}
	return count, nil
}

// Verify interface compliance at compile time
var _ repository.TokenRepository = (*TokenRepoImpl)(nil)
