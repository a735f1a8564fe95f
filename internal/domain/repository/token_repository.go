package repository

import (
	"context"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/google/uuid"
)

// TokenRepository defines the interface for CLI token data access operations
type TokenRepository interface {
	// Create creates a new token in the database
	Create(ctx context.Context, token *models.ApiToken) error

	// FindByID retrieves a token by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.ApiToken, error)

	// FindByHash retrieves a token by its hashed value, revoked or not
	FindByHash(ctx context.Context, hash string) (*models.ApiToken, error)

	// FindByUserID retrieves all tokens for a user
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*models.ApiToken, error)

	// Revoke marks a token as revoked
	Revoke(ctx context.Context, id uuid.UUID) error

	// Touch updates the last_touched timestamp for a token
	Touch(ctx context.Context, id uuid.UUID) error

	// CountActive returns the number of tokens that are not revoked
	CountActive(ctx context.Context) (int64, error)
}
