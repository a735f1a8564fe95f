package repository

import (
	"context"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user data access operations
type UserRepository interface {
	// Create creates a new user in the database
	Create(ctx context.Context, user *models.User) error

	// FindByID retrieves a user by their ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// FindByLogin retrieves a user by their login
	FindByLogin(ctx context.Context, login string) (*models.User, error)

	// FindByProviderSubject retrieves a user by identity provider and subject
	FindByProviderSubject(ctx context.Context, provider, subject string) (*models.User, error)

	// Update updates an existing user's information
	Update(ctx context.Context, user *models.User) error

	// List retrieves all users with pagination
	List(ctx context.Context, limit, offset int) ([]*models.User, error)

	// Count returns the total number of users
	Count(ctx context.Context) (int64, error)
}
