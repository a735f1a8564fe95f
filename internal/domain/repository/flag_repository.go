package repository

import (
	"context"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/google/uuid"
)

// FlagFilter narrows moderator flag listings
type FlagFilter struct {
	Status    models.FlagStatus
	PackageID *uuid.UUID
	Limit     int
	Offset    int
}

// FlagRepository defines the interface for moderation flag data access operations
type FlagRepository interface {
	// Create creates a new flag
	Create(ctx context.Context, flag *models.Flag) error

	// FindByID retrieves a flag with its package and reporter
	FindByID(ctx context.Context, id uuid.UUID) (*models.Flag, error)

	// FindPending retrieves the pending flag a reporter raised on a package
	FindPending(ctx context.Context, packageID, reporterID uuid.UUID) (*models.Flag, error)

	// List retrieves flags matching the filter, newest first
	List(ctx context.Context, filter FlagFilter) ([]*models.Flag, int64, error)

	// ListByReporter retrieves all flags raised by a user
	ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]*models.Flag, error)

	// Update saves a flag
	Update(ctx context.Context, flag *models.Flag) error

	// Delete removes a flag
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByStatus returns the number of flags per status
	CountByStatus(ctx context.Context) (map[models.FlagStatus]int64, error)
}
