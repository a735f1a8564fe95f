package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/domain/models"
)

// TagScore is a tag on one package with its net vote
type TagScore struct {
	ID    uuid.UUID
	Name  string
	Score int
}

// TagUsage is a tag with the number of packages carrying it
type TagUsage struct {
	ID         uuid.UUID
	Name       string
	UsageCount int64
	CreatedAt  time.Time
}

// TagRepository defines the interface for package tag data access operations
type TagRepository interface {
	// Attach creates the tag if needed, puts it on the package and records
	// an upvote by userID. It returns the tag and its new score.
	Attach(ctx context.Context, packageID, userID uuid.UUID, name string) (*models.Tag, int, error)

	// Vote sets userID's vote on a tag of a package; 0 withdraws it. A tag
	// whose score drops to zero or below is removed from the package, and
	// deleted once no package carries it. Returns the score and whether the
	// tag was removed.
	Vote(ctx context.Context, packageID, tagID, userID uuid.UUID, value int) (int, bool, error)

	// ForPackage lists the tags of a package, highest score first
	ForPackage(ctx context.Context, packageID uuid.UUID) ([]TagScore, error)

	// List lists tags in use whose name contains query, most used first
	List(ctx context.Context, query string, limit int) ([]TagUsage, error)
}

// BookmarkRepository defines the interface for bookmark data access operations
type BookmarkRepository interface {
	// Add bookmarks a package. Adding twice is not an error.
	Add(ctx context.Context, userID, packageID uuid.UUID) error

	// Remove drops a bookmark. Removing a missing bookmark is not an error.
	Remove(ctx context.Context, userID, packageID uuid.UUID) error

	// Exists reports whether the user bookmarked the package
	Exists(ctx context.Context, userID, packageID uuid.UUID) (bool, error)

	// Count returns the number of users who bookmarked the package
	Count(ctx context.Context, packageID uuid.UUID) (int64, error)

	// ListByUser retrieves the bookmarked packages of a user, newest bookmark first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Package, error)
}
