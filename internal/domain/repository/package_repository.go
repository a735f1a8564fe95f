package repository

import (
	"context"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/pkg/pkgid"
	"github.com/google/uuid"
)

// PackageRepository defines the interface for package data access operations
type PackageRepository interface {
	// FindByID retrieves a package with its owner
	FindByID(ctx context.Context, id uuid.UUID) (*models.Package, error)

	// FindByIdentity retrieves the package with the exact host, owner and repo
	FindByIdentity(ctx context.Context, id pkgid.Identity) (*models.Package, error)

	// Match returns every package the identity could refer to, compared
	// case-insensitively. Slug identities are matched on owner and slug.
	Match(ctx context.Context, id pkgid.Identity) ([]*models.Package, error)

	// ListByOwner retrieves all packages owned by a user
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Package, error)

	// UpdateMetadata saves the description and keywords of a package
	UpdateMetadata(ctx context.Context, pkg *models.Package) error

	// Count returns the total number of packages
	Count(ctx context.Context) (int64, error)
}

// VersionRepository defines the interface for version data access operations
type VersionRepository interface {
	// FindByID retrieves a version with its package
	FindByID(ctx context.Context, id uuid.UUID) (*models.Version, error)

	// FindByPackageAndVersion retrieves a version of a package by its normalized version string
	FindByPackageAndVersion(ctx context.Context, packageID uuid.UUID, version string) (*models.Version, error)

	// ListByPackage retrieves all versions of a package, newest first
	ListByPackage(ctx context.Context, packageID uuid.UUID) ([]*models.Version, error)

	// Dependencies retrieves the direct dependencies of a version with their packages
	Dependencies(ctx context.Context, versionID uuid.UUID) ([]*models.Version, error)

	// IsReferenced reports whether any other version depends on the version
	IsReferenced(ctx context.Context, versionID uuid.UUID) (bool, error)

	// Count returns the total number of versions
	Count(ctx context.Context) (int64, error)
}
