package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	apperror "github.com/bravo68web/odinpkg/pkg/errors"
	"github.com/bravo68web/odinpkg/pkg/pkgid"
	"github.com/google/uuid"
)

// PackageRepoImpl implements the PackageRepository interface using GORM
type PackageRepoImpl struct {
	db *gorm.DB
}

// NewPackageRepository creates a new PackageRepoImpl instance
func NewPackageRepository(db *gorm.DB) repository.PackageRepository {
	return &PackageRepoImpl{db: db}
}

// FindByID retrieves a package with its owner
func (r *PackageRepoImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Package, error) {
	var pkg models.Package
	err := r.db.WithContext(ctx).Preload("Owner").First(&pkg, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("package", apperror.ErrNotFound)
		}
		return nil, apperror.DatabaseError("find package", err)
	}
	return &pkg, nil
}

// FindByIdentity retrieves the package with the exact host, owner and repo
func (r *PackageRepoImpl) FindByIdentity(ctx context.Context, id pkgid.Identity) (*models.Package, error) {
	var pkg models.Package
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("host_name = ? AND owner_name = ? AND repo_name = ?", id.Host, id.Owner, id.Repo).
		First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("package", apperror.ErrNotFound)
		}
		return nil, apperror.DatabaseError("find package by identity", err)
	}
	return &pkg, nil
}

// Match returns every package the identity could refer to, compared case-insensitively
func (r *PackageRepoImpl) Match(ctx context.Context, id pkgid.Identity) ([]*models.Package, error) {
	query := r.db.WithContext(ctx).Preload("Owner")
	if id.Scheme == pkgid.SchemeSlug {
		query = query.Where("lower(owner_name) = ? AND slug = ?", strings.ToLower(id.Owner), id.Slug)
	} else {
		query = query.Where("lower(host_name) = ? AND lower(owner_name) = ? AND lower(repo_name) = ?",
			strings.ToLower(id.Host), strings.ToLower(id.Owner), strings.ToLower(id.Repo))
	}

	var pkgs []*models.Package
	if err := query.Order("created_at ASC").Find(&pkgs).Error; err != nil {
		return nil, apperror.DatabaseError("match package", err)
	}
	return pkgs, nil
}

// ListByOwner retrieves all packages owned by a user
func (r *PackageRepoImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Package, error) {
	var pkgs []*models.Package
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&pkgs).Error
	if err != nil {
		return nil, apperror.DatabaseError("list packages by owner", err)
	}
	return pkgs, nil
}

// UpdateMetadata saves the description and keywords of a package
func (r *PackageRepoImpl) UpdateMetadata(ctx context.Context, pkg *models.Package) error {
	result := r.db.WithContext(ctx).
		Model(&models.Package{}).
		Where("id = ?", pkg.ID).
		Updates(map[string]any{
			"description": pkg.Description,
			"keywords":    pkg.Keywords,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return apperror.DatabaseError("update package", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("package", apperror.ErrNotFound)
	}
	return nil
}

// Count returns the total number of packages
func (r *PackageRepoImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Package{}).Count(&count).Error; err != nil {
		return 0, apperror.DatabaseError("count packages", err)
	}
	return count, nil
}

// VersionRepoImpl implements the VersionRepository interface using GORM
type VersionRepoImpl struct {
	db *gorm.DB
}

// NewVersionRepository creates a new VersionRepoImpl instance
func NewVersionRepository(db *gorm.DB) repository.VersionRepository {
	return &VersionRepoImpl{db: db}
}

// FindByID retrieves a version with its package
func (r *VersionRepoImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Version, error) {
	var v models.Version
	err := r.db.WithContext(ctx).Preload("Package").Preload("Package.Owner").First(&v, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("version", apperror.ErrNotFound)
		}
		return nil, apperror.DatabaseError("find version", err)
	}
	return &v, nil
}

// FindByPackageAndVersion retrieves a version of a package by its normalized version string
func (r *VersionRepoImpl) FindByPackageAndVersion(ctx context.Context, packageID uuid.UUID, version string) (*models.Version, error) {
	var v models.Version
	err := r.db.WithContext(ctx).
		Where("package_id = ? AND version = ?", packageID, version).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("version", apperror.ErrNotFound)
		}
		return nil, apperror.DatabaseError("find version by package", err)
	}
	return &v, nil
}

// ListByPackage retrieves all versions of a package, newest first
func (r *VersionRepoImpl) ListByPackage(ctx context.Context, packageID uuid.UUID) ([]*models.Version, error) {
	var versions []*models.Version
	err := r.db.WithContext(ctx).
		Where("package_id = ?", packageID).
		Order("created_at DESC").
		Find(&versions).Error
	if err != nil {
		return nil, apperror.DatabaseError("list versions", err)
	}
	return versions, nil
}

// Dependencies retrieves the direct dependencies of a version with their packages
func (r *VersionRepoImpl) Dependencies(ctx context.Context, versionID uuid.UUID) ([]*models.Version, error) {
	var versions []*models.Version
	err := r.db.WithContext(ctx).
		Preload("Package").
		Joins("JOIN version_dependencies vd ON vd.depends_on_id = versions.id").
		Where("vd.version_id = ?", versionID).
		Order("versions.created_at ASC").
		Find(&versions).Error
	if err != nil {
		return nil, apperror.DatabaseError("list dependencies", err)
	}
	return versions, nil
}

// IsReferenced reports whether any other version depends on the version
func (r *VersionRepoImpl) IsReferenced(ctx context.Context, versionID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.VersionDependency{}).
		Where("depends_on_id = ?", versionID).
		Count(&count).Error
	if err != nil {
		return false, apperror.DatabaseError("check version references", err)
	}
	return count > 0, nil
}

// Count returns the total number of versions
func (r *VersionRepoImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Version{}).Count(&count).Error; err != nil {
		return 0, apperror.DatabaseError("count versions", err)
	}
	return count, nil
}

// Verify interface compliance at compile time
var (
	_ repository.PackageRepository = (*PackageRepoImpl)(nil)
	_ repository.VersionRepository = (*VersionRepoImpl)(nil)
)
