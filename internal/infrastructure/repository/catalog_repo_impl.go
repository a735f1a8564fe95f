package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	apperror "github.com/bravo68web/odinpkg/pkg/errors"
	"github.com/google/uuid"
)

// Conflict messages shared with the in-memory repositories used in tests
const (
	MsgReferencedVersion = "This version is a dependency and cannot be deleted"
	MsgReferencedPackage = "A version of this package is a dependency and it cannot be deleted"
)

// VersionConflict builds the error returned when a version is published twice
func VersionConflict(pkg, version string) error {
	return apperror.Conflict(fmt.Sprintf("Version %s of %s already exists", version, pkg), apperror.ErrVersionConflict)
}

// CatalogRepoImpl implements the CatalogRepository interface using GORM transactions
type CatalogRepoImpl struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new CatalogRepoImpl instance
func NewCatalogRepository(db *gorm.DB) repository.CatalogRepository {
	return &CatalogRepoImpl{db: db}
}

// UpsertFullPackage writes a package, one new version and its edges atomically
func (r *CatalogRepoImpl) UpsertFullPackage(ctx context.Context, in *repository.PackageUpsert) (*models.Package, *models.Version, error) {
	var (
		pkg     models.Package
		version models.Version
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOrCreatePackage(tx, in, &pkg); err != nil {
			return err
		}
		if pkg.OwnerID != in.OwnerID {
			return apperror.Forbidden(fmt.Sprintf("%s is owned by another user", in.Identity), apperror.ErrForbidden)
		}

		pkg.Description = in.Description
		pkg.ReadmeHTML = in.ReadmeHTML
		pkg.URL = in.URL
		pkg.Keywords = pq.StringArray(in.Keywords)
		pkg.Slug = in.Identity.Slug
		if err := tx.Omit(clause.Associations).Save(&pkg).Error; err != nil {
			return apperror.DatabaseError("update package", err)
		}

		var existing int64
		err := tx.Model(&models.Version{}).
			Where("package_id = ? AND version = ?", pkg.ID, in.Version.Version).
			Count(&existing).Error
		if err != nil {
			return apperror.DatabaseError("check version", err)
		}
		if existing > 0 {
			return VersionConflict(in.Identity.String(), in.Version.Version)
		}

		version = in.Version
		version.ID = uuid.Nil
		version.PackageID = pkg.ID
		if err := tx.Create(&version).Error; err != nil {
			// a concurrent publish of the same version won the race
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return VersionConflict(in.Identity.String(), in.Version.Version)
			}
			return apperror.DatabaseError("create version", err)
		}

		if len(in.Dependencies) == 0 {
			return nil
		}
		edges := make([]models.VersionDependency, 0, len(in.Dependencies))
		for _, dep := range in.Dependencies {
			edges = append(edges, models.VersionDependency{VersionID: version.ID, DependsOnID: dep})
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error; err != nil {
			return apperror.DatabaseError("create dependencies", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &pkg, &version, nil
}

// lockOrCreatePackage loads the package row for update, inserting it first
// when this is the first publish of the identity
func lockOrCreatePackage(tx *gorm.DB, in *repository.PackageUpsert, pkg *models.Package) error {
	find := func() error {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("host_name = ? AND owner_name = ? AND repo_name = ?",
				in.Identity.Host, in.Identity.Owner, in.Identity.Repo).
			First(pkg).Error
	}

	err := find()
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.DatabaseError("find package", err)
	}

	fresh := models.Package{
		HostName:  in.Identity.Host,
		OwnerName: in.Identity.Owner,
		RepoName:  in.Identity.Repo,
		Slug:      in.Identity.Slug,
		URL:       in.URL,
		OwnerID:   in.OwnerID,
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
		return apperror.DatabaseError("create package", err)
	}
	if err := find(); err != nil {
		return apperror.DatabaseError("find package", err)
	}
	return nil
}

// DeleteVersion removes a version and its outgoing edges
func (r *CatalogRepoImpl) DeleteVersion(ctx context.Context, versionID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var referenced int64
		if err := tx.Model(&models.VersionDependency{}).Where("depends_on_id = ?", versionID).Count(&referenced).Error; err != nil {
			return apperror.DatabaseError("check version references", err)
		}
		if referenced > 0 {
			return apperror.Conflict(MsgReferencedVersion, apperror.ErrReferencedDependency)
		}

		if err := tx.Where("version_id = ?", versionID).Delete(&models.VersionDependency{}).Error; err != nil {
			return apperror.DatabaseError("delete dependencies", err)
		}
		result := tx.Delete(&models.Version{}, "id = ?", versionID)
		if result.Error != nil {
			// an edge inserted after the check still trips the RESTRICT constraint
			if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
				return apperror.Conflict(MsgReferencedVersion, apperror.ErrReferencedDependency)
			}
			return apperror.DatabaseError("delete version", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperror.NotFound("version", apperror.ErrNotFound)
		}
		return nil
	})
}

// DeletePackage removes a package with all of its versions
func (r *CatalogRepoImpl) DeletePackage(ctx context.Context, packageID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		own := tx.Model(&models.Version{}).Select("id").Where("package_id = ?", packageID)

		var external int64
		err := tx.Model(&models.VersionDependency{}).
			Where("depends_on_id IN (?) AND version_id NOT IN (?)", own, own).
			Count(&external).Error
		if err != nil {
			return apperror.DatabaseError("check package references", err)
		}
		if external > 0 {
			return apperror.Conflict(MsgReferencedPackage, apperror.ErrReferencedDependency)
		}

		if err := tx.Where("version_id IN (?)", own).Delete(&models.VersionDependency{}).Error; err != nil {
			return apperror.DatabaseError("delete dependencies", err)
		}
		if err := tx.Where("package_id = ?", packageID).Delete(&models.Version{}).Error; err != nil {
			return apperror.DatabaseError("delete versions", err)
		}
		result := tx.Delete(&models.Package{}, "id = ?", packageID)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
				return apperror.Conflict(MsgReferencedPackage, apperror.ErrReferencedDependency)
			}
			return apperror.DatabaseError("delete package", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperror.NotFound("package", apperror.ErrNotFound)
		}
		return nil
	})
}

// Verify interface compliance at compile time
var _ repository.CatalogRepository = (*CatalogRepoImpl)(nil)
