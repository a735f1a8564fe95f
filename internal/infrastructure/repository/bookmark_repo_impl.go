package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	apperror "github.com/bravo68web/odinpkg/pkg/errors"
)

// BookmarkRepoImpl implements the BookmarkRepository interface using GORM
type BookmarkRepoImpl struct {
	db *gorm.DB
}

// NewBookmarkRepository creates a new BookmarkRepoImpl instance
func NewBookmarkRepository(db *gorm.DB) repository.BookmarkRepository {
	return &BookmarkRepoImpl{db: db}
}

// Add bookmarks a package
func (r *BookmarkRepoImpl) Add(ctx context.Context, userID, packageID uuid.UUID) error {
	bookmark := &models.Bookmark{UserID: userID, PackageID: packageID}
	err := r.db.WithContext(ctx).Omit("User", "Package").Clauses(clause.OnConflict{DoNothing: true}).Create(bookmark).Error
	if err != nil {
		return apperror.DatabaseError("add bookmark", err)
	}
	return nil
}

// Remove drops a bookmark
func (r *BookmarkRepoImpl) Remove(ctx context.Context, userID, packageID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND package_id = ?", userID, packageID).
		Delete(&models.Bookmark{}).Error
	if err != nil {
		return apperror.DatabaseError("remove bookmark", err)
	}
	return nil
}

// Exists reports whether the user bookmarked the package
func (r *BookmarkRepoImpl) Exists(ctx context.Context, userID, packageID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Bookmark{}).
		Where("user_id = ? AND package_id = ?", userID, packageID).
		Count(&count).Error
	if err != nil {
		return false, apperror.DatabaseError("check bookmark", err)
	}
	return count > 0, nil
}

// Count returns the number of users who bookmarked the package
func (r *BookmarkRepoImpl) Count(ctx context.Context, packageID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Bookmark{}).Where("package_id = ?", packageID).Count(&count).Error; err != nil {
		return 0, apperror.DatabaseError("count bookmarks", err)
	}
	return count, nil
}

// ListByUser retrieves the bookmarked packages of a user
func (r *BookmarkRepoImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Package, error) {
	var packages []*models.Package
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Joins("JOIN bookmarks b ON b.package_id = packages.id").
		Where("b.user_id = ?", userID).
		Order("b.created_at DESC").
		Find(&packages).Error
	if err != nil {
		return nil, apperror.DatabaseError("list bookmarks", err)
	}
	return packages, nil
}

// Verify interface compliance at compile time
var _ repository.BookmarkRepository = (*BookmarkRepoImpl)(nil)
