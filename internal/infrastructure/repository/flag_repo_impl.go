package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	apperror "github.com/bravo68web/odinpkg/pkg/errors"
	"github.com/google/uuid"
)

// FlagRepoImpl implements the FlagRepository interface using GORM
type FlagRepoImpl struct {
	db *gorm.DB
}

// NewFlagRepository creates a new FlagRepoImpl instance
func NewFlagRepository(db *gorm.DB) repository.FlagRepository {
	return &FlagRepoImpl{db: db}
}

// Create creates a new flag
func (r *FlagRepoImpl) Create(ctx context.Context, flag *models.Flag) error {
	if err := r.db.WithContext(ctx).Omit("Package", "Reporter").Create(flag).Error; err != nil {
		// partial unique index on pending (package_id, reporter_id)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("You have already flagged this package", apperror.ErrFlagExists)
		}
		return apperror.DatabaseError("create flag", err)
	}
	return nil
}

// FindByID retrieves a flag with its package and reporter
func (r *FlagRepoImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Flag, error) {
	var flag models.Flag
	err := r.db.WithContext(ctx).Preload("Package").Preload("Reporter").First(&flag, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("flag", apperror.ErrNotFound)
		}
		return nil, apperror.DatabaseError("find flag", err)
	}
	return &flag, nil
}

// FindPending retrieves the pending flag a reporter raised on a package
func (r *FlagRepoImpl) FindPending(ctx context.Context, packageID, reporterID uuid.UUID) (*models.Flag, error) {
	var flag models.Flag
	err := r.db.WithContext(ctx).
		Where("package_id = ? AND reporter_id = ? AND status = ?", packageID, reporterID, models.FlagPending).
		First(&flag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("flag", apperror.ErrNotFound)
		}
		return nil, apperror.DatabaseError("find pending flag", err)
	}
	return &flag, nil
}

// List retrieves flags matching the filter, newest first
func (r *FlagRepoImpl) List(ctx context.Context, filter repository.FlagFilter) ([]*models.Flag, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Flag{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PackageID != nil {
		query = query.Where("package_id = ?", *filter.PackageID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperror.DatabaseError("count flags", err)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var flags []*models.Flag
	if err := query.Preload("Package").Preload("Reporter").Order("created_at DESC").Find(&flags).Error; err != nil {
		return nil, 0, apperror.DatabaseError("list flags", err)
	}
	return flags, total, nil
}

// ListByReporter retrieves all flags raised by a user
func (r *FlagRepoImpl) ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]*models.Flag, error) {
	var flags []*models.Flag
	err := r.db.WithContext(ctx).
		Preload("Package").
		Where("reporter_id = ?", reporterID).
		Order("created_at DESC").
		Find(&flags).Error
	if err != nil {
		return nil, apperror.DatabaseError("list flags by reporter", err)
	}
	return flags, nil
}

// Update saves a flag
func (r *FlagRepoImpl) Update(ctx context.Context, flag *models.Flag) error {
	result := r.db.WithContext(ctx).Omit("Package", "Reporter").Save(flag)
	if result.Error != nil {
		return apperror.DatabaseError("update flag", result.Error)
	}
	return nil
}

// Delete removes a flag
func (r *FlagRepoImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Flag{}, "id = ?", id)
	if result.Error != nil {
		return apperror.DatabaseError("delete flag", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("flag", apperror.ErrNotFound)
	}
	return nil
}

// CountByStatus returns the number of flags per status
func (r *FlagRepoImpl) CountByStatus(ctx context.Context) (map[models.FlagStatus]int64, error) {
	var rows []struct {
		Status models.FlagStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Flag{}).
		Select("status, count(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, apperror.DatabaseError("count flags by status", err)
	}

	counts := map[models.FlagStatus]int64{
		models.FlagPending:   0,
		models.FlagResolved:  0,
		models.FlagDismissed: 0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Verify interface compliance at compile time
var _ repository.FlagRepository = (*FlagRepoImpl)(nil)
