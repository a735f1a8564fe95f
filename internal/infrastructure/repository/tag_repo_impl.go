package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	apperror "github.com/bravo68web/odinpkg/pkg/errors"
)

// TagRepoImpl implements the TagRepository interface using GORM
type TagRepoImpl struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepoImpl instance
func NewTagRepository(db *gorm.DB) repository.TagRepository {
	return &TagRepoImpl{db: db}
}

// Attach creates the tag if needed, puts it on the package and upvotes it
func (r *TagRepoImpl) Attach(ctx context.Context, packageID, userID uuid.UUID, name string) (*models.Tag, int, error) {
	tag := &models.Tag{Name: name, AddedBy: userID}
	var score int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the no-op update makes RETURNING yield the id of an existing tag
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]any{"name": name}),
		}).Create(tag).Error
		if err != nil {
			return apperror.DatabaseError("upsert tag", err)
		}

		link := &models.PackageTag{PackageID: packageID, TagID: tag.ID}
		if err := tx.Omit("Package", "Tag").Clauses(clause.OnConflict{DoNothing: true}).Create(link).Error; err != nil {
			return apperror.DatabaseError("attach tag", err)
		}

		if err := upsertVote(tx, packageID, tag.ID, userID, 1); err != nil {
			return err
		}
		score, err = recomputeScore(tx, packageID, tag.ID)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return tag, score, nil
}

// Vote sets a user's vote and drops the tag from the package when its score
// is no longer positive
func (r *TagRepoImpl) Vote(ctx context.Context, packageID, tagID, userID uuid.UUID, value int) (int, bool, error) {
	var (
		score   int
		removed bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var link models.PackageTag
		err := tx.Where("package_id = ? AND tag_id = ?", packageID, tagID).First(&link).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("tag on package", apperror.ErrNotFound)
			}
			return apperror.DatabaseError("find package tag", err)
		}

		if value == 0 {
			err = tx.Where("package_id = ? AND tag_id = ? AND user_id = ?", packageID, tagID, userID).
				Delete(&models.TagVote{}).Error
			if err != nil {
				return apperror.DatabaseError("withdraw tag vote", err)
			}
		} else if err := upsertVote(tx, packageID, tagID, userID, value); err != nil {
			return err
		}

		score, err = recomputeScore(tx, packageID, tagID)
		if err != nil {
			return err
		}
		if score > 0 {
			return nil
		}

		removed = true
		score = 0
		return detachTag(tx, packageID, tagID)
	})
	if err != nil {
		return 0, false, err
	}
	return score, removed, nil
}

func upsertVote(tx *gorm.DB, packageID, tagID, userID uuid.UUID, value int) error {
	vote := &models.TagVote{PackageID: packageID, TagID: tagID, UserID: userID, Value: value}
	err := tx.Omit("Package", "Tag", "User").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "package_id"}, {Name: "tag_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(vote).Error
	if err != nil {
		return apperror.DatabaseError("record tag vote", err)
	}
	return nil
}

func recomputeScore(tx *gorm.DB, packageID, tagID uuid.UUID) (int, error) {
	var score int
	err := tx.Model(&models.TagVote{}).
		Select("COALESCE(SUM(value), 0)").
		Where("package_id = ? AND tag_id = ?", packageID, tagID).
		Scan(&score).Error
	if err != nil {
		return 0, apperror.DatabaseError("sum tag votes", err)
	}
	err = tx.Model(&models.PackageTag{}).
		Where("package_id = ? AND tag_id = ?", packageID, tagID).
		Update("score", score).Error
	if err != nil {
		return 0, apperror.DatabaseError("update tag score", err)
	}
	return score, nil
}

func detachTag(tx *gorm.DB, packageID, tagID uuid.UUID) error {
	if err := tx.Where("package_id = ? AND tag_id = ?", packageID, tagID).Delete(&models.TagVote{}).Error; err != nil {
		return apperror.DatabaseError("delete tag votes", err)
	}
	if err := tx.Where("package_id = ? AND tag_id = ?", packageID, tagID).Delete(&models.PackageTag{}).Error; err != nil {
		return apperror.DatabaseError("detach tag", err)
	}

	var used int64
	if err := tx.Model(&models.PackageTag{}).Where("tag_id = ?", tagID).Count(&used).Error; err != nil {
		return apperror.DatabaseError("count tag usage", err)
	}
	if used == 0 {
		if err := tx.Delete(&models.Tag{}, "id = ?", tagID).Error; err != nil {
			return apperror.DatabaseError("delete orphaned tag", err)
		}
	}
	return nil
}

// ForPackage lists the tags of a package, highest score first
func (r *TagRepoImpl) ForPackage(ctx context.Context, packageID uuid.UUID) ([]repository.TagScore, error) {
	var rows []repository.TagScore
	err := r.db.WithContext(ctx).
		Table("package_tags pt").
		Select("t.id, t.name, pt.score").
		Joins("JOIN tags t ON t.id = pt.tag_id").
		Where("pt.package_id = ?", packageID).
		Order("pt.score DESC, t.name").
		Scan(&rows).Error
	if err != nil {
		return nil, apperror.DatabaseError("list package tags", err)
	}
	return rows, nil
}

// List lists tags in use whose name contains query, most used first
func (r *TagRepoImpl) List(ctx context.Context, query string, limit int) ([]repository.TagUsage, error) {
	q := r.db.WithContext(ctx).
		Table("tags t").
		Select("t.id, t.name, t.created_at, count(pt.package_id) AS usage_count").
		Joins("JOIN package_tags pt ON pt.tag_id = t.id").
		Group("t.id, t.name, t.created_at").
		Order("usage_count DESC, t.name").
		Limit(limit)
	if query != "" {
		q = q.Where("t.name ILIKE ?", "%"+escapeLike(query)+"%")
	}

	var rows []repository.TagUsage
	if err := q.Scan(&rows).Error; err != nil {
		return nil, apperror.DatabaseError("list tags", err)
	}
	return rows, nil
}

// Verify interface compliance at compile time
var _ repository.TagRepository = (*TagRepoImpl)(nil)
