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

// UserRepoImpl implements the UserRepository interface using GORM
type UserRepoImpl struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepoImpl instance
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &UserRepoImpl{db: db}
}

// Create creates a new user in the database
func (r *UserRepoImpl) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("login already taken", err)
		}
		return apperror.DatabaseError("create user", err)
	}
	return nil
}

// FindByID retrieves a user by their ID
func (r *UserRepoImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.first(ctx, "find user by id", "id = ?", id)
}

// FindByLogin retrieves a user by their login
func (r *UserRepoImpl) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	return r.first(ctx, "find user by login", "login = ?", login)
}

// FindByProviderSubject retrieves a user by identity provider and subject
func (r *UserRepoImpl) FindByProviderSubject(ctx context.Context, provider, subject string) (*models.User, error) {
	return r.first(ctx, "find user by provider subject", "provider = ? AND provider_subject = ?", provider, subject)
}

func (r *UserRepoImpl) first(ctx context.Context, op, query string, args ...any) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", apperror.ErrNotFound)
		}
		return nil, apperror.DatabaseError(op, err)
	}
	return &user, nil
}

// Update updates an existing user's information
func (r *UserRepoImpl) Update(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Save(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("login already taken", result.Error)
		}
		return apperror.DatabaseError("update user", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("user", apperror.ErrNotFound)
	}
	return nil
}

// List retrieves all users with pagination
func (r *UserRepoImpl) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	var users []*models.User
	query := r.db.WithContext(ctx).Order("login ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&users).Error; err != nil {
		return nil, apperror.DatabaseError("list users", err)
	}
	return users, nil
}

// Count returns the total number of users
func (r *UserRepoImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, apperror.DatabaseError("count users", err)
	}
	return count, nil
}

// Verify interface compliance at compile time
var _ repository.UserRepository = (*UserRepoImpl)(nil)
