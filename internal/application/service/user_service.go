package service

import (
	"context"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	"github.com/bravo68web/odinpkg/pkg/logger"
)

// UserService handles account administration
type UserService struct {
	userRepo    repository.UserRepository
	packageRepo repository.PackageRepository
	versionRepo repository.VersionRepository
	tokenRepo   repository.TokenRepository
	flagRepo    repository.FlagRepository
	log         *logger.Logger
}

// NewUserService creates a new UserService instance
func NewUserService(
	userRepo repository.UserRepository,
	packageRepo repository.PackageRepository,
	versionRepo repository.VersionRepository,
	tokenRepo repository.TokenRepository,
	flagRepo repository.FlagRepository,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		packageRepo: packageRepo,
		versionRepo: versionRepo,
		tokenRepo:   tokenRepo,
		flagRepo:    flagRepo,
		log:         logger.Get().WithFields(logger.Component("user-service")),
	}
}

// RegistryStats summarises the registry for administrators
type RegistryStats struct {
	Users        int64                       `json:"users"`
	Packages     int64                       `json:"packages"`
	Versions     int64                       `json:"versions"`
	ActiveTokens int64                       `json:"active_tokens"`
	Flags        map[models.FlagStatus]int64 `json:"flags"`
}

// GetByLogin retrieves a user by login
func (s *UserService) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	return s.userRepo.FindByLogin(ctx, login)
}

// ListUsers retrieves users with pagination
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SetBanned bans or unbans a user. Banned users cannot log in or use their tokens.
func (s *UserService) SetBanned(ctx context.Context, login string, banned bool) (*models.User, error) {
	return s.update(ctx, login, func(u *models.User) { u.Banned = banned },
		logger.Bool("banned", banned))
}

// SetModerator grants or removes the moderator role
func (s *UserService) SetModerator(ctx context.Context, login string, moderator bool) (*models.User, error) {
	return s.update(ctx, login, func(u *models.User) { u.IsModerator = moderator },
		logger.Bool("moderator", moderator))
}

func (s *UserService) update(ctx context.Context, login string, apply func(*models.User), field logger.Field) (*models.User, error) {
	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	apply(user)
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.log.Error("failed to update user", logger.Login(login), logger.Error(err))
		return nil, err
	}
	s.log.Info("user updated", logger.Login(login), field)
	return user, nil
}

// Stats counts the registry's users, packages, versions, tokens and flags
func (s *UserService) Stats(ctx context.Context) (*RegistryStats, error) {
	var (
		stats RegistryStats
		err   error
	)
	if stats.Users, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Packages, err = s.packageRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Versions, err = s.versionRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveTokens, err = s.tokenRepo.CountActive(ctx); err != nil {
		return nil, err
	}
	if stats.Flags, err = s.flagRepo.CountByStatus(ctx); err != nil {
		return nil, err
	}
	return &stats, nil
}
