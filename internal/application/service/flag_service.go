package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
	"github.com/bravo68web/odinpkg/pkg/logger"
)

// MaxFlagDetails is the longest accepted flag description
const MaxFlagDetails = 1000

// FlagService handles moderation flags
type FlagService struct {
	flagRepo    repository.FlagRepository
	packageRepo repository.PackageRepository
	now         func() time.Time
	log         *logger.Logger
}

// NewFlagService creates a new FlagService instance
func NewFlagService(flagRepo repository.FlagRepository, packageRepo repository.PackageRepository) *FlagService {
	return &FlagService{
		flagRepo:    flagRepo,
		packageRepo: packageRepo,
		now:         time.Now,
		log:         logger.Get().WithFields(logger.Component("flag-service")),
	}
}

// CreateFlag reports a package. A reporter can hold one pending flag per package.
func (s *FlagService) CreateFlag(ctx context.Context, reporter *models.User, packageID uuid.UUID, reason, details string) (*models.Flag, error) {
	if !models.ValidFlagReason(reason) {
		return nil, apperrors.BadRequest("Invalid flag reason", apperrors.ErrInvalidInput).
			WithDetails(map[string]interface{}{"reasons": models.FlagReasons})
	}
	details = strings.TrimSpace(details)
	if utf8.RuneCountInString(details) > MaxFlagDetails {
		return nil, apperrors.BadRequest("Details must be at most 1000 characters", apperrors.ErrInvalidInput)
	}

	if _, err := s.packageRepo.FindByID(ctx, packageID); err != nil {
		return nil, err
	}

	_, err := s.flagRepo.FindPending(ctx, packageID, reporter.ID)
	if err == nil {
		return nil, apperrors.Conflict("You have already flagged this package", apperrors.ErrFlagExists)
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}

	flag := &models.Flag{
		PackageID:  packageID,
		ReporterID: reporter.ID,
		Reason:     reason,
		Details:    details,
		Status:     models.FlagPending,
	}
	if err := s.flagRepo.Create(ctx, flag); err != nil {
		return nil, err
	}

	s.log.Info("package flagged",
		logger.Login(reporter.Login),
		logger.String("package_id", packageID.String()),
		logger.String("reason", reason),
	)
	return flag, nil
}

// MyFlags lists the flags a user raised
func (s *FlagService) MyFlags(ctx context.Context, reporter *models.User) ([]*models.Flag, error) {
	return s.flagRepo.ListByReporter(ctx, reporter.ID)
}

// ListFlags lists flags for moderators
func (s *FlagService) ListFlags(ctx context.Context, moderator *models.User, filter repository.FlagFilter) ([]*models.Flag, int64, error) {
	if err := requireModerator(moderator); err != nil {
		return nil, 0, err
	}
	if filter.Status != "" && !validFlagStatus(filter.Status) {
		return nil, 0, apperrors.BadRequest("Invalid flag status", apperrors.ErrInvalidInput)
	}
	return s.flagRepo.List(ctx, filter)
}

// ResolveFlag closes a pending flag as resolved or dismissed
func (s *FlagService) ResolveFlag(ctx context.Context, moderator *models.User, flagID uuid.UUID, status models.FlagStatus, note string) (*models.Flag, error) {
	if err := requireModerator(moderator); err != nil {
		return nil, err
	}
	if status != models.FlagResolved && status != models.FlagDismissed {
		return nil, apperrors.BadRequest("Status must be resolved or dismissed", apperrors.ErrInvalidInput)
	}

	flag, err := s.flagRepo.FindByID(ctx, flagID)
	if err != nil {
		return nil, err
	}
	if flag.Status != models.FlagPending {
		return nil, apperrors.Conflict("Flag is already "+string(flag.Status), nil)
	}

	now := s.now()
	flag.Status = status
	flag.ResolvedBy = &moderator.ID
	flag.ResolvedAt = &now
	flag.ResolutionNote = strings.TrimSpace(note)
	if err := s.flagRepo.Update(ctx, flag); err != nil {
		return nil, err
	}

	s.log.Info("flag resolved",
		logger.Login(moderator.Login),
		logger.String("flag_id", flagID.String()),
		logger.String("status", string(status)),
	)
	return flag, nil
}

// DeleteFlag removes a flag raised by the user
func (s *FlagService) DeleteFlag(ctx context.Context, reporter *models.User, flagID uuid.UUID) error {
	flag, err := s.flagRepo.FindByID(ctx, flagID)
	if err != nil {
		return err
	}
	if flag.ReporterID != reporter.ID {
		return apperrors.Forbidden("you did not raise this flag", apperrors.ErrForbidden)
	}
	return s.flagRepo.Delete(ctx, flagID)
}

// Stats counts flags per status
func (s *FlagService) Stats(ctx context.Context, moderator *models.User) (map[models.FlagStatus]int64, error) {
	if err := requireModerator(moderator); err != nil {
		return nil, err
	}
	counts, err := s.flagRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for _, status := range []models.FlagStatus{models.FlagPending, models.FlagResolved, models.FlagDismissed} {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}
	return counts, nil
}

func requireModerator(user *models.User) error {
	if user == nil || !user.IsModerator {
		return apperrors.Forbidden("moderator access required", apperrors.ErrForbidden)
	}
	return nil
}

func validFlagStatus(status models.FlagStatus) bool {
	switch status {
	case models.FlagPending, models.FlagResolved, models.FlagDismissed:
		return true
	}
	return false
}
