package service

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
	"github.com/bravo68web/odinpkg/pkg/logger"
)

// Tag name and listing limits
const (
	MaxTagLength    = 64
	DefaultTagLimit = 50
	MaxTagLimit     = 100
)

// TagVoteResult is the state of a package tag after a vote
type TagVoteResult struct {
	Vote     int
	NetScore int
	Removed  bool
}

// TagService handles community tags and their votes
type TagService struct {
	tagRepo     repository.TagRepository
	packageRepo repository.PackageRepository
	log         *logger.Logger
}

// NewTagService creates a new TagService instance
func NewTagService(tagRepo repository.TagRepository, packageRepo repository.PackageRepository) *TagService {
	return &TagService{
		tagRepo:     tagRepo,
		packageRepo: packageRepo,
		log:         logger.Get().WithFields(logger.Component("tag-service")),
	}
}

// AddTag puts a tag on a package. Adding counts as the user's upvote.
func (s *TagService) AddTag(ctx context.Context, user *models.User, packageID uuid.UUID, name string) (*repository.TagScore, error) {
	name, err := normalizeTag(name)
	if err != nil {
		return nil, err
	}
	if _, err := s.packageRepo.FindByID(ctx, packageID); err != nil {
		return nil, err
	}

	tag, score, err := s.tagRepo.Attach(ctx, packageID, user.ID, name)
	if err != nil {
		return nil, err
	}

	s.log.Info("tag added",
		logger.Login(user.Login),
		logger.String("package_id", packageID.String()),
		logger.String("tag", name),
	)
	return &repository.TagScore{ID: tag.ID, Name: tag.Name, Score: score}, nil
}

// VoteTag records an upvote (1), downvote (-1) or withdrawal (0)
func (s *TagService) VoteTag(ctx context.Context, user *models.User, packageID, tagID uuid.UUID, vote int) (*TagVoteResult, error) {
	if vote < -1 || vote > 1 {
		return nil, apperrors.BadRequest("Vote must be -1, 0, or 1", apperrors.ErrInvalidInput)
	}
	if _, err := s.packageRepo.FindByID(ctx, packageID); err != nil {
		return nil, err
	}

	score, removed, err := s.tagRepo.Vote(ctx, packageID, tagID, user.ID, vote)
	if err != nil {
		return nil, err
	}
	if removed {
		s.log.Info("tag voted off package",
			logger.Login(user.Login),
			logger.String("package_id", packageID.String()),
			logger.String("tag_id", tagID.String()),
		)
	}
	return &TagVoteResult{Vote: vote, NetScore: score, Removed: removed}, nil
}

// PackageTags lists the tags of a package
func (s *TagService) PackageTags(ctx context.Context, packageID uuid.UUID) ([]repository.TagScore, error) {
	if _, err := s.packageRepo.FindByID(ctx, packageID); err != nil {
		return nil, err
	}
	return s.tagRepo.ForPackage(ctx, packageID)
}

// ListTags lists tags in use, optionally filtered by a name fragment
func (s *TagService) ListTags(ctx context.Context, query string, limit int) ([]repository.TagUsage, error) {
	if limit <= 0 || limit > MaxTagLimit {
		limit = DefaultTagLimit
	}
	return s.tagRepo.List(ctx, strings.ToLower(strings.TrimSpace(query)), limit)
}

// normalizeTag lower-cases a tag name and checks its characters
func normalizeTag(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", apperrors.BadRequest("Tag name is required", apperrors.ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > MaxTagLength {
		return "", apperrors.BadRequest("Tag name must be at most 64 characters", apperrors.ErrInvalidInput)
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(" -.+#", r) {
			continue
		}
		return "", apperrors.BadRequest("Tag name may only contain letters, digits, spaces and -.+#", apperrors.ErrInvalidInput)
	}
	return name, nil
}
