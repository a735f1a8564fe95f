package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
)

// BookmarkStatus is how many users saved a package and whether the caller did
type BookmarkStatus struct {
	Count      int64
	Bookmarked bool
}

// BookmarkService handles saved packages
type BookmarkService struct {
	bookmarkRepo repository.BookmarkRepository
	packageRepo  repository.PackageRepository
}

// NewBookmarkService creates a new BookmarkService instance
func NewBookmarkService(bookmarkRepo repository.BookmarkRepository, packageRepo repository.PackageRepository) *BookmarkService {
	return &BookmarkService{bookmarkRepo: bookmarkRepo, packageRepo: packageRepo}
}

// Bookmark saves a package for the user
func (s *BookmarkService) Bookmark(ctx context.Context, user *models.User, packageID uuid.UUID) (*BookmarkStatus, error) {
	if _, err := s.packageRepo.FindByID(ctx, packageID); err != nil {
		return nil, err
	}
	if err := s.bookmarkRepo.Add(ctx, user.ID, packageID); err != nil {
		return nil, err
	}
	return s.status(ctx, user, packageID)
}

// Unbookmark removes a saved package
func (s *BookmarkService) Unbookmark(ctx context.Context, user *models.User, packageID uuid.UUID) (*BookmarkStatus, error) {
	if err := s.bookmarkRepo.Remove(ctx, user.ID, packageID); err != nil {
		return nil, err
	}
	return s.status(ctx, user, packageID)
}

// Status counts a package's bookmarks. user may be nil for anonymous callers.
func (s *BookmarkService) Status(ctx context.Context, user *models.User, packageID uuid.UUID) (*BookmarkStatus, error) {
	if _, err := s.packageRepo.FindByID(ctx, packageID); err != nil {
		return nil, err
	}
	return s.status(ctx, user, packageID)
}

func (s *BookmarkService) status(ctx context.Context, user *models.User, packageID uuid.UUID) (*BookmarkStatus, error) {
	count, err := s.bookmarkRepo.Count(ctx, packageID)
	if err != nil {
		return nil, err
	}
	status := &BookmarkStatus{Count: count}
	if user != nil {
		if status.Bookmarked, err = s.bookmarkRepo.Exists(ctx, user.ID, packageID); err != nil {
			return nil, err
		}
	}
	return status, nil
}

// MyBookmarks lists the packages a user saved
func (s *BookmarkService) MyBookmarks(ctx context.Context, user *models.User) ([]*models.Package, error) {
	return s.bookmarkRepo.ListByUser(ctx, user.ID)
}
