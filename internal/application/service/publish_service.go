package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	"github.com/bravo68web/odinpkg/internal/domain/service"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
	"github.com/bravo68web/odinpkg/pkg/logger"
)

// PublishResult identifies what a successful publish wrote
type PublishResult struct {
	Package *models.Package
	Version *models.Version
}

// PublishService validates submissions and writes them to the catalog
type PublishService struct {
	validator   *Validator
	catalog     repository.CatalogRepository
	packageRepo repository.PackageRepository
	versionRepo repository.VersionRepository
	blobs       service.StorageService
	log         *logger.Logger
}

// NewPublishService creates a new PublishService instance. blobs may be nil,
// in which case readme sources are not archived.
func NewPublishService(
	validator *Validator,
	catalog repository.CatalogRepository,
	packageRepo repository.PackageRepository,
	versionRepo repository.VersionRepository,
	blobs service.StorageService,
) *PublishService {
	return &PublishService{
		validator:   validator,
		catalog:     catalog,
		packageRepo: packageRepo,
		versionRepo: versionRepo,
		blobs:       blobs,
		log:         logger.Get().WithFields(logger.Component("publish-service")),
	}
}

// Publish validates the request and writes the package, the version and its
// dependency edges in one transaction. Nothing is written when validation fails.
func (s *PublishService) Publish(ctx context.Context, user *models.User, req *PublishRequest) (*PublishResult, error) {
	log := s.log.WithContext(ctx).WithFields(logger.Login(user.Login))

	sub, err := s.validator.Validate(ctx, req)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.CodeBadRequest {
			log.Info("publish rejected", logger.Strings("errors", appErr.Messages()))
		}
		return nil, err
	}

	pkg, version, err := s.catalog.UpsertFullPackage(ctx, &repository.PackageUpsert{
		Identity:    sub.Identity,
		OwnerID:     user.ID,
		Description: req.Description,
		ReadmeHTML:  sub.ReadmeHTML,
		URL:         sub.Identity.URL(),
		Keywords:    normalizeKeywords(req.Keywords),
		Version: models.Version{
			Version:     sub.Version,
			License:     req.License,
			SizeKB:      req.SizeKB,
			Compiler:    req.Compiler,
			CommitHash:  req.CommitHash,
			Insecure:    req.Insecure,
			PublishedBy: user.ID,
		},
		Dependencies: sub.Dependencies,
	})
	if err != nil {
		return nil, err
	}

	log.Info("version published",
		logger.Package(pkg.FullName()),
		logger.PackageVersion(version.Version),
		logger.Int("dependencies", len(sub.Dependencies)),
	)

	s.archiveReadme(ctx, pkg, version.Version, sub.ReadmeSource)
	return &PublishResult{Package: pkg, Version: version}, nil
}

// normalizeKeywords lower-cases and trims keywords, dropping blanks and repeats
func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// archiveReadme stores the raw readme of a published version. The catalog
// write has already committed, so failures are only logged.
func (s *PublishService) archiveReadme(ctx context.Context, pkg *models.Package, version, source string) {
	if s.blobs == nil || source == "" {
		return
	}
	key := service.ReadmeKey(pkg.Identity(), version)
	if err := s.blobs.Put(ctx, key, []byte(source), "text/markdown; charset=utf-8"); err != nil {
		s.log.Warn("failed to archive readme", logger.String("key", key), logger.Error(err))
	}
}

// ReadmeSource returns the archived readme markdown of a version
func (s *PublishService) ReadmeSource(ctx context.Context, versionID uuid.UUID) (string, error) {
	version, err := s.versionRepo.FindByID(ctx, versionID)
	if err != nil {
		return "", err
	}
	if s.blobs == nil || version.Package == nil {
		return "", apperrors.NotFound("readme", apperrors.ErrNotFound)
	}

	data, err := s.blobs.Get(ctx, service.ReadmeKey(version.Package.Identity(), version.Version))
	if err != nil {
		if errors.Is(err, service.ErrBlobNotFound) {
			return "", apperrors.NotFound("readme", apperrors.ErrNotFound)
		}
		return "", apperrors.StorageError("read readme", err)
	}
	return string(data), nil
}

// DeleteVersion removes a version the user published. Versions other
// versions depend on are refused with ErrReferencedDependency.
func (s *PublishService) DeleteVersion(ctx context.Context, user *models.User, versionID uuid.UUID) error {
	version, err := s.versionRepo.FindByID(ctx, versionID)
	if err != nil {
		return err
	}
	if !canManageVersion(user, version) {
		return apperrors.Forbidden("you did not publish this version", apperrors.ErrForbidden)
	}

	if err := s.catalog.DeleteVersion(ctx, versionID); err != nil {
		return err
	}

	if s.blobs != nil && version.Package != nil {
		key := service.ReadmeKey(version.Package.Identity(), version.Version)
		if err := s.blobs.DeletePrefix(ctx, key); err != nil {
			s.log.Warn("failed to delete archived readme", logger.String("key", key), logger.Error(err))
		}
	}

	s.log.Info("version deleted",
		logger.Login(user.Login),
		logger.String("version_id", versionID.String()),
		logger.PackageVersion(version.Version),
	)
	return nil
}

// DeletePackage removes a package the user owns with all of its versions
func (s *PublishService) DeletePackage(ctx context.Context, user *models.User, packageID uuid.UUID) error {
	pkg, err := s.packageRepo.FindByID(ctx, packageID)
	if err != nil {
		return err
	}
	if pkg.OwnerID != user.ID {
		return apperrors.Forbidden("you do not own this package", apperrors.ErrForbidden)
	}

	if err := s.catalog.DeletePackage(ctx, packageID); err != nil {
		return err
	}

	if s.blobs != nil {
		if err := s.blobs.DeletePrefix(ctx, service.ReadmePrefix(pkg.Identity())); err != nil {
			s.log.Warn("failed to delete archived readmes", logger.Package(pkg.FullName()), logger.Error(err))
		}
	}

	s.log.Info("package deleted", logger.Login(user.Login), logger.Package(pkg.FullName()))
	return nil
}

// PackageUpdate changes the metadata of a package. Nil fields are left as they are.
type PackageUpdate struct {
	Description *string
	Keywords    []string // nil leaves keywords unchanged, empty clears them
}

// UpdatePackage edits the description and keywords of a package the user owns.
// Identity and per-version fields only change by publishing.
func (s *PublishService) UpdatePackage(ctx context.Context, user *models.User, packageID uuid.UUID, update PackageUpdate) (*models.Package, error) {
	if update.Description == nil && update.Keywords == nil {
		return nil, apperrors.BadRequest("No fields to update", apperrors.ErrInvalidInput)
	}

	pkg, err := s.packageRepo.FindByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg.OwnerID != user.ID {
		return nil, apperrors.Forbidden("you do not own this package", apperrors.ErrForbidden)
	}

	if update.Description != nil {
		description := strings.TrimSpace(*update.Description)
		if utf8.RuneCountInString(description) < MinDescriptionLength {
			return nil, apperrors.BadRequest("Description must have at least 10 chars.", apperrors.ErrInvalidInput)
		}
		pkg.Description = description
	}
	if update.Keywords != nil {
		pkg.Keywords = normalizeKeywords(update.Keywords)
	}

	if err := s.packageRepo.UpdateMetadata(ctx, pkg); err != nil {
		return nil, err
	}
	s.log.Info("package updated", logger.Login(user.Login), logger.Package(pkg.FullName()))
	return pkg, nil
}

func canManageVersion(user *models.User, version *models.Version) bool {
	if version.PublishedBy == user.ID {
		return true
	}
	return version.Package != nil && version.Package.OwnerID == user.ID
}

