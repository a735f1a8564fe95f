package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
	"github.com/bravo68web/odinpkg/pkg/pkgid"
)

// CatalogService serves the read side of the catalog
type CatalogService struct {
	queries     repository.CatalogQueries
	packageRepo repository.PackageRepository
	versionRepo repository.VersionRepository
	userRepo    repository.UserRepository
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(
	queries repository.CatalogQueries,
	packageRepo repository.PackageRepository,
	versionRepo repository.VersionRepository,
	userRepo repository.UserRepository,
) *CatalogService {
	return &CatalogService{
		queries:     queries,
		packageRepo: packageRepo,
		versionRepo: versionRepo,
		userRepo:    userRepo,
	}
}

// PackageDetails is a package with its owner and versions
type PackageDetails struct {
	Package  *models.Package
	Versions []*models.Version
}

// VersionDetails is a version with its package and direct dependencies
type VersionDetails struct {
	Version      *models.Version
	Dependencies []*models.Version
}

// OwnedVersion is a version listed for its owner
type OwnedVersion struct {
	Version    *models.Version
	Referenced bool
}

// OwnedPackage is a package listed for its owner
type OwnedPackage struct {
	Package  *models.Package
	Versions []OwnedVersion
}

// DependencyReport is the transitive closure of a version's dependencies
type DependencyReport struct {
	Dependencies []repository.FlatDependency
	Licenses     []repository.LicenseGroup
}

// Browse lists packages by last update
func (s *CatalogService) Browse(ctx context.Context, limit, offset int) (*repository.Page, error) {
	return s.queries.Browse(ctx, limit, offset)
}

// Search lists packages matching q
func (s *CatalogService) Search(ctx context.Context, q string, limit, offset int) (*repository.Page, error) {
	return s.queries.Search(ctx, q, limit, offset)
}

// PackageDetails returns a package with its versions
func (s *CatalogService) PackageDetails(ctx context.Context, id uuid.UUID) (*PackageDetails, error) {
	pkg, err := s.packageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	versions, err := s.versionRepo.ListByPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PackageDetails{Package: pkg, Versions: versions}, nil
}

// VersionDetails returns a version with its package and direct dependencies
func (s *CatalogService) VersionDetails(ctx context.Context, id uuid.UUID) (*VersionDetails, error) {
	version, err := s.versionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	deps, err := s.versionRepo.Dependencies(ctx, id)
	if err != nil {
		return nil, err
	}
	return &VersionDetails{Version: version, Dependencies: deps}, nil
}

// LookupByURL finds the package hosted at a repository URL
func (s *CatalogService) LookupByURL(ctx context.Context, rawURL string) (*models.Package, error) {
	id, err := pkgid.ParseURL(rawURL)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), apperrors.ErrInvalidInput)
	}
	return s.packageRepo.FindByIdentity(ctx, id)
}

// LookupBySlug finds a package through the owner and slug adapter
func (s *CatalogService) LookupBySlug(ctx context.Context, owner, slug string) (*models.Package, error) {
	id, err := pkgid.ParseIdentifier(owner + "/" + slug)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), apperrors.ErrInvalidInput)
	}

	matches, err := s.packageRepo.Match(ctx, id)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, apperrors.NotFound("package", apperrors.ErrNotFound)
	case 1:
		return s.packageRepo.FindByID(ctx, matches[0].ID)
	default:
		return nil, apperrors.Conflict(fmt.Sprintf("Ambiguous package %s matches %d packages", id, len(matches)), nil)
	}
}

// ListByOwner lists the packages of the user with the given login
func (s *CatalogService) ListByOwner(ctx context.Context, login string) ([]OwnedPackage, error) {
	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	return s.ListForUser(ctx, user.ID)
}

// ListForUser lists the packages a user owns, marking versions other versions depend on
func (s *CatalogService) ListForUser(ctx context.Context, userID uuid.UUID) ([]OwnedPackage, error) {
	pkgs, err := s.packageRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	owned := make([]OwnedPackage, 0, len(pkgs))
	for _, pkg := range pkgs {
		versions, err := s.versionRepo.ListByPackage(ctx, pkg.ID)
		if err != nil {
			return nil, err
		}
		entry := OwnedPackage{Package: pkg, Versions: make([]OwnedVersion, 0, len(versions))}
		for _, v := range versions {
			referenced, err := s.versionRepo.IsReferenced(ctx, v.ID)
			if err != nil {
				return nil, err
			}
			entry.Versions = append(entry.Versions, OwnedVersion{Version: v, Referenced: referenced})
		}
		owned = append(owned, entry)
	}
	return owned, nil
}

// Dependencies returns the flattened dependencies of a version grouped by license
func (s *CatalogService) Dependencies(ctx context.Context, versionID uuid.UUID) (*DependencyReport, error) {
	if _, err := s.versionRepo.FindByID(ctx, versionID); err != nil {
		return nil, err
	}

	deps, err := s.queries.DependenciesFlat(ctx, versionID)
	if err != nil {
		return nil, err
	}
	licenses, err := s.queries.DependencyLicenses(ctx, versionID)
	if err != nil {
		return nil, err
	}
	return &DependencyReport{Dependencies: deps, Licenses: licenses}, nil
}
