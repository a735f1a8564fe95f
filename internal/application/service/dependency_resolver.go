package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/domain/repository"
	"github.com/bravo68web/odinpkg/internal/domain/service"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
	"github.com/bravo68web/odinpkg/pkg/pkgid"
)

// DependencyResolverImpl resolves declared dependencies against the catalog
type DependencyResolverImpl struct {
	packageRepo repository.PackageRepository
	versionRepo repository.VersionRepository
}

// NewDependencyResolver creates a new DependencyResolverImpl instance
func NewDependencyResolver(
	packageRepo repository.PackageRepository,
	versionRepo repository.VersionRepository,
) *DependencyResolverImpl {
	return &DependencyResolverImpl{
		packageRepo: packageRepo,
		versionRepo: versionRepo,
	}
}

// Resolve binds every declared dependency to a version. Entries are visited
// in identifier order and a failing entry never stops the others.
func (r *DependencyResolverImpl) Resolve(ctx context.Context, declared map[string]string) ([]service.ResolvedDependency, []string, error) {
	identifiers := make([]string, 0, len(declared))
	for identifier := range declared {
		identifiers = append(identifiers, identifier)
	}
	sort.Strings(identifiers)

	var (
		resolved []service.ResolvedDependency
		messages []string
		seen     = make(map[uuid.UUID]bool)
	)
	for _, identifier := range identifiers {
		dep, msg, err := r.resolveOne(ctx, identifier, declared[identifier])
		if err != nil {
			return nil, nil, err
		}
		if msg != "" {
			messages = append(messages, msg)
			continue
		}
		if seen[dep.VersionID] {
			continue
		}
		seen[dep.VersionID] = true
		resolved = append(resolved, *dep)
	}

	return resolved, messages, nil
}

func (r *DependencyResolverImpl) resolveOne(ctx context.Context, identifier, rawVersion string) (*service.ResolvedDependency, string, error) {
	id, err := pkgid.ParseIdentifier(identifier)
	if err != nil {
		return nil, fmt.Sprintf("Invalid package %s", identifier), nil
	}

	version, err := pkgid.NormalizeVersion(rawVersion)
	if err != nil {
		return nil, fmt.Sprintf("Invalid Version Id %s@%s", identifier, rawVersion), nil
	}

	matches, err := r.packageRepo.Match(ctx, id)
	if err != nil {
		return nil, "", err
	}
	switch {
	case len(matches) == 0:
		return nil, fmt.Sprintf("Invalid package %s", identifier), nil
	case len(matches) > 1:
		return nil, fmt.Sprintf("Ambiguous package %s matches %d packages", identifier, len(matches)), nil
	}

	pkg := matches[0]
	v, err := r.versionRepo.FindByPackageAndVersion(ctx, pkg.ID, version)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, fmt.Sprintf("Invalid Version Id %s@%s", identifier, rawVersion), nil
		}
		return nil, "", err
	}

	return &service.ResolvedDependency{
		Identifier: identifier,
		PackageID:  pkg.ID,
		VersionID:  v.ID,
		Version:    v.Version,
	}, "", nil
}

// Verify interface compliance at compile time
var _ service.DependencyResolver = (*DependencyResolverImpl)(nil)
