package memrepo

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	impl "github.com/bravo68web/odinpkg/internal/infrastructure/repository"
	"github.com/bravo68web/odinpkg/pkg/pkgid"
)

type queries Store

func (q *queries) Browse(_ context.Context, limit, offset int) (*repository.Page, error) {
	return q.list(limit, offset, func(*models.Package) bool { return true })
}

func (q *queries) Search(_ context.Context, query string, limit, offset int) (*repository.Page, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	return q.list(limit, offset, func(p *models.Package) bool {
		haystack := strings.ToLower(strings.Join([]string{p.HostName, p.OwnerName, p.RepoName, p.Description}, " "))
		if strings.Contains(haystack, needle) {
			return true
		}
		for _, k := range p.Keywords {
			if strings.EqualFold(k, needle) {
				return true
			}
		}
		return false
	})
}

func (q *queries) list(limit, offset int, keep func(*models.Package) bool) (*repository.Page, error) {
	s := (*Store)(q)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	var rows []repository.PackageSummary
	for _, p := range s.packages {
		if !keep(p) {
			continue
		}
		row := repository.PackageSummary{
			ID:          p.ID,
			HostName:    p.HostName,
			OwnerName:   p.OwnerName,
			RepoName:    p.RepoName,
			Slug:        p.Slug,
			Description: p.Description,
			Keywords:    p.Keywords,
			UpdatedAt:   p.UpdatedAt,
		}
		if latest := s.latest(p.ID); latest != nil {
			row.LatestVersion = latest.Version
			row.License = latest.License
		}
		if owner, ok := s.users[p.OwnerID]; ok {
			row.OwnerLogin = owner.Login
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].UpdatedAt.After(rows[j].UpdatedAt) })

	return &repository.Page{Count: int64(len(rows)), Values: page(rows, limit, offset)}, nil
}

func (s *Store) latest(packageID uuid.UUID) *models.Version {
	var best *models.Version
	for _, v := range s.versions {
		if v.PackageID != packageID {
			continue
		}
		if best == nil || pkgid.CompareVersions(v.Version, best.Version) > 0 {
			best = v
		}
	}
	return best
}

func (q *queries) DependenciesFlat(_ context.Context, versionID uuid.UUID) ([]repository.FlatDependency, error) {
	s := (*Store)(q)
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	seen := map[uuid.UUID]bool{versionID: true}
	queue := append([]uuid.UUID(nil), s.edges[versionID]...)
	var out []repository.FlatDependency
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true

		v, ok := s.versions[id]
		if !ok {
			continue
		}
		pkg := s.packages[v.PackageID]
		dep := repository.FlatDependency{
			VersionID:   v.ID,
			PackageID:   v.PackageID,
			Host:        pkg.HostName,
			Owner:       pkg.OwnerName,
			Repo:        pkg.RepoName,
			Version:     v.Version,
			License:     v.License,
			LastUpdated: v.CreatedAt,
			State:       repository.StateLatest,
			Insecure:    v.Insecure,
		}
		if latest := s.latest(v.PackageID); latest != nil && latest.ID != v.ID {
			dep.State = repository.StateOutdated
		}
		out = append(out, dep)
		queue = append(queue, s.edges[id]...)
	}
	return out, nil
}

func (q *queries) DependencyLicenses(ctx context.Context, versionID uuid.UUID) ([]repository.LicenseGroup, error) {
	deps, err := q.DependenciesFlat(ctx, versionID)
	if err != nil {
		return nil, err
	}
	return impl.GroupLicenses(deps), nil
}
