package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/bravo68web/odinpkg/internal/domain/repository"
	apperror "github.com/bravo68web/odinpkg/pkg/errors"
	"github.com/bravo68web/odinpkg/pkg/pkgid"
	"github.com/google/uuid"
)

// Listing defaults
const (
	DefaultBrowseLimit = 100
	DefaultSearchLimit = 25
)

const summaryColumns = `
	p.id, p.host_name, p.owner_name, p.repo_name, p.slug, p.description, p.keywords,
	COALESCE(lv.version, '') AS latest_version,
	COALESCE(lv.license, '') AS license,
	u.login AS owner_login,
	p.updated_at`

const summaryFrom = `
	FROM packages p
	JOIN users u ON u.id = p.owner_id
	LEFT JOIN LATERAL (
		SELECT v.version, v.license FROM versions v
		WHERE v.package_id = p.id
		ORDER BY v.created_at DESC
		LIMIT 1
	) lv ON true`

const searchWhere = `
	WHERE p.host_name ILIKE ? OR p.owner_name ILIKE ? OR p.repo_name ILIKE ?
	   OR p.description ILIKE ?
	   OR EXISTS (SELECT 1 FROM unnest(p.keywords) k WHERE lower(k) = ?)`

const closureQuery = `
	WITH RECURSIVE closure(id) AS (
		SELECT depends_on_id FROM version_dependencies WHERE version_id = ?
		UNION
		SELECT vd.depends_on_id FROM version_dependencies vd JOIN closure c ON vd.version_id = c.id
	)
	SELECT v.id AS version_id, p.id AS package_id, p.host_name, p.owner_name, p.repo_name,
	       v.version, v.license, p.updated_at AS last_updated, v.insecure
	FROM closure c
	JOIN versions v ON v.id = c.id
	JOIN packages p ON p.id = v.package_id
	ORDER BY p.host_name, p.owner_name, p.repo_name, v.version`

// CatalogQueryImpl implements the catalog read side with sqlx
type CatalogQueryImpl struct {
	db *sqlx.DB
}

// NewCatalogQueries creates a new CatalogQueryImpl instance
func NewCatalogQueries(db *sqlx.DB) repository.CatalogQueries {
	return &CatalogQueryImpl{db: db}
}

// Browse lists packages ordered by last update
func (r *CatalogQueryImpl) Browse(ctx context.Context, limit, offset int) (*repository.Page, error) {
	limit, offset = clampPage(limit, offset, DefaultBrowseLimit)

	page := &repository.Page{Values: []repository.PackageSummary{}}
	if err := r.db.GetContext(ctx, &page.Count, `SELECT count(*) FROM packages`); err != nil {
		return nil, apperror.DatabaseError("count packages", err)
	}

	query := r.db.Rebind(`SELECT` + summaryColumns + summaryFrom + `
		ORDER BY p.updated_at DESC
		LIMIT ? OFFSET ?`)
	if err := r.db.SelectContext(ctx, &page.Values, query, limit, offset); err != nil {
		return nil, apperror.DatabaseError("browse packages", err)
	}
	return page, nil
}

// Search lists packages whose identity or description contains the query,
// or that carry it as a keyword
func (r *CatalogQueryImpl) Search(ctx context.Context, q string, limit, offset int) (*repository.Page, error) {
	limit, offset = clampPage(limit, offset, DefaultSearchLimit)
	q = strings.TrimSpace(q)
	if q == "" {
		return r.Browse(ctx, limit, offset)
	}

	args := searchArgs(q)

	page := &repository.Page{Values: []repository.PackageSummary{}}
	countQuery := r.db.Rebind(`SELECT count(*) FROM packages p` + searchWhere)
	if err := r.db.GetContext(ctx, &page.Count, countQuery, args...); err != nil {
		return nil, apperror.DatabaseError("count search results", err)
	}

	query := r.db.Rebind(`SELECT` + summaryColumns + summaryFrom + searchWhere + `
		ORDER BY p.updated_at DESC
		LIMIT ? OFFSET ?`)
	if err := r.db.SelectContext(ctx, &page.Values, query, append(args, limit, offset)...); err != nil {
		return nil, apperror.DatabaseError("search packages", err)
	}
	return page, nil
}

// DependenciesFlat returns the transitive dependencies of a version. A row is
// "latest" when no version of its package has higher precedence.
func (r *CatalogQueryImpl) DependenciesFlat(ctx context.Context, versionID uuid.UUID) ([]repository.FlatDependency, error) {
	deps := []repository.FlatDependency{}
	if err := r.db.SelectContext(ctx, &deps, r.db.Rebind(closureQuery), versionID); err != nil {
		return nil, apperror.DatabaseError("flatten dependencies", err)
	}
	if len(deps) == 0 {
		return deps, nil
	}

	packageIDs := make([]uuid.UUID, 0, len(deps))
	for _, d := range deps {
		packageIDs = append(packageIDs, d.PackageID)
	}
	query, args, err := sqlx.In(`SELECT package_id, version FROM versions WHERE package_id IN (?)`, packageIDs)
	if err != nil {
		return nil, apperror.DatabaseError("build latest versions query", err)
	}
	var rows []struct {
		PackageID uuid.UUID `db:"package_id"`
		Version   string    `db:"version"`
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, apperror.DatabaseError("load latest versions", err)
	}

	latest := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		if cur, ok := latest[row.PackageID]; !ok || pkgid.CompareVersions(row.Version, cur) > 0 {
			latest[row.PackageID] = row.Version
		}
	}
	markStates(deps, latest)
	return deps, nil
}

// DependencyLicenses groups the transitive dependencies of a version by license
func (r *CatalogQueryImpl) DependencyLicenses(ctx context.Context, versionID uuid.UUID) ([]repository.LicenseGroup, error) {
	deps, err := r.DependenciesFlat(ctx, versionID)
	if err != nil {
		return nil, err
	}
	return GroupLicenses(deps), nil
}

func markStates(deps []repository.FlatDependency, latest map[uuid.UUID]string) {
	for i := range deps {
		if deps[i].Version == latest[deps[i].PackageID] {
			deps[i].State = repository.StateLatest
		} else {
			deps[i].State = repository.StateOutdated
		}
	}
}

// GroupLicenses buckets dependencies by license, each bucket listing
// host/owner/repo once, both sorted
func GroupLicenses(deps []repository.FlatDependency) []repository.LicenseGroup {
	byLicense := map[string]map[string]struct{}{}
	for _, d := range deps {
		if byLicense[d.License] == nil {
			byLicense[d.License] = map[string]struct{}{}
		}
		byLicense[d.License][d.Host+"/"+d.Owner+"/"+d.Repo] = struct{}{}
	}

	groups := make([]repository.LicenseGroup, 0, len(byLicense))
	for license, set := range byLicense {
		pkgs := make([]string, 0, len(set))
		for p := range set {
			pkgs = append(pkgs, p)
		}
		sort.Strings(pkgs)
		groups = append(groups, repository.LicenseGroup{License: license, Packages: pkgs})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].License < groups[j].License })
	return groups
}

func clampPage(limit, offset, def int) (int, int) {
	if limit <= 0 || limit > def {
		limit = def
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchArgs binds searchWhere: four ILIKE patterns, then the keyword
// compared against lower(k)
func searchArgs(q string) []any {
	pattern := "%" + escapeLike(q) + "%"
	return []any{pattern, pattern, pattern, pattern, strings.ToLower(q)}
}

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Verify interface compliance at compile time
var _ repository.CatalogQueries = (*CatalogQueryImpl)(nil)
