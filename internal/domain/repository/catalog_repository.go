package repository

import (
	"context"
	"time"

	"github.com/lib/pq"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/pkg/pkgid"
	"github.com/google/uuid"
)

// PackageUpsert is everything written by a single publish
type PackageUpsert struct {
	Identity     pkgid.Identity
	OwnerID      uuid.UUID
	Description  string
	ReadmeHTML   string
	URL          string
	Keywords     []string
	Version      models.Version
	Dependencies []uuid.UUID
}

// CatalogRepository performs the multi-table writes of the catalog, each in one transaction
type CatalogRepository interface {
	// UpsertFullPackage finds or creates the package, refreshes its metadata and
	// inserts the version with its dependency edges. It returns ErrVersionConflict
	// when the version already exists and ErrForbidden when the package belongs
	// to another user.
	UpsertFullPackage(ctx context.Context, in *PackageUpsert) (*models.Package, *models.Version, error)

	// DeleteVersion removes a version and its outgoing edges. It returns
	// ErrReferencedDependency when another version depends on it.
	DeleteVersion(ctx context.Context, versionID uuid.UUID) error

	// DeletePackage removes a package with all of its versions. It returns
	// ErrReferencedDependency when a version of another package depends on it.
	DeletePackage(ctx context.Context, packageID uuid.UUID) error
}

// PackageSummary is a catalog listing row
type PackageSummary struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	HostName      string         `db:"host_name" json:"host_name"`
	OwnerName     string         `db:"owner_name" json:"owner_name"`
	RepoName      string         `db:"repo_name" json:"repo_name"`
	Slug          string         `db:"slug" json:"slug"`
	Description   string         `db:"description" json:"description"`
	Keywords      pq.StringArray `db:"keywords" json:"keywords"`
	LatestVersion string         `db:"latest_version" json:"latest_version"`
	License       string         `db:"license" json:"license"`
	OwnerLogin    string         `db:"owner_login" json:"owner_login"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// Page is a counted slice of listing rows
type Page struct {
	Count  int64            `json:"count"`
	Values []PackageSummary `json:"values"`
}

// FlatDependency is one node of a version's transitive dependency closure
type FlatDependency struct {
	VersionID   uuid.UUID `db:"version_id" json:"version_id"`
	PackageID   uuid.UUID `db:"package_id" json:"package_id"`
	Host        string    `db:"host_name" json:"host"`
	Owner       string    `db:"owner_name" json:"owner"`
	Repo        string    `db:"repo_name" json:"repo"`
	Version     string    `db:"version" json:"version"`
	License     string    `db:"license" json:"license"`
	LastUpdated time.Time `db:"last_updated" json:"last_updated"`
	State       string    `db:"-" json:"state"`
	Insecure    bool      `db:"insecure" json:"insecure"`
}

// Dependency states reported for flattened dependencies
const (
	StateLatest   = "latest"
	StateOutdated = "outdated"
)

// LicenseGroup groups the packages of a dependency closure by license
type LicenseGroup struct {
	License  string   `json:"license"`
	Packages []string `json:"packages"`
}

// CatalogQueries is the read side of the catalog
type CatalogQueries interface {
	// Browse lists packages ordered by last update
	Browse(ctx context.Context, limit, offset int) (*Page, error)

	// Search lists packages matching the query in name, description or keywords
	Search(ctx context.Context, query string, limit, offset int) (*Page, error)

	// DependenciesFlat returns the transitive dependencies of a version
	DependenciesFlat(ctx context.Context, versionID uuid.UUID) ([]FlatDependency, error)

	// DependencyLicenses groups the transitive dependencies of a version by license
	DependencyLicenses(ctx context.Context, versionID uuid.UUID) ([]LicenseGroup, error)
}
