package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	"github.com/bravo68web/odinpkg/internal/testutil/memrepo"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
)

func newCatalog(store *memrepo.Store) *CatalogService {
	return NewCatalogService(store.Queries(), store.Packages(), store.Versions(), store.Users())
}

func TestLookup(t *testing.T) {
	store := memrepo.New()
	seedCatalog(store)
	catalog := newCatalog(store)
	ctx := context.Background()

	pkg, err := catalog.LookupByURL(ctx, "https://github.com/acme/widgets.git")
	if err != nil || pkg.RepoName != "widgets" {
		t.Fatalf("LookupByURL: %v %v", pkg, err)
	}
	if _, err := catalog.LookupByURL(ctx, "github"); !apperrors.IsBadRequest(err) {
		t.Fatalf("expected bad request, got %v", err)
	}

	pkg, err = catalog.LookupBySlug(ctx, "tools/sub", "gizmo")
	if err == nil {
		t.Fatalf("nested owners are not slug addressable, got %v", pkg)
	}
	if _, err := catalog.LookupBySlug(ctx, "acme", "widgets"); err != nil {
		t.Fatalf("LookupBySlug: %v", err)
	}
	if _, err := catalog.LookupBySlug(ctx, "twins", "shared"); !apperrors.IsConflict(err) {
		t.Fatalf("expected ambiguous slug to conflict, got %v", err)
	}
	if _, err := catalog.LookupBySlug(ctx, "acme", "nothing"); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDependencyReport(t *testing.T) {
	store := memrepo.New()
	widgets, gizmo := seedCatalog(store)
	catalog := newCatalog(store)
	ctx := context.Background()

	owner := uuid.New()
	app := store.AddPackage(&models.Package{HostName: "github.com", OwnerName: "acme", RepoName: "app", OwnerID: owner})
	mid := store.AddVersion(&models.Version{PackageID: app.ID, Version: "0.1.0", License: "MIT", PublishedBy: owner}, gizmo.ID)
	top := store.AddPackage(&models.Package{HostName: "github.com", OwnerName: "acme", RepoName: "top", OwnerID: owner})
	root := store.AddVersion(&models.Version{PackageID: top.ID, Version: "1.0.0", License: "MIT", PublishedBy: owner}, widgets.ID, mid.ID)

	report, err := catalog.Dependencies(ctx, root.ID)
	if err != nil {
		t.Fatalf("Dependencies: %v", err)
	}
	if len(report.Dependencies) != 3 {
		t.Fatalf("expected 3 transitive dependencies, got %+v", report.Dependencies)
	}
	states := map[string]string{}
	for _, d := range report.Dependencies {
		states[d.Repo] = d.State
	}
	if states["widgets"] != repository.StateOutdated {
		t.Fatalf("widgets 1.0.0 should be outdated, got %q", states["widgets"])
	}
	if states["gizmo"] != repository.StateLatest {
		t.Fatalf("gizmo should be latest, got %q", states["gizmo"])
	}

	if len(report.Licenses) != 2 || report.Licenses[0].License != "BSD-3-Clause" {
		t.Fatalf("unexpected license groups %+v", report.Licenses)
	}
	if got := report.Licenses[1].Packages; len(got) != 2 || got[0] != "github.com/acme/app" {
		t.Fatalf("unexpected MIT packages %v", got)
	}

	if _, err := catalog.Dependencies(ctx, uuid.New()); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListForUserMarksReferencedVersions(t *testing.T) {
	store := memrepo.New()
	catalog := newCatalog(store)
	ctx := context.Background()

	owner := uuid.New()
	lib := store.AddPackage(&models.Package{HostName: "github.com", OwnerName: "acme", RepoName: "lib", OwnerID: owner})
	used := store.AddVersion(&models.Version{PackageID: lib.ID, Version: "1.0.0", License: "MIT", PublishedBy: owner})
	store.AddVersion(&models.Version{PackageID: lib.ID, Version: "2.0.0", License: "MIT", PublishedBy: owner})
	other := store.AddPackage(&models.Package{HostName: "github.com", OwnerName: "else", RepoName: "app", OwnerID: uuid.New()})
	store.AddVersion(&models.Version{PackageID: other.ID, Version: "1.0.0", License: "MIT"}, used.ID)

	owned, err := catalog.ListForUser(ctx, owner)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(owned) != 1 || len(owned[0].Versions) != 2 {
		t.Fatalf("unexpected listing %+v", owned)
	}
	// newest first
	if owned[0].Versions[0].Version.Version != "2.0.0" || owned[0].Versions[0].Referenced {
		t.Fatalf("2.0.0 should be first and unreferenced: %+v", owned[0].Versions[0])
	}
	if !owned[0].Versions[1].Referenced {
		t.Fatalf("1.0.0 should be marked referenced")
	}
}

func TestSearch(t *testing.T) {
	store := memrepo.New()
	seedCatalog(store)
	catalog := newCatalog(store)

	page, err := catalog.Search(context.Background(), "gizmo", 10, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.Count != 1 || page.Values[0].LatestVersion != "0.3.0-beta.1" {
		t.Fatalf("unexpected page %+v", page)
	}
}
