package repository

import (
	"reflect"
	"strings"
	"testing"

	"github.com/bravo68web/odinpkg/internal/domain/repository"
	"github.com/google/uuid"
)

func TestGroupLicenses(t *testing.T) {
	deps := []repository.FlatDependency{
		{Host: "github.com", Owner: "acme", Repo: "b", License: "MIT"},
		{Host: "github.com", Owner: "acme", Repo: "a", License: "MIT"},
		{Host: "gitlab.com", Owner: "grp/sub", Repo: "c", License: "BSD-3-Clause"},
		{Host: "github.com", Owner: "acme", Repo: "a", License: "MIT"},
	}
	got := GroupLicenses(deps)
	want := []repository.LicenseGroup{
		{License: "BSD-3-Clause", Packages: []string{"gitlab.com/grp/sub/c"}},
		{License: "MIT", Packages: []string{"github.com/acme/a", "github.com/acme/b"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("GroupLicenses = %+v", got)
	}
}

func TestMarkStates(t *testing.T) {
	pkgA, pkgB := uuid.New(), uuid.New()
	deps := []repository.FlatDependency{
		{PackageID: pkgA, Version: "1.2.0"},
		{PackageID: pkgB, Version: "0.9.0"},
	}
	markStates(deps, map[uuid.UUID]string{pkgA: "1.2.0", pkgB: "1.0.0"})
	if deps[0].State != repository.StateLatest || deps[1].State != repository.StateOutdated {
		t.Fatalf("unexpected states %q %q", deps[0].State, deps[1].State)
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct{ limit, offset, wantLimit, wantOffset int }{
		{0, 0, DefaultSearchLimit, 0},
		{10, -5, 10, 0},
		{500, 20, DefaultSearchLimit, 20},
	}
	for _, tt := range tests {
		l, o := clampPage(tt.limit, tt.offset, DefaultSearchLimit)
		if l != tt.wantLimit || o != tt.wantOffset {
			t.Fatalf("clampPage(%d,%d) = %d,%d", tt.limit, tt.offset, l, o)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Fatalf("escapeLike = %q", got)
	}
}

func TestSearchArgsFoldKeywordCase(t *testing.T) {
	args := searchArgs("GameDev_2D")
	if len(args) != strings.Count(searchWhere, "?") {
		t.Fatalf("%d args for %d placeholders", len(args), strings.Count(searchWhere, "?"))
	}
	for _, a := range args[:4] {
		if a != `%GameDev\_2D%` {
			t.Fatalf("pattern = %v", a)
		}
	}
	if args[4] != "gamedev_2d" {
		t.Fatalf("keyword = %v", args[4])
	}
	if !strings.Contains(searchWhere, "lower(k) = ?") {
		t.Fatalf("keyword comparison is not case-insensitive: %s", searchWhere)
	}
}
