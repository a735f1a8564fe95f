package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/testutil/memrepo"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
)

func seedCatalog(store *memrepo.Store) (widgets, gizmo *models.Version) {
	owner := uuid.New()
	w := store.AddPackage(&models.Package{HostName: "github.com", OwnerName: "acme", RepoName: "widgets", OwnerID: owner})
	widgets = store.AddVersion(&models.Version{PackageID: w.ID, Version: "1.0.0", License: "MIT", PublishedBy: owner})
	store.AddVersion(&models.Version{PackageID: w.ID, Version: "1.1.0", License: "MIT", PublishedBy: owner})

	g := store.AddPackage(&models.Package{HostName: "gitlab.com", OwnerName: "tools/sub", RepoName: "gizmo", OwnerID: owner})
	gizmo = store.AddVersion(&models.Version{PackageID: g.ID, Version: "0.3.0-beta.1", License: "BSD-3-Clause", PublishedBy: owner})

	// same owner and slug on two hosts
	for _, host := range []string{"github.com", "codeberg.org"} {
		p := store.AddPackage(&models.Package{HostName: host, OwnerName: "twins", RepoName: "shared", OwnerID: owner})
		store.AddVersion(&models.Version{PackageID: p.ID, Version: "1.0.0", License: "MIT", PublishedBy: owner})
	}
	return widgets, gizmo
}

func TestResolveDependencies(t *testing.T) {
	store := memrepo.New()
	widgets, gizmo := seedCatalog(store)
	resolver := NewDependencyResolver(store.Packages(), store.Versions())

	resolved, messages, err := resolver.Resolve(context.Background(), map[string]string{
		"https://github.com/acme/widgets": "v1.0.0",
		"gitlab.com/tools/sub/gizmo":      "0.3.0-beta.1",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("unexpected messages %v", messages)
	}
	if len(resolved) != 2 {
		t.Fatalf("expected 2 resolved, got %d", len(resolved))
	}
	got := map[uuid.UUID]bool{resolved[0].VersionID: true, resolved[1].VersionID: true}
	if !got[widgets.ID] || !got[gizmo.ID] {
		t.Fatalf("resolved wrong versions: %+v", resolved)
	}
}

func TestResolveSlugAdapter(t *testing.T) {
	store := memrepo.New()
	widgets, _ := seedCatalog(store)
	resolver := NewDependencyResolver(store.Packages(), store.Versions())

	resolved, messages, err := resolver.Resolve(context.Background(), map[string]string{"acme/widgets": "1.0.0"})
	if err != nil || len(messages) != 0 {
		t.Fatalf("Resolve: %v %v", messages, err)
	}
	if len(resolved) != 1 || resolved[0].VersionID != widgets.ID {
		t.Fatalf("unexpected resolution %+v", resolved)
	}
}

func TestResolveDeduplicatesVersions(t *testing.T) {
	store := memrepo.New()
	seedCatalog(store)
	resolver := NewDependencyResolver(store.Packages(), store.Versions())

	resolved, _, err := resolver.Resolve(context.Background(), map[string]string{
		"acme/widgets":            "1.0.0",
		"github.com/acme/widgets": "1.0.0",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(resolved) != 1 {
		t.Fatalf("expected one edge for the same version, got %d", len(resolved))
	}
}

func TestResolveReportsEveryFailure(t *testing.T) {
	store := memrepo.New()
	seedCatalog(store)
	resolver := NewDependencyResolver(store.Packages(), store.Versions())

	resolved, messages, err := resolver.Resolve(context.Background(), map[string]string{
		"acme/nonexistent":           "1.0.0",
		"acme/widgets":               "9.9.9",
		"github.com/acme/widgets":    "not-semver",
		"twins/shared":               "1.0.0",
		"widgets":                    "1.0.0",
		"gitlab.com/tools/sub/gizmo": "0.3.0-beta.1",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(resolved) != 1 {
		t.Fatalf("valid entry was not resolved alongside failures: %+v", resolved)
	}

	want := []string{
		"Invalid package acme/nonexistent",
		"Invalid Version Id acme/widgets@9.9.9",
		"Invalid Version Id github.com/acme/widgets@not-semver",
		"Ambiguous package twins/shared matches 2 packages",
		"Invalid package widgets",
	}
	if len(messages) != len(want) {
		t.Fatalf("expected %d messages, got %v", len(want), messages)
	}
	for i := range want {
		if messages[i] != want[i] {
			t.Fatalf("message %d = %q, want %q", i, messages[i], want[i])
		}
	}
}

func TestResolveStoreFailure(t *testing.T) {
	store := memrepo.New()
	seedCatalog(store)
	store.Fail = errors.New("connection reset")
	resolver := NewDependencyResolver(store.Packages(), store.Versions())

	_, _, err := resolver.Resolve(context.Background(), map[string]string{"acme/widgets": "1.0.0"})
	if !apperrors.IsUpstream(err) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestValidateReportsAllMessages(t *testing.T) {
	store := memrepo.New()
	validator := NewValidator(
		NewDependencyResolver(store.Packages(), store.Versions()),
		NewReadmeService(stubRenderer{}, nil),
	)

	_, err := validator.Validate(context.Background(), &PublishRequest{
		URL:          "https://ab.c/x/y",
		Version:      "1.0",
		Description:  "  tiny  ",
		Dependencies: map[string]string{"acme/missing": "1.0.0"},
	})
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus() != 400 {
		t.Fatalf("expected validation error, got %v", err)
	}

	want := []string{
		"Invalid 'version' field. Must comply with semver.",
		"Invalid Host.",
		"Owner name invalid.",
		"Repo name invalid.",
		"Description must have at least 10 chars.",
		"Packages without licenses are prohibited.",
		"Expected a readme file.",
		"Commit Hash Missing.",
		"Compiler Info Missing.",
		"Invalid package acme/missing",
	}
	got := appErr.Messages()
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("message %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestValidateDescriptionLength(t *testing.T) {
	store := memrepo.New()
	validator := NewValidator(
		NewDependencyResolver(store.Packages(), store.Versions()),
		NewReadmeService(stubRenderer{}, nil),
	)

	tests := []struct {
		description string
		ok          bool
	}{
		{"123456789", false},
		{"1234567890", true},
		{"   123456789   ", false},
		{"ünïcödé!!!", true},
	}
	for _, tt := range tests {
		req := widgetsRequest()
		req.Description = tt.description
		_, err := validator.Validate(context.Background(), req)
		hasMsg := err != nil && strings.Contains(err.Error(), "at least 10 chars")
		if hasMsg == tt.ok {
			t.Fatalf("description %q: ok=%v, err=%v", tt.description, tt.ok, err)
		}
	}
}

func TestValidateReadmeFetchFailure(t *testing.T) {
	store := memrepo.New()
	fetcher := &stubFetcher{err: errors.New("upstream returned 404")}
	validator := NewValidator(
		NewDependencyResolver(store.Packages(), store.Versions()),
		NewReadmeService(stubRenderer{}, fetcher),
	)

	req := widgetsRequest()
	req.ReadmeContents = ""
	req.ReadmeURL = "https://raw.example.com/README.md"
	_, err := validator.Validate(context.Background(), req)
	if !apperrors.IsBadRequest(err) {
		t.Fatalf("expected 400, got %v", err)
	}
	if !strings.Contains(err.Error(), "Readme Parse Error: upstream returned 404") {
		t.Fatalf("missing readme message in %v", err)
	}
	if strings.Contains(err.Error(), "Expected a readme file.") {
		t.Fatalf("fetch failure also reported a missing readme: %v", err)
	}
	if fetcher.hits != 1 {
		t.Fatalf("expected a single fetch attempt, got %d", fetcher.hits)
	}
}

type stubRenderer struct{}

func (stubRenderer) Render(_ context.Context, markdown string) (string, error) {
	return "<p>" + markdown + "</p>", nil
}
