package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/infrastructure/readme"
	"github.com/bravo68web/odinpkg/internal/infrastructure/storage"
	"github.com/bravo68web/odinpkg/internal/testutil/memrepo"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
)

type stubFetcher struct {
	body string
	err  error
	hits int
}

func (f *stubFetcher) Fetch(context.Context, string) (string, error) {
	f.hits++
	return f.body, f.err
}

type fixture struct {
	store   *memrepo.Store
	publish *PublishService
	blobs   *storage.FilesystemStorage
	fetcher *stubFetcher
	alice   *models.User
	bob     *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memrepo.New()
	blobs, err := storage.NewFilesystemStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystemStorage: %v", err)
	}
	fetcher := &stubFetcher{body: "# fetched"}

	resolver := NewDependencyResolver(store.Packages(), store.Versions())
	validator := NewValidator(resolver, NewReadmeService(readme.NewRenderer(1<<20), fetcher))
	publish := NewPublishService(validator, store.Catalog(), store.Packages(), store.Versions(), blobs)

	f := &fixture{store: store, publish: publish, blobs: blobs, fetcher: fetcher}
	f.alice = f.user(t, "alice")
	f.bob = f.user(t, "bob")
	return f
}

func (f *fixture) user(t *testing.T, login string) *models.User {
	t.Helper()
	u := &models.User{Login: login, Provider: ProviderGitHub, ProviderSubject: login, AccessCredential: "gho_" + login}
	if err := f.store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func widgetsRequest() *PublishRequest {
	return &PublishRequest{
		URL:            "https://github.com/acme/widgets",
		Version:        "1.0.0",
		Description:    "A widget toolkit for builders",
		License:        "MIT",
		Readme:         "README.md",
		ReadmeContents: "# Widgets\n\n<script>alert(1)</script>",
		Compiler:       "dev-2026-04",
		CommitHash:     "4f2a9c1",
		SizeKB:         12,
		Keywords:       []string{"ui"},
		Dependencies:   map[string]string{},
	}
}

func TestPublishCreatesVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.publish.Publish(ctx, f.alice, widgetsRequest())
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if res.Version.Version != "1.0.0" {
		t.Fatalf("unexpected version %q", res.Version.Version)
	}
	if res.Package.FullName() != "github.com/acme/widgets" || res.Package.OwnerID != f.alice.ID {
		t.Fatalf("unexpected package %+v", res.Package)
	}
	if strings.Contains(res.Package.ReadmeHTML, "<script") {
		t.Fatalf("readme not sanitized: %q", res.Package.ReadmeHTML)
	}

	archived, err := f.publish.ReadmeSource(ctx, res.Version.ID)
	if err != nil {
		t.Fatalf("ReadmeSource: %v", err)
	}
	if !strings.HasPrefix(archived, "# Widgets") {
		t.Fatalf("unexpected archived readme %q", archived)
	}
}

func TestPublishStripsVersionPrefix(t *testing.T) {
	f := newFixture(t)
	req := widgetsRequest()
	req.Version = "v2.0.0-rc.1"

	res, err := f.publish.Publish(context.Background(), f.alice, req)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if res.Version.Version != "2.0.0-rc.1" {
		t.Fatalf("stored version %q kept its prefix", res.Version.Version)
	}
}

func TestPublishRejectsRepublish(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.publish.Publish(ctx, f.alice, widgetsRequest()); err != nil {
		t.Fatalf("first Publish: %v", err)
	}
	_, err := f.publish.Publish(ctx, f.alice, widgetsRequest())
	if !errors.Is(err, apperrors.ErrVersionConflict) || !apperrors.IsConflict(err) {
		t.Fatalf("expected version conflict, got %v", err)
	}
	if f.store.VersionCount() != 1 {
		t.Fatalf("expected a single version row, got %d", f.store.VersionCount())
	}
}

func TestPublishShortDescription(t *testing.T) {
	f := newFixture(t)
	req := widgetsRequest()
	req.Description = "short"

	_, err := f.publish.Publish(context.Background(), f.alice, req)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus() != 400 {
		t.Fatalf("expected 400, got %v", err)
	}
	if !strings.Contains(appErr.Message, "at least 10 chars") {
		t.Fatalf("missing description message in %q", appErr.Message)
	}
	if f.store.VersionCount() != 0 {
		t.Fatalf("rejected publish wrote a version")
	}
}

func TestPublishUnresolvedDependency(t *testing.T) {
	f := newFixture(t)
	req := widgetsRequest()
	req.Dependencies = map[string]string{"acme/nonexistent": "1.0.0"}

	_, err := f.publish.Publish(context.Background(), f.alice, req)
	if !apperrors.IsBadRequest(err) {
		t.Fatalf("expected 400, got %v", err)
	}
	if !strings.Contains(err.Error(), "acme/nonexistent") {
		t.Fatalf("error does not name the dependency: %v", err)
	}
	if f.store.VersionCount() != 0 {
		t.Fatalf("rejected publish wrote a version")
	}
}

func TestPublishWritesDependencyEdges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base, err := f.publish.Publish(ctx, f.alice, widgetsRequest())
	if err != nil {
		t.Fatalf("Publish base: %v", err)
	}

	req := widgetsRequest()
	req.URL = "https://gitlab.com/tools/sub/gadgets.git"
	req.Dependencies = map[string]string{"github.com/acme/widgets": "v1.0.0"}
	res, err := f.publish.Publish(ctx, f.bob, req)
	if err != nil {
		t.Fatalf("Publish dependent: %v", err)
	}
	if res.Package.OwnerName != "tools/sub" || res.Package.RepoName != "gadgets" {
		t.Fatalf("unexpected identity %s", res.Package.FullName())
	}

	edges := f.store.Edges(res.Version.ID)
	if len(edges) != 1 || edges[0] != base.Version.ID {
		t.Fatalf("unexpected edges %v", edges)
	}
}

func TestDeleteReferencedVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base, err := f.publish.Publish(ctx, f.alice, widgetsRequest())
	if err != nil {
		t.Fatalf("Publish base: %v", err)
	}
	req := widgetsRequest()
	req.URL = "https://github.com/bob/gadgets"
	req.Dependencies = map[string]string{"acme/widgets": "1.0.0"}
	if _, err := f.publish.Publish(ctx, f.bob, req); err != nil {
		t.Fatalf("Publish dependent: %v", err)
	}

	err = f.publish.DeleteVersion(ctx, f.alice, base.Version.ID)
	if !errors.Is(err, apperrors.ErrReferencedDependency) || !apperrors.IsConflict(err) {
		t.Fatalf("expected referenced dependency conflict, got %v", err)
	}
	if _, err := f.store.Versions().FindByID(ctx, base.Version.ID); err != nil {
		t.Fatalf("referenced version was deleted: %v", err)
	}

	err = f.publish.DeletePackage(ctx, f.alice, base.Package.ID)
	if !errors.Is(err, apperrors.ErrReferencedDependency) {
		t.Fatalf("expected package delete to be refused, got %v", err)
	}
}

func TestDeleteVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.publish.Publish(ctx, f.alice, widgetsRequest())
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if err := f.publish.DeleteVersion(ctx, f.bob, res.Version.ID); !apperrors.IsForbidden(err) {
		t.Fatalf("expected forbidden for another user, got %v", err)
	}
	if err := f.publish.DeleteVersion(ctx, f.alice, res.Version.ID); err != nil {
		t.Fatalf("DeleteVersion: %v", err)
	}
	if err := f.publish.DeleteVersion(ctx, f.alice, res.Version.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if _, err := f.publish.ReadmeSource(ctx, res.Version.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("expected archived readme to go with the version, got %v", err)
	}
}

func TestDeletePackage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.publish.Publish(ctx, f.alice, widgetsRequest())
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := f.publish.DeletePackage(ctx, f.bob, res.Package.ID); !apperrors.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := f.publish.DeletePackage(ctx, f.alice, res.Package.ID); err != nil {
		t.Fatalf("DeletePackage: %v", err)
	}
	if f.store.VersionCount() != 0 {
		t.Fatalf("versions survived their package")
	}
}

func TestPublishToForeignPackage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.publish.Publish(ctx, f.alice, widgetsRequest()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	req := widgetsRequest()
	req.Version = "1.1.0"
	if _, err := f.publish.Publish(ctx, f.bob, req); !apperrors.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestPublishStoreFailureIsUpstream(t *testing.T) {
	f := newFixture(t)
	f.store.Fail = errors.New("connection reset")

	_, err := f.publish.Publish(context.Background(), f.alice, widgetsRequest())
	if !apperrors.IsUpstream(err) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestPublishFetchesReadme(t *testing.T) {
	f := newFixture(t)
	req := widgetsRequest()
	req.Readme = ""
	req.ReadmeContents = ""
	req.ReadmeURL = "https://raw.example.com/acme/widgets/README.md"

	res, err := f.publish.Publish(context.Background(), f.alice, req)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if f.fetcher.hits != 1 {
		t.Fatalf("expected one fetch, got %d", f.fetcher.hits)
	}
	if !strings.Contains(res.Package.ReadmeHTML, "fetched") {
		t.Fatalf("fetched readme not rendered: %q", res.Package.ReadmeHTML)
	}
}

func TestPublishNormalizesKeywords(t *testing.T) {
	f := newFixture(t)
	req := widgetsRequest()
	req.Keywords = []string{"UI", " ui ", "Widgets", ""}

	res, err := f.publish.Publish(context.Background(), f.alice, req)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	got := []string(res.Package.Keywords)
	if len(got) != 2 || got[0] != "ui" || got[1] != "widgets" {
		t.Fatalf("unexpected keywords %v", got)
	}
}

func TestPublishRejectsOversizedFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PublishRequest)
		message string
	}{
		{"version", func(r *PublishRequest) { r.Version = "1.0.0-" + strings.Repeat("a", 255) }, "Version is too long."},
		{"commit hash", func(r *PublishRequest) { r.CommitHash = strings.Repeat("f", 65) }, "Commit Hash must be at most 64 chars."},
		{"owner", func(r *PublishRequest) { r.URL = "https://github.com/" + strings.Repeat("o", 256) + "/widgets" }, "at most 255 chars"},
		{"repo", func(r *PublishRequest) { r.URL = "https://github.com/acme/" + strings.Repeat("r", 256) }, "at most 255 chars"},
		{"license", func(r *PublishRequest) { r.License = strings.Repeat("L", 256) }, "License is too long."},
		{"compiler", func(r *PublishRequest) { r.Compiler = strings.Repeat("c", 256) }, "Compiler Info is too long."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := widgetsRequest()
			tt.mutate(req)

			_, err := f.publish.Publish(context.Background(), f.alice, req)
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) || appErr.HTTPStatus() != 400 {
				t.Fatalf("expected 400, got %v", err)
			}
			if !strings.Contains(appErr.Message, tt.message) {
				t.Fatalf("missing %q in %q", tt.message, appErr.Message)
			}
			if f.store.VersionCount() != 0 {
				t.Fatalf("rejected publish wrote a version")
			}
		})
	}
}

func TestPublishAcceptsFieldsAtTheLimit(t *testing.T) {
	f := newFixture(t)
	req := widgetsRequest()
	req.CommitHash = strings.Repeat("f", MaxCommitHashLength)
	req.Compiler = strings.Repeat("é", MaxCompilerLength)

	if _, err := f.publish.Publish(context.Background(), f.alice, req); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}

func TestUpdatePackage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	result, err := f.publish.Publish(ctx, f.alice, widgetsRequest())
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	id := result.Package.ID
	description := "  A sturdier widget toolkit  "

	if _, err := f.publish.UpdatePackage(ctx, f.alice, id, PackageUpdate{}); !apperrors.IsBadRequest(err) {
		t.Fatalf("expected bad request for an empty update, got %v", err)
	}
	if _, err := f.publish.UpdatePackage(ctx, f.bob, id, PackageUpdate{Description: &description}); !apperrors.IsForbidden(err) {
		t.Fatalf("expected forbidden for another user, got %v", err)
	}
	short := "tiny"
	if _, err := f.publish.UpdatePackage(ctx, f.alice, id, PackageUpdate{Description: &short}); !apperrors.IsBadRequest(err) {
		t.Fatalf("expected bad request for a short description, got %v", err)
	}

	pkg, err := f.publish.UpdatePackage(ctx, f.alice, id, PackageUpdate{Description: &description, Keywords: []string{"Widgets", "UI"}})
	if err != nil {
		t.Fatalf("UpdatePackage: %v", err)
	}
	if pkg.Description != "A sturdier widget toolkit" {
		t.Fatalf("description = %q", pkg.Description)
	}

	stored, err := f.store.Packages().FindByID(ctx, id)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Description != "A sturdier widget toolkit" || strings.Join(stored.Keywords, ",") != "widgets,ui" {
		t.Fatalf("update not stored: %q %v", stored.Description, stored.Keywords)
	}

	// keywords only; the description stays
	if _, err := f.publish.UpdatePackage(ctx, f.alice, id, PackageUpdate{Keywords: []string{}}); err != nil {
		t.Fatalf("clear keywords: %v", err)
	}
	stored, _ = f.store.Packages().FindByID(ctx, id)
	if len(stored.Keywords) != 0 || stored.Description != "A sturdier widget toolkit" {
		t.Fatalf("unexpected package after clearing keywords: %+v", stored)
	}
}
