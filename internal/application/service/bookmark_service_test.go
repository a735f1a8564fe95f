package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/testutil/memrepo"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
)

func TestBookmarks(t *testing.T) {
	store := memrepo.New()
	bookmarks := NewBookmarkService(store.Bookmarks(), store.Packages())
	ctx := context.Background()

	pkg := store.AddPackage(&models.Package{HostName: "github.com", OwnerName: "acme", RepoName: "widgets", OwnerID: uuid.New()})
	alice := &models.User{ID: uuid.New(), Login: "alice"}
	bob := &models.User{ID: uuid.New(), Login: "bob"}

	if _, err := bookmarks.Bookmark(ctx, alice, uuid.New()); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found for unknown package, got %v", err)
	}

	for _, u := range []*models.User{alice, alice, bob} {
		if _, err := bookmarks.Bookmark(ctx, u, pkg.ID); err != nil {
			t.Fatalf("Bookmark: %v", err)
		}
	}
	status, err := bookmarks.Status(ctx, nil, pkg.ID)
	if err != nil || status.Count != 2 || status.Bookmarked {
		t.Fatalf("anonymous status: %+v %v", status, err)
	}

	saved, err := bookmarks.MyBookmarks(ctx, alice)
	if err != nil || len(saved) != 1 || saved[0].ID != pkg.ID {
		t.Fatalf("MyBookmarks: %+v %v", saved, err)
	}

	status, err = bookmarks.Unbookmark(ctx, alice, pkg.ID)
	if err != nil || status.Count != 1 || status.Bookmarked {
		t.Fatalf("Unbookmark: %+v %v", status, err)
	}
	if _, err := bookmarks.Unbookmark(ctx, alice, pkg.ID); err != nil {
		t.Fatalf("removing a missing bookmark should succeed: %v", err)
	}
}
