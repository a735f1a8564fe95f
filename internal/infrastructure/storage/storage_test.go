package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/bravo68web/odinpkg/internal/config"
	"github.com/bravo68web/odinpkg/internal/domain/service"
	"github.com/bravo68web/odinpkg/pkg/pkgid"
)

func TestFilesystemRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFilesystemStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystemStorage: %v", err)
	}

	id := pkgid.Identity{Host: "gitlab.com", Owner: "grp/sub", Repo: "lib"}
	key := service.ReadmeKey(id, "1.0.0")
	if key != "readmes/gitlab.com/grp/sub/lib/1.0.0.md" {
		t.Fatalf("ReadmeKey = %q", key)
	}

	if err := store.Put(ctx, key, []byte("# lib"), "text/markdown"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := store.Get(ctx, key)
	if err != nil || string(got) != "# lib" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if ok, _ := store.Exists(ctx, key); !ok {
		t.Fatalf("expected blob to exist")
	}

	if err := store.DeletePrefix(ctx, service.ReadmePrefix(id)); err != nil {
		t.Fatalf("DeletePrefix: %v", err)
	}
	if _, err := store.Get(ctx, key); !errors.Is(err, service.ErrBlobNotFound) {
		t.Fatalf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestFilesystemRejectsTraversal(t *testing.T) {
	store, err := NewFilesystemStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystemStorage: %v", err)
	}
	if err := store.Put(context.Background(), "../escape.md", []byte("x"), ""); err == nil {
		t.Fatalf("expected traversal to be rejected")
	}
}

func TestNewRejectsUnknownType(t *testing.T) {
	if _, err := New(context.Background(), &config.StorageConfig{Type: "ftp"}); err == nil {
		t.Fatalf("expected error for unknown storage type")
	}
}
