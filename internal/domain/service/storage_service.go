package service

import (
	"context"
	"errors"
	"path"

	"github.com/bravo68web/odinpkg/pkg/pkgid"
)

// ErrBlobNotFound is returned by StorageService.Get for a missing key
var ErrBlobNotFound = errors.New("blob not found")

// StorageService stores opaque blobs under slash-separated keys.
// Backends: local filesystem and S3-compatible object storage.
type StorageService interface {
	// Put writes data under key, replacing any previous blob
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get reads the blob stored under key
	Get(ctx context.Context, key string) ([]byte, error)

	// Exists reports whether a blob is stored under key
	Exists(ctx context.Context, key string) (bool, error)

	// DeletePrefix removes every blob whose key starts with prefix
	DeletePrefix(ctx context.Context, prefix string) error
}

// ReadmePrefix is the key prefix of every archived readme of a package
func ReadmePrefix(id pkgid.Identity) string {
	return path.Join("readmes", id.Host, id.Owner, id.Repo) + "/"
}

// ReadmeKey is the key of the archived readme source of one version
func ReadmeKey(id pkgid.Identity, version string) string {
	return ReadmePrefix(id) + version + ".md"
}
