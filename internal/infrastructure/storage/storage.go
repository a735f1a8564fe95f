package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/bravo68web/odinpkg/internal/config"
	"github.com/bravo68web/odinpkg/internal/domain/service"
)

// StorageType represents the type of storage backend
type StorageType string

const (
	// StorageTypeFilesystem represents local filesystem storage
	StorageTypeFilesystem StorageType = "filesystem"

	// StorageTypeS3 represents AWS S3 storage
	StorageTypeS3 StorageType = "s3"
)

// New creates the storage backend selected by configuration
func New(ctx context.Context, cfg *config.StorageConfig) (service.StorageService, error) {
	switch StorageType(strings.ToLower(cfg.Type)) {
	case StorageTypeFilesystem, "":
		return NewFilesystemStorage(cfg.BasePath)

	case StorageTypeS3:
		return NewS3Storage(ctx, S3Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Endpoint:     cfg.S3Endpoint,
			UsePathStyle: cfg.S3Endpoint != "",
			Prefix:       cfg.S3Prefix,
		})

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// cleanKey normalises a key and rejects ones escaping the storage root
func cleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || strings.HasPrefix(key, "../") || strings.Contains(key, "/../") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return cleaned, nil
}
