package service

import (
	"context"

	"github.com/google/uuid"
)

// ResolvedDependency is a declared dependency bound to a catalog version
type ResolvedDependency struct {
	Identifier string
	PackageID  uuid.UUID
	VersionID  uuid.UUID
	Version    string
}

// DependencyResolver binds declared dependencies to catalog versions
type DependencyResolver interface {
	// Resolve resolves every entry of declared, mapping identifier to version.
	// All entries are attempted; the returned messages describe every entry
	// that failed to resolve. The error is reserved for catalog failures.
	Resolve(ctx context.Context, declared map[string]string) ([]ResolvedDependency, []string, error)
}
