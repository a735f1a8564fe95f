// Package pkgid parses and normalises the identifiers the registry addresses
// packages and versions by.
//
// A package is canonically identified by the repository it lives in:
// host, owner and repo. Owners may be nested (GitLab subgroups), so owner can
// contain slashes. Some clients still address packages as owner/slug; those
// identifiers parse into an Identity with Scheme set to SchemeSlug and are
// resolved through the slug adapter in the package repository.
package pkgid

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Scheme tags which addressing scheme an Identity was parsed from
type Scheme int

const (
	// SchemeRepo addresses a package by host, owner and repo
	SchemeRepo Scheme = iota
	// SchemeSlug addresses a package by owner and slug
	SchemeSlug
)

// ErrInvalidURL is returned when a repository URL cannot be decomposed
var ErrInvalidURL = errors.New("invalid package url")

// Identity identifies a package
type Identity struct {
	Scheme Scheme
	Host   string
	Owner  string
	Repo   string
	Slug   string
}

// String renders the identity the way users write it
func (id Identity) String() string {
	if id.Scheme == SchemeSlug {
		return id.Owner + "/" + id.Slug
	}
	return id.Host + "/" + id.Owner + "/" + id.Repo
}

// URL returns the https URL of the repository for repo-scheme identities
func (id Identity) URL() string {
	if id.Scheme == SchemeSlug {
		return ""
	}
	return "https://" + id.String()
}

// ParseURL decomposes a repository URL into host, owner and repo.
// Credentials are discarded, empty path segments ignored and a trailing
// ".git" removed from the repo name. At least two path segments are required.
func ParseURL(raw string) (Identity, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	u.User = nil
	if u.Host == "" {
		return Identity{}, fmt.Errorf("%w: missing host in %q", ErrInvalidURL, raw)
	}

	parts := splitPath(u.Path)
	if len(parts) < 2 {
		return Identity{}, fmt.Errorf("%w: expected owner and repo in %q", ErrInvalidURL, raw)
	}

	repo := strings.TrimSuffix(parts[len(parts)-1], ".git")
	if repo == "" {
		return Identity{}, fmt.Errorf("%w: empty repo in %q", ErrInvalidURL, raw)
	}

	return Identity{
		Scheme: SchemeRepo,
		Host:   strings.ToLower(u.Host),
		Owner:  strings.Join(parts[:len(parts)-1], "/"),
		Repo:   repo,
		Slug:   Slug(repo),
	}, nil
}

// ParseIdentifier parses a dependency identifier. Accepted forms:
//
//	https://github.com/acme/widgets
//	github.com/acme/widgets
//	acme/widgets            (owner/slug)
func ParseIdentifier(raw string) (Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identity{}, fmt.Errorf("%w: empty identifier", ErrInvalidURL)
	}
	if strings.Contains(raw, "://") {
		return ParseURL(raw)
	}

	parts := splitPath(raw)
	switch {
	case len(parts) >= 3 && strings.Contains(parts[0], "."):
		return ParseURL("https://" + raw)
	case len(parts) == 2:
		slug := Slug(parts[1])
		if slug == "" {
			return Identity{}, fmt.Errorf("%w: empty slug in %q", ErrInvalidURL, raw)
		}
		return Identity{Scheme: SchemeSlug, Owner: parts[0], Slug: slug}, nil
	default:
		return Identity{}, fmt.Errorf("%w: unrecognised identifier %q", ErrInvalidURL, raw)
	}
}

func splitPath(p string) []string {
	var parts []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}
