package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/application/service"
	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
)

// PackageManifest describes a package the way publishers write it in odin-pkg.yaml
type PackageManifest struct {
	URL          string            `json:"url" yaml:"url"`
	Readme       string            `json:"readme" yaml:"readme"`
	Description  string            `json:"description" yaml:"description"`
	Version      string            `json:"version" yaml:"version"`
	License      string            `json:"license" yaml:"license"`
	Keywords     []string          `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// PublishRequest is the body of POST /api/v1/packages
type PublishRequest struct {
	// Token is a CLI token for clients that cannot set headers
	Token          string          `json:"token,omitempty"`
	SizeKB         int             `json:"size_kb"`
	Compiler       string          `json:"compiler"`
	CommitHash     string          `json:"commit_hash"`
	ReadmeContents string          `json:"readme_contents,omitempty"`
	ReadmeURL      string          `json:"readme_url,omitempty"`
	Insecure       bool            `json:"insecure,omitempty"`
	UserData       PackageManifest `json:"userData"`
}

// ToService converts the request for the publish service
func (r *PublishRequest) ToService() *service.PublishRequest {
	return &service.PublishRequest{
		URL:            r.UserData.URL,
		Version:        r.UserData.Version,
		Description:    r.UserData.Description,
		License:        r.UserData.License,
		Readme:         r.UserData.Readme,
		ReadmeContents: r.ReadmeContents,
		ReadmeURL:      r.ReadmeURL,
		Compiler:       r.Compiler,
		CommitHash:     r.CommitHash,
		SizeKB:         r.SizeKB,
		Insecure:       r.Insecure,
		Keywords:       r.UserData.Keywords,
		Dependencies:   r.UserData.Dependencies,
	}
}

// PublishResponse is returned on a successful publish
type PublishResponse struct {
	Message   string    `json:"message"`
	PackageID uuid.UUID `json:"package_id"`
	VersionID uuid.UUID `json:"version_id"`
	Version   string    `json:"version"`
}

// UpdatePackageRequest edits package metadata. Omitted fields are unchanged.
type UpdatePackageRequest struct {
	Description *string  `json:"description"`
	Keywords    []string `json:"keywords"`
}

// PackageInfo represents a package in responses
type PackageInfo struct {
	ID          uuid.UUID `json:"id"`
	Host        string    `json:"host"`
	Owner       string    `json:"owner"`
	Repo        string    `json:"repo"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Keywords    []string  `json:"keywords"`
	ReadmeHTML  string    `json:"readme_html,omitempty"`
	OwnerLogin  string    `json:"owner_login,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewPackageInfo converts a package model
func NewPackageInfo(p *models.Package) PackageInfo {
	info := PackageInfo{
		ID:          p.ID,
		Host:        p.HostName,
		Owner:       p.OwnerName,
		Repo:        p.RepoName,
		Slug:        p.Slug,
		Description: p.Description,
		URL:         p.URL,
		Keywords:    []string(p.Keywords),
		ReadmeHTML:  p.ReadmeHTML,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if info.Keywords == nil {
		info.Keywords = []string{}
	}
	if p.Owner != nil {
		info.OwnerLogin = p.Owner.Login
	}
	return info
}

// VersionInfo represents a version in responses
type VersionInfo struct {
	ID          uuid.UUID `json:"id"`
	PackageID   uuid.UUID `json:"package_id"`
	Version     string    `json:"version"`
	License     string    `json:"license"`
	SizeKB      int       `json:"size_kb"`
	Compiler    string    `json:"compiler"`
	CommitHash  string    `json:"commit_hash"`
	Insecure    bool      `json:"insecure"`
	PublishedBy uuid.UUID `json:"published_by"`
	CreatedAt   time.Time `json:"created_at"`
	Referenced  *bool     `json:"referenced,omitempty"`
}

// NewVersionInfo converts a version model
func NewVersionInfo(v *models.Version) VersionInfo {
	return VersionInfo{
		ID:          v.ID,
		PackageID:   v.PackageID,
		Version:     v.Version,
		License:     v.License,
		SizeKB:      v.SizeKB,
		Compiler:    v.Compiler,
		CommitHash:  v.CommitHash,
		Insecure:    v.Insecure,
		PublishedBy: v.PublishedBy,
		CreatedAt:   v.CreatedAt,
	}
}

func newVersionInfos(versions []*models.Version) []VersionInfo {
	out := make([]VersionInfo, 0, len(versions))
	for _, v := range versions {
		out = append(out, NewVersionInfo(v))
	}
	return out
}

// PackageDetailsResponse is a package with its versions, newest first
type PackageDetailsResponse struct {
	Package  PackageInfo   `json:"package"`
	Versions []VersionInfo `json:"versions"`
}

// NewPackageDetailsResponse converts catalog package details
func NewPackageDetailsResponse(d *service.PackageDetails) PackageDetailsResponse {
	return PackageDetailsResponse{
		Package:  NewPackageInfo(d.Package),
		Versions: newVersionInfos(d.Versions),
	}
}

// VersionDetailsResponse is a version with its package and direct dependencies
type VersionDetailsResponse struct {
	Version      VersionInfo   `json:"version"`
	Package      *PackageInfo  `json:"package,omitempty"`
	Dependencies []VersionInfo `json:"dependencies"`
}

// NewVersionDetailsResponse converts catalog version details
func NewVersionDetailsResponse(d *service.VersionDetails) VersionDetailsResponse {
	resp := VersionDetailsResponse{
		Version:      NewVersionInfo(d.Version),
		Dependencies: newVersionInfos(d.Dependencies),
	}
	if d.Version.Package != nil {
		pkg := NewPackageInfo(d.Version.Package)
		resp.Package = &pkg
	}
	return resp
}

// OwnedPackageResponse is a package listed for its owner
type OwnedPackageResponse struct {
	Package  PackageInfo   `json:"package"`
	Versions []VersionInfo `json:"versions"`
}

// NewOwnedPackagesResponse converts an owner listing
func NewOwnedPackagesResponse(owned []service.OwnedPackage) []OwnedPackageResponse {
	out := make([]OwnedPackageResponse, 0, len(owned))
	for _, o := range owned {
		entry := OwnedPackageResponse{
			Package:  NewPackageInfo(o.Package),
			Versions: make([]VersionInfo, 0, len(o.Versions)),
		}
		for _, v := range o.Versions {
			info := NewVersionInfo(v.Version)
			referenced := v.Referenced
			info.Referenced = &referenced
			entry.Versions = append(entry.Versions, info)
		}
		out = append(out, entry)
	}
	return out
}

// DependenciesResponse is the flattened dependency closure of a version
type DependenciesResponse struct {
	Dependencies []repository.FlatDependency `json:"dependencies"`
	Licenses     []repository.LicenseGroup   `json:"licenses"`
}

// NewDependenciesResponse converts a dependency report
func NewDependenciesResponse(r *service.DependencyReport) DependenciesResponse {
	resp := DependenciesResponse{Dependencies: r.Dependencies, Licenses: r.Licenses}
	if resp.Dependencies == nil {
		resp.Dependencies = []repository.FlatDependency{}
	}
	if resp.Licenses == nil {
		resp.Licenses = []repository.LicenseGroup{}
	}
	return resp
}

// ReadmePreviewRequest asks for markdown, inline or at a URL, to be rendered
type ReadmePreviewRequest struct {
	Contents string `json:"contents"`
	URL      string `json:"url"`
}

// ReadmePreviewResponse carries rendered HTML
type ReadmePreviewResponse struct {
	HTML string `json:"html"`
}
