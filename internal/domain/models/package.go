package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bravo68web/odinpkg/pkg/pkgid"
)

// Package is a publishable unit addressed by the repository it lives in
type Package struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	HostName    string         `json:"host_name" gorm:"not null;size:255;uniqueIndex:idx_package_identity"`
	OwnerName   string         `json:"owner_name" gorm:"not null;size:255;uniqueIndex:idx_package_identity"`
	RepoName    string         `json:"repo_name" gorm:"not null;size:255;uniqueIndex:idx_package_identity"`
	Slug        string         `json:"slug" gorm:"not null;size:255;index"`
	Description string         `json:"description" gorm:"type:text;not null"`
	ReadmeHTML  string         `json:"readme_html,omitempty" gorm:"column:readme_html;type:text"`
	URL         string         `json:"url" gorm:"type:text"`
	Keywords    pq.StringArray `json:"keywords" gorm:"type:text[]"`
	OwnerID     uuid.UUID      `json:"owner_id" gorm:"type:uuid;not null;index"`
	Owner       *User          `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Versions    []Version      `json:"versions,omitempty" gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName returns the table name for the Package model
func (Package) TableName() string {
	return "packages"
}

// Identity returns the canonical identity of the package
func (p *Package) Identity() pkgid.Identity {
	return pkgid.Identity{
		Scheme: pkgid.SchemeRepo,
		Host:   p.HostName,
		Owner:  p.OwnerName,
		Repo:   p.RepoName,
		Slug:   p.Slug,
	}
}

// FullName returns host/owner/repo
func (p *Package) FullName() string {
	return p.Identity().String()
}
