package models

import (
	"time"

	"github.com/google/uuid"
)

// Version is an immutable release of a package
type Version struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PackageID   uuid.UUID `json:"package_id" gorm:"type:uuid;not null;uniqueIndex:idx_package_version"`
	Package     *Package  `json:"package,omitempty" gorm:"foreignKey:PackageID"`
	Version     string    `json:"version" gorm:"not null;size:255;uniqueIndex:idx_package_version"`
	License     string    `json:"license" gorm:"not null;size:255"`
	SizeKB      int       `json:"size_kb" gorm:"column:size_kb;default:0"`
	Compiler    string    `json:"compiler" gorm:"not null;size:255"`
	CommitHash  string    `json:"commit_hash" gorm:"not null;size:64"`
	Insecure    bool      `json:"insecure" gorm:"default:false"`
	PublishedBy uuid.UUID `json:"published_by" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName returns the table name for the Version model
func (Version) TableName() string {
	return "versions"
}

// VersionDependency is a directed edge from a version to a version it requires
type VersionDependency struct {
	VersionID   uuid.UUID `json:"version_id" gorm:"type:uuid;primaryKey"`
	DependsOnID uuid.UUID `json:"depends_on_id" gorm:"type:uuid;primaryKey;index"`
	DependsOn   *Version  `json:"depends_on,omitempty" gorm:"foreignKey:DependsOnID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for the VersionDependency model
func (VersionDependency) TableName() string {
	return "version_dependencies"
}
