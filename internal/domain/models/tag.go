package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a community label that users attach to packages
type Tag struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:64;uniqueIndex"`
	AddedBy   uuid.UUID `json:"added_by" gorm:"type:uuid;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName returns the table name for the Tag model
func (Tag) TableName() string {
	return "tags"
}

// PackageTag puts a tag on a package. Score is the sum of its votes.
type PackageTag struct {
	PackageID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Package   *Package  `gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE"`
	TagID     uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Tag       *Tag      `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
	Score     int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for the PackageTag model
func (PackageTag) TableName() string {
	return "package_tags"
}

// TagVote is one user's +1 or -1 on a tag of a package
type TagVote struct {
	PackageID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Package   *Package  `gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE"`
	TagID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Tag       *Tag      `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Value     int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for the TagVote model
func (TagVote) TableName() string {
	return "tag_votes"
}
