package models

import (
	"time"

	"github.com/google/uuid"
)

// Bookmark records that a user saved a package
type Bookmark struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	PackageID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Package   *Package  `gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for the Bookmark model
func (Bookmark) TableName() string {
	return "bookmarks"
}
