package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// FlagStatus is the moderation state of a flag
type FlagStatus string

const (
	FlagPending   FlagStatus = "pending"
	FlagResolved  FlagStatus = "resolved"
	FlagDismissed FlagStatus = "dismissed"
)

// FlagReasons lists the reasons a package can be reported for
var FlagReasons = []string{
	"Malicious code",
	"Copyright violation",
	"Inappropriate content",
	"Broken/non-functional",
	"Spam",
	"Other",
}

// ValidFlagReason reports whether reason is one of FlagReasons
func ValidFlagReason(reason string) bool {
	return slices.Contains(FlagReasons, reason)
}

// Flag is a moderation report raised against a package
type Flag struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PackageID      uuid.UUID  `json:"package_id" gorm:"type:uuid;not null;index"`
	Package        *Package   `json:"package,omitempty" gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE"`
	ReporterID     uuid.UUID  `json:"reporter_id" gorm:"type:uuid;not null;index"`
	Reporter       *User      `json:"reporter,omitempty" gorm:"foreignKey:ReporterID"`
	Reason         string     `json:"reason" gorm:"not null;size:64"`
	Details        string     `json:"details,omitempty" gorm:"type:text"`
	Status         FlagStatus `json:"status" gorm:"not null;size:16;default:'pending';index"`
	ResolvedBy     *uuid.UUID `json:"resolved_by,omitempty" gorm:"type:uuid"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	ResolutionNote string     `json:"resolution_note,omitempty" gorm:"type:text"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName returns the table name for the Flag model
func (Flag) TableName() string {
	return "flags"
}
