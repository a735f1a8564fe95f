package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account created on first OAuth login and refreshed on every later one
type User struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Login            string    `json:"login" gorm:"uniqueIndex;not null;size:255"`
	Provider         string    `json:"provider" gorm:"not null;size:32;default:'github'"`
	ProviderSubject  string    `json:"-" gorm:"size:255;index"`
	AccessCredential string    `json:"-" gorm:"type:text"` // provider access token, matched by session fingerprint
	AvatarURL        string    `json:"avatar_url" gorm:"type:text"`
	IsModerator      bool      `json:"is_moderator" gorm:"default:false"`
	Banned           bool      `json:"banned" gorm:"default:false"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}
