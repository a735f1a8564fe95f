package models

import (
	"time"

	"github.com/google/uuid"
)

// ApiToken is a long-lived CLI credential. Only its hash is stored.
type ApiToken struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	Name        string     `json:"name" gorm:"not null;size:255"`
	TokenHash   string     `json:"-" gorm:"not null;uniqueIndex;size:64"`
	Hint        string     `json:"hint" gorm:"size:16"`
	Revoked     bool       `json:"revoked" gorm:"default:false"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	LastTouched *time.Time `json:"last_touched,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName returns the table name for the ApiToken model
func (ApiToken) TableName() string {
	return "api_tokens"
}

// Expired reports whether the token is past its expiry
func (t *ApiToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && t.ExpiresAt.Before(now)
}
