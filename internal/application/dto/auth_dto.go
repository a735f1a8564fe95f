package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/domain/models"
)

// UserInfo represents basic user information in responses
type UserInfo struct {
	ID          uuid.UUID `json:"id"`
	Login       string    `json:"login"`
	Provider    string    `json:"provider"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	IsModerator bool      `json:"is_moderator"`
	Banned      bool      `json:"banned,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewUserInfo converts a user model
func NewUserInfo(u *models.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Login:       u.Login,
		Provider:    u.Provider,
		AvatarURL:   u.AvatarURL,
		IsModerator: u.IsModerator,
		Banned:      u.Banned,
		CreatedAt:   u.CreatedAt,
	}
}

// LoginResponse is returned by the login callbacks when no frontend is configured
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
	Message   string    `json:"message"`
}

// ProvidersResponse lists the login providers the server offers
type ProvidersResponse struct {
	GitHub   bool   `json:"github"`
	OIDC     bool   `json:"oidc"`
	OIDCName string `json:"oidc_name,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// MessageResponse represents a plain confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// IDRequest carries the id of the resource to act on in a request body
type IDRequest struct {
	ID uuid.UUID `json:"id" binding:"required"`
}
