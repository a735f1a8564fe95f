package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/domain/models"
)

// CreateTokenRequest represents a request to mint a CLI token
type CreateTokenRequest struct {
	Name      string `json:"name"`
	ExpiresIn *int   `json:"expires_in,omitempty"` // days until expiry, nil = never
}

// TokenInfo represents a CLI token without its value
type TokenInfo struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Hint        string     `json:"hint"`
	Revoked     bool       `json:"revoked"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	LastTouched *time.Time `json:"last_used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewTokenInfo converts a token model
func NewTokenInfo(t *models.ApiToken) TokenInfo {
	return TokenInfo{
		ID:          t.ID,
		Name:        t.Name,
		Hint:        t.Hint,
		Revoked:     t.Revoked,
		ExpiresAt:   t.ExpiresAt,
		LastTouched: t.LastTouched,
		CreatedAt:   t.CreatedAt,
	}
}

// CreateTokenResponse carries the raw token. It is only ever shown here.
type CreateTokenResponse struct {
	Token   string    `json:"token"`
	Info    TokenInfo `json:"token_info"`
	Message string    `json:"message"`
}

// ListTokensResponse represents the tokens of a user
type ListTokensResponse struct {
	Tokens []TokenInfo `json:"tokens"`
	Total  int         `json:"total"`
}
