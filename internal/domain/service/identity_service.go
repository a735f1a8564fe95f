package service

import (
	"context"
	"strings"

	"github.com/bravo68web/odinpkg/internal/domain/models"
)

// CredentialKind tags the shape of a bearer credential
type CredentialKind int

const (
	// CredentialSession is a signed session issued at login
	CredentialSession CredentialKind = iota
	// CredentialToken is a CLI token minted by the user
	CredentialToken
)

// TokenPrefix starts every raw CLI token
const TokenPrefix = "odin_"

// Credential is a bearer credential presented by a caller
type Credential struct {
	Kind  CredentialKind
	Value string
}

// BearerCredential classifies a raw bearer value
func BearerCredential(raw string) Credential {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, TokenPrefix) {
		return Credential{Kind: CredentialToken, Value: raw}
	}
	return Credential{Kind: CredentialSession, Value: raw}
}

// IdentityService maps a credential to the user it belongs to
type IdentityService interface {
	// Resolve returns the user owning the credential. Unknown or expired
	// credentials fail with ErrInvalidCredentials, revoked tokens with
	// ErrTokenRevoked, both as Unauthorized errors.
	Resolve(ctx context.Context, cred Credential) (*models.User, error)
}
