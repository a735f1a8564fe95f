package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
)

const sessionIssuer = "odinpkg"

// SessionClaims represents the claims in the session JWT
type SessionClaims struct {
	jwt.RegisteredClaims
	Login       string `json:"login"`
	Fingerprint string `json:"fp"`
}

// SessionManager signs and verifies session JWTs
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionManager creates a session manager signing with secret
func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a session for the user. The session is bound to the user's
// current provider credential and stops validating once it changes.
func (m *SessionManager) Issue(user *models.User) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
		},
		Login:       user.Login,
		Fingerprint: credentialFingerprint(user.AccessCredential),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies a session JWT and returns its claims
func (m *SessionManager) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid session token", fmt.Errorf("%w: %v", apperrors.ErrInvalidCredentials, err))
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Login == "" {
		return nil, apperrors.Unauthorized("invalid session token claims", apperrors.ErrInvalidCredentials)
	}
	return claims, nil
}

// credentialFingerprint hashes a provider credential for embedding in sessions
func credentialFingerprint(credential string) string {
	sum := sha256.Sum256([]byte("session:" + credential))
	return hex.EncodeToString(sum[:])
}

// generateRandomState generates a random state string for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
