package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/service"
	"github.com/bravo68web/odinpkg/internal/transport/http/httperror"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
	"github.com/bravo68web/odinpkg/pkg/logger"
)

// SessionCookie holds the session credential of browser clients
const SessionCookie = "odin_session"

// ContextKey is a type for context keys
type ContextKey string

const (
	// UserContextKey is the key for storing user in context
	UserContextKey ContextKey = "user"
)

// AuthMiddleware resolves request credentials to users
type AuthMiddleware struct {
	identity service.IdentityService
	log      *logger.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance
func NewAuthMiddleware(identity service.IdentityService) *AuthMiddleware {
	return &AuthMiddleware{
		identity: identity,
		log:      logger.Get().WithFields(logger.Component("auth-middleware")),
	}
}

// Authenticate attaches the caller when a valid credential is present and
// lets anonymous requests through
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		cred, ok := Credential(c)
		if ok {
			user, err := m.identity.Resolve(c.Request.Context(), cred)
			if err == nil {
				SetUser(c, user)
			} else {
				m.log.Debug("ignoring invalid optional credential", logger.Path(c.Request.URL.Path), logger.Error(err))
			}
		}
		c.Next()
	}
}

// RequireAuth rejects requests without a valid credential
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authenticate(c) {
			return
		}
		c.Next()
	}
}

// RequireModerator rejects requests from anyone but moderators
func (m *AuthMiddleware) RequireModerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authenticate(c) {
			return
		}
		user := GetUserFromContext(c)
		if !user.IsModerator {
			m.log.Warn("non-moderator attempted moderation",
				logger.Login(user.Login),
				logger.Path(c.Request.URL.Path),
				logger.Method(c.Request.Method),
			)
			httperror.Abort(c, apperrors.Forbidden("moderator access required", apperrors.ErrForbidden))
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) bool {
	if GetUserFromContext(c) != nil {
		return true
	}

	cred, ok := Credential(c)
	if !ok {
		m.log.Debug("authentication required but not provided",
			logger.Path(c.Request.URL.Path),
			logger.ClientIP(c.ClientIP()),
		)
		httperror.Abort(c, apperrors.Unauthorized("authentication required", apperrors.ErrInvalidCredentials))
		return false
	}

	user, err := m.identity.Resolve(c.Request.Context(), cred)
	if err != nil {
		m.log.Debug("credential rejected",
			logger.Path(c.Request.URL.Path),
			logger.ClientIP(c.ClientIP()),
			logger.Error(err),
		)
		httperror.Abort(c, err)
		return false
	}

	SetUser(c, user)
	return true
}

// Credential extracts the caller's credential. A bearer header wins over the
// session cookie.
func Credential(c *gin.Context) (service.Credential, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		if raw, ok := strings.CutPrefix(header, "Bearer "); ok && strings.TrimSpace(raw) != "" {
			return service.BearerCredential(raw), true
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return service.Credential{Kind: service.CredentialSession, Value: cookie}, true
	}
	return service.Credential{}, false
}

// SetUser attaches an authenticated user to the request
func SetUser(c *gin.Context, user *models.User) {
	c.Set(string(UserContextKey), user)
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(c *gin.Context) *models.User {
	if user, exists := c.Get(string(UserContextKey)); exists {
		if u, ok := user.(*models.User); ok {
			return u
		}
	}
	return nil
}
