package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/application/dto"
	"github.com/bravo68web/odinpkg/internal/application/service"
	"github.com/bravo68web/odinpkg/internal/config"
	"github.com/bravo68web/odinpkg/internal/transport/http/middleware"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
	"github.com/bravo68web/odinpkg/pkg/logger"
)

const (
	// Cookie carrying the OAuth state between login and callback
	oauthStateCookie    = "odin_oauth_state"
	oauthStateCookieExp = 10 * time.Minute
)

// AuthHandler handles login, logout and the current user
type AuthHandler struct {
	authService *service.AuthService
	config      *config.AuthConfig
	secure      bool
	log         *logger.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(authService *service.AuthService, cfg *config.AuthConfig, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		config:      cfg,
		secure:      secureCookies,
		log:         logger.Get().WithFields(logger.Component("auth-handler")),
	}
}

// Providers handles GET /api/v1/auth/providers
func (h *AuthHandler) Providers(c *gin.Context) {
	resp := dto.ProvidersResponse{
		GitHub: h.authService.GitHubEnabled(),
		OIDC:   h.authService.OIDCEnabled(),
	}
	if resp.OIDC {
		resp.OIDCName = h.config.OIDC.Name
	}
	c.JSON(http.StatusOK, resp)
}

// GitHubLogin handles GET /api/v1/auth/github/login
func (h *AuthHandler) GitHubLogin(c *gin.Context) {
	h.redirect(c, h.authService.GitHubAuthURL)
}

// OIDCLogin handles GET /api/v1/auth/oidc/login
func (h *AuthHandler) OIDCLogin(c *gin.Context) {
	h.redirect(c, h.authService.OIDCAuthURL)
}

func (h *AuthHandler) redirect(c *gin.Context, authURL func() (string, string, error)) {
	url, state, err := authURL()
	if err != nil {
		respondError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, int(oauthStateCookieExp.Seconds()), "/", "", h.secure, true)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GitHubCallback handles GET /api/v1/auth/github/callback
func (h *AuthHandler) GitHubCallback(c *gin.Context) {
	h.callback(c, h.authService.GitHubCallback)
}

// OIDCCallback handles GET /api/v1/auth/oidc/callback
func (h *AuthHandler) OIDCCallback(c *gin.Context) {
	h.callback(c, h.authService.OIDCCallback)
}

type callbackFunc func(ctx context.Context, code, state, expectedState string) (*service.LoginResult, error)

func (h *AuthHandler) callback(c *gin.Context, complete callbackFunc) {
	if errParam := c.Query("error"); errParam != "" {
		h.log.Warn("identity provider returned error",
			logger.String("error", errParam),
			logger.String("description", c.Query("error_description")),
		)
		respondError(c, apperrors.Unauthorized("Authentication failed at identity provider", apperrors.ErrInvalidCredentials))
		return
	}

	code := c.Query("code")
	if code == "" {
		respondError(c, apperrors.BadRequest("Missing authorization code", apperrors.ErrInvalidInput))
		return
	}
	expected, err := c.Cookie(oauthStateCookie)
	if err != nil {
		respondError(c, apperrors.BadRequest("Missing or expired state cookie", apperrors.ErrInvalidInput))
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secure, true)

	result, err := complete(c.Request.Context(), code, c.Query("state"), expected)
	if err != nil {
		respondError(c, err)
		return
	}

	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, result.Session, maxAge, "/", "", h.secure, true)

	if h.config.FrontendURL != "" {
		c.Redirect(http.StatusTemporaryRedirect, h.config.FrontendURL)
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     result.Session,
		ExpiresAt: result.ExpiresAt,
		User:      dto.NewUserInfo(result.User),
		Message:   "Authentication successful",
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secure, true)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewUserInfo(user))
}
