package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/application/dto"
	"github.com/bravo68web/odinpkg/internal/application/service"
)

// TokenHandler handles CLI token HTTP requests
type TokenHandler struct {
	tokenService *service.TokenService
}

// NewTokenHandler creates a new TokenHandler instance
func NewTokenHandler(tokenService *service.TokenService) *TokenHandler {
	return &TokenHandler{
		tokenService: tokenService,
	}
}

// CreateToken handles POST /api/v1/tokens
func (h *TokenHandler) CreateToken(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	var expiresAt *time.Time
	if req.ExpiresIn != nil && *req.ExpiresIn > 0 {
		t := time.Now().AddDate(0, 0, *req.ExpiresIn)
		expiresAt = &t
	}

	resp, err := h.tokenService.CreateToken(c.Request.Context(), service.CreateTokenRequest{
		UserID:    user.ID,
		Name:      req.Name,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateTokenResponse{
		Token:   resp.RawToken,
		Info:    dto.NewTokenInfo(resp.Token),
		Message: "Token created successfully",
	})
}

// ListTokens handles GET /api/v1/tokens
func (h *TokenHandler) ListTokens(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	tokens, err := h.tokenService.ListTokens(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	infos := make([]dto.TokenInfo, 0, len(tokens))
	for _, token := range tokens {
		infos = append(infos, dto.NewTokenInfo(token))
	}
	c.JSON(http.StatusOK, dto.ListTokensResponse{Tokens: infos, Total: len(infos)})
}

// RevokeToken handles DELETE /api/v1/tokens/:id
func (h *TokenHandler) RevokeToken(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.tokenService.RevokeToken(c.Request.Context(), user.ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Token revoked"})
}
