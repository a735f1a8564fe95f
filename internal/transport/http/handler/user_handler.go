package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/application/dto"
	"github.com/bravo68web/odinpkg/internal/application/service"
)

// UserHandler handles the signed-in user's own listings
type UserHandler struct {
	catalog *service.CatalogService
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(catalog *service.CatalogService) *UserHandler {
	return &UserHandler{catalog: catalog}
}

// MyPackages handles GET /api/v1/users/me/packages. Versions that other
// versions depend on are marked referenced, since they cannot be deleted.
func (h *UserHandler) MyPackages(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	owned, err := h.catalog.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOwnedPackagesResponse(owned))
}
