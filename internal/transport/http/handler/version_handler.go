package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/application/dto"
	"github.com/bravo68web/odinpkg/internal/application/service"
)

// VersionHandler handles version reads and deletes
type VersionHandler struct {
	publish *service.PublishService
	catalog *service.CatalogService
}

// NewVersionHandler creates a new VersionHandler instance
func NewVersionHandler(publish *service.PublishService, catalog *service.CatalogService) *VersionHandler {
	return &VersionHandler{publish: publish, catalog: catalog}
}

// Get handles GET /api/v1/versions/:id
func (h *VersionHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	details, err := h.catalog.VersionDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewVersionDetailsResponse(details))
}

// Dependencies handles GET /api/v1/versions/:id/dependencies
func (h *VersionHandler) Dependencies(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	report, err := h.catalog.Dependencies(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewDependenciesResponse(report))
}

// Readme handles GET /api/v1/versions/:id/readme.md
func (h *VersionHandler) Readme(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	source, err := h.publish.ReadmeSource(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(source))
}

// Delete handles DELETE /api/v1/versions/:id and DELETE /api/v1/versions
func (h *VersionHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := targetID(c)
	if !ok {
		return
	}

	if err := h.publish.DeleteVersion(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Version deleted"})
}
