package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/application/dto"
	"github.com/bravo68web/odinpkg/internal/application/service"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
)

const (
	browseLimit = 100
	searchLimit = 25
)

// CatalogHandler handles browsing, search and readme previews
type CatalogHandler struct {
	catalog *service.CatalogService
	readme  *service.ReadmeService
}

// NewCatalogHandler creates a new CatalogHandler instance
func NewCatalogHandler(catalog *service.CatalogService, readme *service.ReadmeService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, readme: readme}
}

// Browse handles GET /api/v1/browse
func (h *CatalogHandler) Browse(c *gin.Context) {
	limit, offset := pageParams(c, browseLimit, browseLimit)
	page, err := h.catalog.Browse(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Search handles GET /api/v1/search?q=
func (h *CatalogHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		respondError(c, apperrors.BadRequest("q query parameter is required", apperrors.ErrInvalidInput))
		return
	}
	limit, offset := pageParams(c, searchLimit, browseLimit)
	page, err := h.catalog.Search(c.Request.Context(), q, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// PreviewReadme handles POST /api/v1/readme/preview
func (h *CatalogHandler) PreviewReadme(c *gin.Context) {
	var req dto.ReadmePreviewRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Contents == "" && req.URL == "" {
		respondError(c, apperrors.BadRequest("contents or url is required", apperrors.ErrInvalidInput))
		return
	}

	html, err := h.readme.Preview(c.Request.Context(), req.Contents, req.URL)
	if err != nil {
		respondError(c, apperrors.Validation([]string{"Readme Parse Error: " + err.Error()}))
		return
	}
	c.JSON(http.StatusOK, dto.ReadmePreviewResponse{HTML: html})
}
