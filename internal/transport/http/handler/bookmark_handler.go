package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/application/dto"
	"github.com/bravo68web/odinpkg/internal/application/service"
	"github.com/bravo68web/odinpkg/internal/transport/http/middleware"
)

// BookmarkHandler handles saved packages
type BookmarkHandler struct {
	bookmarks *service.BookmarkService
}

// NewBookmarkHandler creates a new BookmarkHandler instance
func NewBookmarkHandler(bookmarks *service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks}
}

// Status handles GET /api/v1/packages/:id/bookmark
func (h *BookmarkHandler) Status(c *gin.Context) {
	packageID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	status, err := h.bookmarks.Status(c.Request.Context(), middleware.GetUserFromContext(c), packageID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBookmarkStatusResponse(status))
}

// Add handles PUT /api/v1/packages/:id/bookmark
func (h *BookmarkHandler) Add(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	packageID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	status, err := h.bookmarks.Bookmark(c.Request.Context(), user, packageID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBookmarkStatusResponse(status))
}

// Remove handles DELETE /api/v1/packages/:id/bookmark
func (h *BookmarkHandler) Remove(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	packageID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	status, err := h.bookmarks.Unbookmark(c.Request.Context(), user, packageID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBookmarkStatusResponse(status))
}

// Mine handles GET /api/v1/bookmarks
func (h *BookmarkHandler) Mine(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	packages, err := h.bookmarks.MyBookmarks(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPackageInfos(packages))
}
