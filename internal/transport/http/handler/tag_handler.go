package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/application/dto"
	"github.com/bravo68web/odinpkg/internal/application/service"
)

// TagHandler handles community tags
type TagHandler struct {
	tags *service.TagService
}

// NewTagHandler creates a new TagHandler instance
func NewTagHandler(tags *service.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

// List handles GET /api/v1/tags?q=&limit=
func (h *TagHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	tags, err := h.tags.ListTags(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTagUsageInfos(tags))
}

// ForPackage handles GET /api/v1/packages/:id/tags
func (h *TagHandler) ForPackage(c *gin.Context) {
	packageID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	tags, err := h.tags.PackageTags(c.Request.Context(), packageID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTagInfos(tags))
}

// Add handles POST /api/v1/packages/:id/tags
func (h *TagHandler) Add(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	packageID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.AddTagRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := h.tags.AddTag(c.Request.Context(), user, packageID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.TagInfo(*tag))
}

// Vote handles POST /api/v1/packages/:id/tags/:tag/vote
func (h *TagHandler) Vote(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	packageID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	tagID, ok := uuidParam(c, "tag")
	if !ok {
		return
	}
	var req dto.VoteTagRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.tags.VoteTag(c.Request.Context(), user, packageID, tagID, req.Vote)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTagVoteResponse(result))
}
