package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/application/dto"
	"github.com/bravo68web/odinpkg/internal/application/service"
	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
)

// FlagHandler handles package reports and their moderation
type FlagHandler struct {
	flags *service.FlagService
}

// NewFlagHandler creates a new FlagHandler instance
func NewFlagHandler(flags *service.FlagService) *FlagHandler {
	return &FlagHandler{flags: flags}
}

// Create handles POST /api/v1/packages/:id/flags
func (h *FlagHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	packageID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreateFlagRequest
	if !bindJSON(c, &req) {
		return
	}

	flag, err := h.flags.CreateFlag(c.Request.Context(), user, packageID, req.Reason, req.Details)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewFlagInfo(flag))
}

// Mine handles GET /api/v1/flags/mine
func (h *FlagHandler) Mine(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	flags, err := h.flags.MyFlags(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListFlagsResponse{Flags: dto.NewFlagInfos(flags), Total: int64(len(flags))})
}

// Delete handles DELETE /api/v1/flags/:id
func (h *FlagHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.flags.DeleteFlag(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Flag withdrawn"})
}

// List handles GET /api/v1/flags?status=&package_id=
func (h *FlagHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	limit, offset := pageParams(c, 50, 200)
	filter := repository.FlagFilter{
		Status: models.FlagStatus(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("package_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, apperrors.BadRequest("Invalid package_id", apperrors.ErrInvalidInput))
			return
		}
		filter.PackageID = &id
	}

	flags, total, err := h.flags.ListFlags(c.Request.Context(), user, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListFlagsResponse{Flags: dto.NewFlagInfos(flags), Total: total})
}

// Stats handles GET /api/v1/flags/stats
func (h *FlagHandler) Stats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := h.flags.Stats(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Resolve handles PATCH /api/v1/flags/:id
func (h *FlagHandler) Resolve(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.ResolveFlagRequest
	if !bindJSON(c, &req) {
		return
	}

	flag, err := h.flags.ResolveFlag(c.Request.Context(), user, id, models.FlagStatus(req.Status), req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewFlagInfo(flag))
}
