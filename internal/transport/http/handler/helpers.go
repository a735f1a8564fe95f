package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/domain/models"
	"github.com/bravo68web/odinpkg/internal/transport/http/httperror"
	"github.com/bravo68web/odinpkg/internal/transport/http/middleware"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
)

func respondError(c *gin.Context, err error) {
	httperror.Respond(c, err)
}

// bindJSON decodes the request body into req, responding 400 on failure
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, apperrors.BadRequest("Invalid request body", err))
		return false
	}
	return true
}

// uuidParam parses the named path parameter, responding 400 on failure
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, apperrors.BadRequest("Invalid "+name, apperrors.ErrInvalidInput))
		return uuid.Nil, false
	}
	return id, true
}

// targetID reads the resource id from the path, or from a {"id": ...} body
func targetID(c *gin.Context) (uuid.UUID, bool) {
	if c.Param("id") != "" {
		return uuidParam(c, "id")
	}
	var body struct {
		ID string `json:"id"`
	}
	if !bindJSON(c, &body) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(body.ID)
	if err != nil {
		respondError(c, apperrors.BadRequest("Invalid id", apperrors.ErrInvalidInput))
		return uuid.Nil, false
	}
	return id, true
}

// pageParams reads limit and offset query parameters
func pageParams(c *gin.Context, defaultLimit, maxLimit int) (int, int) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset, err := strconv.Atoi(c.Query("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// currentUser returns the authenticated user, responding 401 when there is none
func currentUser(c *gin.Context) (*models.User, bool) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		respondError(c, apperrors.Unauthorized("authentication required", apperrors.ErrInvalidCredentials))
		return nil, false
	}
	return user, true
}
