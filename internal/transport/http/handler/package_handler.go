package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/application/dto"
	"github.com/bravo68web/odinpkg/internal/application/service"
	domainservice "github.com/bravo68web/odinpkg/internal/domain/service"
	"github.com/bravo68web/odinpkg/internal/transport/http/middleware"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
	"github.com/bravo68web/odinpkg/pkg/logger"
)

// PackageHandler handles publishing and package lookups
type PackageHandler struct {
	publish  *service.PublishService
	catalog  *service.CatalogService
	identity domainservice.IdentityService
	log      *logger.Logger
}

// NewPackageHandler creates a new PackageHandler instance
func NewPackageHandler(
	publish *service.PublishService,
	catalog *service.CatalogService,
	identity domainservice.IdentityService,
) *PackageHandler {
	return &PackageHandler{
		publish:  publish,
		catalog:  catalog,
		identity: identity,
		log:      logger.Get().WithFields(logger.Component("package-handler")),
	}
}

// Publish handles POST /api/v1/packages. The caller is identified by the
// request credential or, failing that, by the token field of the body.
func (h *PackageHandler) Publish(c *gin.Context) {
	var req dto.PublishRequest
	if !bindJSON(c, &req) {
		return
	}

	user := middleware.GetUserFromContext(c)
	if user == nil {
		if strings.TrimSpace(req.Token) == "" {
			respondError(c, apperrors.Unauthorized("authentication required", apperrors.ErrInvalidCredentials))
			return
		}
		var err error
		user, err = h.identity.Resolve(c.Request.Context(), domainservice.BearerCredential(req.Token))
		if err != nil {
			respondError(c, err)
			return
		}
		middleware.SetUser(c, user)
	}

	result, err := h.publish.Publish(c.Request.Context(), user, req.ToService())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.PublishResponse{
		Message:   "Successful Upsert",
		PackageID: result.Package.ID,
		VersionID: result.Version.ID,
		Version:   result.Version.Version,
	})
}

// List handles GET /api/v1/packages?owner=login
func (h *PackageHandler) List(c *gin.Context) {
	owner := c.Query("owner")
	if owner == "" {
		respondError(c, apperrors.BadRequest("owner query parameter is required", apperrors.ErrInvalidInput))
		return
	}

	owned, err := h.catalog.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOwnedPackagesResponse(owned))
}

// Get handles GET /api/v1/packages/:id
func (h *PackageHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	details, err := h.catalog.PackageDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPackageDetailsResponse(details))
}

// Lookup handles GET /api/v1/packages/lookup?url=
func (h *PackageHandler) Lookup(c *gin.Context) {
	pkg, err := h.catalog.LookupByURL(c.Request.Context(), c.Query("url"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPackageInfo(pkg))
}

// BySlug handles GET /api/v1/packages/by-slug/:owner/:slug
func (h *PackageHandler) BySlug(c *gin.Context) {
	pkg, err := h.catalog.LookupBySlug(c.Request.Context(), c.Param("owner"), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPackageInfo(pkg))
}

// Delete handles DELETE /api/v1/packages/:id and DELETE /api/v1/packages
func (h *PackageHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := targetID(c)
	if !ok {
		return
	}

	if err := h.publish.DeletePackage(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Package deleted"})
}

// Update handles PUT /api/v1/packages/:id
func (h *PackageHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePackageRequest
	if !bindJSON(c, &req) {
		return
	}

	pkg, err := h.publish.UpdatePackage(c.Request.Context(), user, id, service.PackageUpdate{
		Description: req.Description,
		Keywords:    req.Keywords,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPackageInfo(pkg))
}
