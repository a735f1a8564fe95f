package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/application/dto"
	"github.com/bravo68web/odinpkg/internal/transport/http/handler"
	"github.com/bravo68web/odinpkg/pkg/openapi"
)

func (r *Router) packageRouter(v1 *gin.RouterGroup) {
	h := handler.NewPackageHandler(r.Deps.PublishService, r.Deps.CatalogService, r.Deps.IdentityService)
	flags := handler.NewFlagHandler(r.Deps.FlagService)

	docs := r.server.OpenAPIGenerator
	docs.RegisterDocs("POST", "/api/v1/packages", openapi.RouteDocs{
		Summary: "Publish a version",
		Description: "Validates the submission, resolves its dependencies, renders the readme and " +
			"upserts the package and version in one transaction. The caller may authenticate " +
			"with a session, a bearer CLI token or the token field of the body.",
		Tags:        []string{"Packages"},
		Auth:        true,
		RequestBody: dto.PublishRequest{},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusCreated:            {Description: "Successful Upsert", Model: dto.PublishResponse{}},
			http.StatusBadRequest:         {Description: "Every validation failure, one per entry of errors", Model: dto.ErrorResponse{}},
			http.StatusUnauthorized:       {Description: "Credential invalid or revoked", Model: dto.ErrorResponse{}},
			http.StatusForbidden:          {Description: "Package owned by another user", Model: dto.ErrorResponse{}},
			http.StatusConflict:           {Description: "Version already published", Model: dto.ErrorResponse{}},
			http.StatusServiceUnavailable: {Description: "Catalog unavailable", Model: dto.ErrorResponse{}},
		},
	})
	docs.RegisterDocs("GET", "/api/v1/packages", openapi.RouteDocs{
		Summary: "List a user's packages",
		Tags:    []string{"Packages"},
		Query:   []openapi.QueryDoc{{Name: "owner", Description: "Login of the owner", Required: true}},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:       {Description: "Packages with their versions", Model: []dto.OwnedPackageResponse{}},
			http.StatusNotFound: {Description: "User not found", Model: dto.ErrorResponse{}},
		},
	})
	docs.RegisterDocs("GET", "/api/v1/packages/:id", openapi.RouteDocs{
		Summary: "Get a package",
		Tags:    []string{"Packages"},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:       {Description: "Package with its versions", Model: dto.PackageDetailsResponse{}},
			http.StatusNotFound: {Description: "Package not found", Model: dto.ErrorResponse{}},
		},
	})
	docs.RegisterDocs("GET", "/api/v1/packages/lookup", openapi.RouteDocs{
		Summary: "Find a package by repository URL",
		Tags:    []string{"Packages"},
		Query:   []openapi.QueryDoc{{Name: "url", Required: true}},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:         {Description: "Package", Model: dto.PackageInfo{}},
			http.StatusBadRequest: {Description: "URL cannot be parsed", Model: dto.ErrorResponse{}},
			http.StatusNotFound:   {Description: "Package not found", Model: dto.ErrorResponse{}},
		},
	})
	docs.RegisterDocs("GET", "/api/v1/packages/by-slug/:owner/:slug", openapi.RouteDocs{
		Summary: "Find a package by owner and slug",
		Tags:    []string{"Packages"},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:       {Description: "Package", Model: dto.PackageInfo{}},
			http.StatusNotFound: {Description: "Package not found", Model: dto.ErrorResponse{}},
			http.StatusConflict: {Description: "More than one host carries the slug", Model: dto.ErrorResponse{}},
		},
	})
	deleteDocs := openapi.RouteDocs{
		Summary: "Delete a package",
		Tags:    []string{"Packages"},
		Auth:    true,
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:        {Description: "Package deleted", Model: dto.MessageResponse{}},
			http.StatusForbidden: {Description: "Not the owner", Model: dto.ErrorResponse{}},
			http.StatusNotFound:  {Description: "Package not found", Model: dto.ErrorResponse{}},
			http.StatusConflict:  {Description: "Another package depends on one of its versions", Model: dto.ErrorResponse{}},
		},
	}
	docs.RegisterDocs("PUT", "/api/v1/packages/:id", openapi.RouteDocs{
		Summary:     "Edit package metadata",
		Description: "Changes the description or keywords. Everything else changes by publishing a version.",
		Tags:        []string{"Packages"},
		Auth:        true,
		RequestBody: dto.UpdatePackageRequest{},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:         {Description: "Updated package", Model: dto.PackageInfo{}},
			http.StatusBadRequest: {Description: "No fields, or description too short", Model: dto.ErrorResponse{}},
			http.StatusForbidden:  {Description: "Not the owner", Model: dto.ErrorResponse{}},
			http.StatusNotFound:   {Description: "Package not found", Model: dto.ErrorResponse{}},
		},
	})
	docs.RegisterDocs("DELETE", "/api/v1/packages/:id", deleteDocs)
	deleteDocs.RequestBody = dto.IDRequest{}
	docs.RegisterDocs("DELETE", "/api/v1/packages", deleteDocs)
	docs.RegisterDocs("POST", "/api/v1/packages/:id/flags", openapi.RouteDocs{
		Summary:     "Report a package",
		Tags:        []string{"Flags"},
		Auth:        true,
		RequestBody: dto.CreateFlagRequest{},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusCreated:    {Description: "Flag raised", Model: dto.FlagInfo{}},
			http.StatusBadRequest: {Description: "Unknown reason or details too long", Model: dto.ErrorResponse{}},
			http.StatusConflict:   {Description: "A pending flag by this user exists", Model: dto.ErrorResponse{}},
		},
	})

	packages := v1.Group("/packages")
	{
		packages.POST("", r.auth.Authenticate(), h.Publish)
		packages.GET("", h.List)
		packages.DELETE("", r.auth.RequireAuth(), h.Delete)

		packages.GET("/lookup", h.Lookup)
		packages.GET("/by-slug/:owner/:slug", h.BySlug)

		packages.GET("/:id", h.Get)
		packages.PUT("/:id", r.auth.RequireAuth(), h.Update)
		packages.DELETE("/:id", r.auth.RequireAuth(), h.Delete)
		packages.POST("/:id/flags", r.auth.RequireAuth(), flags.Create)
	}
}
