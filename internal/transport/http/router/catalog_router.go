package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/application/dto"
	"github.com/bravo68web/odinpkg/internal/domain/repository"
	"github.com/bravo68web/odinpkg/internal/transport/http/handler"
	"github.com/bravo68web/odinpkg/pkg/openapi"
)

func (r *Router) catalogRouter(v1 *gin.RouterGroup) {
	h := handler.NewCatalogHandler(r.Deps.CatalogService, r.Deps.ReadmeService)

	paging := []openapi.QueryDoc{
		{Name: "limit", Description: "Page size"},
		{Name: "offset", Description: "Rows to skip"},
	}

	docs := r.server.OpenAPIGenerator
	docs.RegisterDocs("GET", "/api/v1/browse", openapi.RouteDocs{
		Summary:     "Browse packages",
		Description: "Most recently updated packages first",
		Tags:        []string{"Catalog"},
		Query:       paging,
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK: {Description: "Page of packages", Model: repository.Page{}},
		},
	})
	docs.RegisterDocs("GET", "/api/v1/search", openapi.RouteDocs{
		Summary: "Search packages",
		Tags:    []string{"Catalog"},
		Query:   append([]openapi.QueryDoc{{Name: "q", Description: "Matched against name, description and keywords", Required: true}}, paging...),
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:         {Description: "Page of packages", Model: repository.Page{}},
			http.StatusBadRequest: {Description: "Missing query", Model: dto.ErrorResponse{}},
		},
	})
	docs.RegisterDocs("POST", "/api/v1/readme/preview", openapi.RouteDocs{
		Summary:     "Preview a readme",
		Description: "Renders inline markdown or a readme URL the way publishing would",
		Tags:        []string{"Catalog"},
		RequestBody: dto.ReadmePreviewRequest{},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:         {Description: "Sanitized HTML", Model: dto.ReadmePreviewResponse{}},
			http.StatusBadRequest: {Description: "Readme Parse Error", Model: dto.ErrorResponse{}},
		},
	})

	v1.GET("/browse", h.Browse)
	v1.GET("/search", h.Search)
	v1.POST("/readme/preview", h.PreviewReadme)
}
