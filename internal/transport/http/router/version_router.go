package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/application/dto"
	"github.com/bravo68web/odinpkg/internal/transport/http/handler"
	"github.com/bravo68web/odinpkg/pkg/openapi"
)

func (r *Router) versionRouter(v1 *gin.RouterGroup) {
	h := handler.NewVersionHandler(r.Deps.PublishService, r.Deps.CatalogService)

	docs := r.server.OpenAPIGenerator
	docs.RegisterDocs("GET", "/api/v1/versions/:id", openapi.RouteDocs{
		Summary: "Get a version",
		Tags:    []string{"Versions"},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:       {Description: "Version with its package and direct dependencies", Model: dto.VersionDetailsResponse{}},
			http.StatusNotFound: {Description: "Version not found", Model: dto.ErrorResponse{}},
		},
	})
	docs.RegisterDocs("GET", "/api/v1/versions/:id/dependencies", openapi.RouteDocs{
		Summary:     "Dependency report",
		Description: "Transitive dependencies with the latest version of each package and a license summary",
		Tags:        []string{"Versions"},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:       {Description: "Report", Model: dto.DependenciesResponse{}},
			http.StatusNotFound: {Description: "Version not found", Model: dto.ErrorResponse{}},
		},
	})
	docs.RegisterDocs("GET", "/api/v1/versions/:id/readme.md", openapi.RouteDocs{
		Summary: "Archived readme source",
		Tags:    []string{"Versions"},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:       {Description: "Markdown source", ContentType: "text/markdown", Example: "# widgets"},
			http.StatusNotFound: {Description: "No archived readme", Model: dto.ErrorResponse{}},
		},
	})
	deleteDocs := openapi.RouteDocs{
		Summary: "Delete a version",
		Tags:    []string{"Versions"},
		Auth:    true,
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:        {Description: "Version deleted", Model: dto.MessageResponse{}},
			http.StatusForbidden: {Description: "Neither publisher nor package owner", Model: dto.ErrorResponse{}},
			http.StatusNotFound:  {Description: "Version not found", Model: dto.ErrorResponse{}},
			http.StatusConflict:  {Description: "Another version depends on it", Model: dto.ErrorResponse{}},
		},
	}
	docs.RegisterDocs("DELETE", "/api/v1/versions/:id", deleteDocs)
	deleteDocs.RequestBody = dto.IDRequest{}
	docs.RegisterDocs("DELETE", "/api/v1/versions", deleteDocs)

	versions := v1.Group("/versions")
	{
		versions.DELETE("", r.auth.RequireAuth(), h.Delete)
		versions.GET("/:id", h.Get)
		versions.GET("/:id/dependencies", h.Dependencies)
		versions.GET("/:id/readme.md", h.Readme)
		versions.DELETE("/:id", r.auth.RequireAuth(), h.Delete)
	}
}
