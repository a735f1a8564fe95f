package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/application/dto"
	"github.com/bravo68web/odinpkg/internal/transport/http/handler"
	"github.com/bravo68web/odinpkg/pkg/openapi"
)

func (r *Router) userRouter(v1 *gin.RouterGroup) {
	h := handler.NewUserHandler(r.Deps.CatalogService)

	r.server.OpenAPIGenerator.RegisterDocs("GET", "/api/v1/users/me/packages", openapi.RouteDocs{
		Summary:     "My packages",
		Description: "Packages owned by the caller. Versions other versions depend on are marked referenced.",
		Tags:        []string{"Users"},
		Auth:        true,
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:           {Description: "Packages with their versions", Model: []dto.OwnedPackageResponse{}},
			http.StatusUnauthorized: {Description: "Authentication required", Model: dto.ErrorResponse{}},
		},
	})

	v1.GET("/users/me/packages", r.auth.RequireAuth(), h.MyPackages)
}
