package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/application/dto"
	"github.com/bravo68web/odinpkg/internal/transport/http/handler"
	"github.com/bravo68web/odinpkg/pkg/openapi"
)

// tokenRouter sets up CLI token management routes
func (r *Router) tokenRouter(v1 *gin.RouterGroup) {
	tokenHandler := handler.NewTokenHandler(r.Deps.TokenService)

	// Register Docs
	r.server.OpenAPIGenerator.RegisterDocs("GET", "/api/v1/tokens", openapi.RouteDocs{
		Summary:     "List tokens",
		Description: "Returns the CLI tokens of the authenticated user. Only the hint of each token is shown.",
		Tags:        []string{"Tokens"},
		Auth:        true,
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK: {
				Description: "List of tokens",
				Model:       dto.ListTokensResponse{},
			},
			http.StatusUnauthorized: {
				Description: "Authentication required",
				Model:       dto.ErrorResponse{},
			},
		},
	})

	r.server.OpenAPIGenerator.RegisterDocs("POST", "/api/v1/tokens", openapi.RouteDocs{
		Summary:     "Create token",
		Description: "Creates a new CLI token. The raw value is returned once.",
		Tags:        []string{"Tokens"},
		Auth:        true,
		RequestBody: dto.CreateTokenRequest{},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusCreated: {
				Description: "Token created successfully",
				Model:       dto.CreateTokenResponse{},
			},
			http.StatusBadRequest: {
				Description: "No Token Name Supplied",
				Model:       dto.ErrorResponse{},
			},
			http.StatusUnauthorized: {
				Description: "Authentication required",
				Model:       dto.ErrorResponse{},
			},
		},
	})

	r.server.OpenAPIGenerator.RegisterDocs("DELETE", "/api/v1/tokens/:id", openapi.RouteDocs{
		Summary:     "Revoke token",
		Description: "Revokes a CLI token by ID",
		Tags:        []string{"Tokens"},
		Auth:        true,
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK: {
				Description: "Token revoked",
				Model:       dto.MessageResponse{},
			},
			http.StatusForbidden: {
				Description: "Token belongs to another user",
				Model:       dto.ErrorResponse{},
			},
			http.StatusNotFound: {
				Description: "Token not found",
				Model:       dto.ErrorResponse{},
			},
		},
	})

	// Token routes (require authentication)
	tokenGroup := v1.Group("/tokens", r.auth.RequireAuth())
	{
		tokenGroup.POST("", tokenHandler.CreateToken)
		tokenGroup.GET("", tokenHandler.ListTokens)
		tokenGroup.DELETE("/:id", tokenHandler.RevokeToken)
	}
}
