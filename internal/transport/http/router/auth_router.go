package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/application/dto"
	"github.com/bravo68web/odinpkg/internal/transport/http/handler"
	"github.com/bravo68web/odinpkg/pkg/openapi"
)

func (r *Router) authRouter(v1 *gin.RouterGroup) {
	cfg := r.server.Config
	h := handler.NewAuthHandler(r.Deps.AuthService, &cfg.Auth, cfg.IsProduction())

	docs := r.server.OpenAPIGenerator
	docs.RegisterDocs("GET", "/api/v1/auth/providers", openapi.RouteDocs{
		Summary: "Login providers",
		Tags:    []string{"Auth"},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK: {Description: "Configured providers", Model: dto.ProvidersResponse{}},
		},
	})
	for _, provider := range []string{"github", "oidc"} {
		docs.RegisterDocs("GET", "/api/v1/auth/"+provider+"/login", openapi.RouteDocs{
			Summary:     "Start " + provider + " login",
			Description: "Sets the state cookie and redirects to the provider",
			Tags:        []string{"Auth"},
			Responses: map[int]openapi.ResponseDoc{
				http.StatusTemporaryRedirect: {Description: "Redirect to the provider"},
				http.StatusNotFound:          {Description: "Provider not configured", Model: dto.ErrorResponse{}},
			},
		})
		docs.RegisterDocs("GET", "/api/v1/auth/"+provider+"/callback", openapi.RouteDocs{
			Summary: "Finish " + provider + " login",
			Tags:    []string{"Auth"},
			Query: []openapi.QueryDoc{
				{Name: "code", Required: true},
				{Name: "state", Required: true},
			},
			Responses: map[int]openapi.ResponseDoc{
				http.StatusOK:           {Description: "Logged in", Model: dto.LoginResponse{}},
				http.StatusUnauthorized: {Description: "State mismatch or exchange failed", Model: dto.ErrorResponse{}},
				http.StatusForbidden:    {Description: "User is banned", Model: dto.ErrorResponse{}},
			},
		})
	}
	docs.RegisterDocs("GET", "/api/v1/auth/me", openapi.RouteDocs{
		Summary: "Current user",
		Tags:    []string{"Auth"},
		Auth:    true,
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:           {Description: "The signed in user", Model: dto.UserInfo{}},
			http.StatusUnauthorized: {Description: "Authentication required", Model: dto.ErrorResponse{}},
		},
	})
	docs.RegisterDocs("POST", "/api/v1/auth/logout", openapi.RouteDocs{
		Summary: "Logout",
		Tags:    []string{"Auth"},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK: {Description: "Session cookie cleared", Model: dto.MessageResponse{}},
		},
	})

	auth := v1.Group("/auth")
	{
		auth.GET("/providers", h.Providers)

		auth.GET("/github/login", h.GitHubLogin)
		auth.GET("/github/callback", h.GitHubCallback)

		auth.GET("/oidc/login", h.OIDCLogin)
		auth.GET("/oidc/callback", h.OIDCCallback)

		auth.POST("/logout", h.Logout)
		auth.GET("/me", r.auth.RequireAuth(), h.Me)
	}
}
