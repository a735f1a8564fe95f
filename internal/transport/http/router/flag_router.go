package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/application/dto"
	"github.com/bravo68web/odinpkg/internal/transport/http/handler"
	"github.com/bravo68web/odinpkg/pkg/openapi"
)

func (r *Router) flagRouter(v1 *gin.RouterGroup) {
	h := handler.NewFlagHandler(r.Deps.FlagService)

	docs := r.server.OpenAPIGenerator
	docs.RegisterDocs("GET", "/api/v1/flags/mine", openapi.RouteDocs{
		Summary: "My flags",
		Tags:    []string{"Flags"},
		Auth:    true,
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK: {Description: "Flags raised by the caller", Model: dto.ListFlagsResponse{}},
		},
	})
	docs.RegisterDocs("DELETE", "/api/v1/flags/:id", openapi.RouteDocs{
		Summary: "Withdraw a flag",
		Tags:    []string{"Flags"},
		Auth:    true,
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:        {Description: "Flag withdrawn", Model: dto.MessageResponse{}},
			http.StatusForbidden: {Description: "Raised by another user", Model: dto.ErrorResponse{}},
			http.StatusNotFound:  {Description: "Flag not found", Model: dto.ErrorResponse{}},
		},
	})
	docs.RegisterDocs("GET", "/api/v1/flags", openapi.RouteDocs{
		Summary: "List flags",
		Tags:    []string{"Flags"},
		Auth:    true,
		Query: []openapi.QueryDoc{
			{Name: "status", Description: "pending, resolved or dismissed"},
			{Name: "package_id"},
			{Name: "limit"},
			{Name: "offset"},
		},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:        {Description: "Flags", Model: dto.ListFlagsResponse{}},
			http.StatusForbidden: {Description: "Moderators only", Model: dto.ErrorResponse{}},
		},
	})
	docs.RegisterDocs("GET", "/api/v1/flags/stats", openapi.RouteDocs{
		Summary: "Flag counts per status",
		Tags:    []string{"Flags"},
		Auth:    true,
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:        {Description: "Counts", Model: map[string]int64{}},
			http.StatusForbidden: {Description: "Moderators only", Model: dto.ErrorResponse{}},
		},
	})
	docs.RegisterDocs("PATCH", "/api/v1/flags/:id", openapi.RouteDocs{
		Summary:     "Resolve a flag",
		Tags:        []string{"Flags"},
		Auth:        true,
		RequestBody: dto.ResolveFlagRequest{},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:        {Description: "Flag closed", Model: dto.FlagInfo{}},
			http.StatusForbidden: {Description: "Moderators only", Model: dto.ErrorResponse{}},
			http.StatusConflict:  {Description: "Flag is not pending", Model: dto.ErrorResponse{}},
		},
	})

	flags := v1.Group("/flags", r.auth.RequireAuth())
	{
		flags.GET("/mine", h.Mine)
		flags.DELETE("/:id", h.Delete)

		moderation := flags.Group("", r.auth.RequireModerator())
		moderation.GET("", h.List)
		moderation.GET("/stats", h.Stats)
		moderation.PATCH("/:id", h.Resolve)
	}
}
