package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/application/dto"
	"github.com/bravo68web/odinpkg/internal/transport/http/handler"
	"github.com/bravo68web/odinpkg/pkg/openapi"
)

func (r *Router) tagRouter(v1 *gin.RouterGroup) {
	h := handler.NewTagHandler(r.Deps.TagService)

	docs := r.server.OpenAPIGenerator
	docs.RegisterDocs("GET", "/api/v1/tags", openapi.RouteDocs{
		Summary: "List tags",
		Tags:    []string{"Tags"},
		Query: []openapi.QueryDoc{
			{Name: "q", Description: "Name fragment"},
			{Name: "limit", Description: "At most 100, default 50"},
		},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK: {Description: "Tags in use, most used first", Model: []dto.TagUsageInfo{}},
		},
	})
	docs.RegisterDocs("GET", "/api/v1/packages/:id/tags", openapi.RouteDocs{
		Summary: "Tags of a package",
		Tags:    []string{"Tags"},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:       {Description: "Tags, highest score first", Model: []dto.TagInfo{}},
			http.StatusNotFound: {Description: "Package not found", Model: dto.ErrorResponse{}},
		},
	})
	docs.RegisterDocs("POST", "/api/v1/packages/:id/tags", openapi.RouteDocs{
		Summary:     "Tag a package",
		Description: "Creates the tag when it is new and counts as the caller's upvote.",
		Tags:        []string{"Tags"},
		Auth:        true,
		RequestBody: dto.AddTagRequest{},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusCreated:    {Description: "Tag on the package", Model: dto.TagInfo{}},
			http.StatusBadRequest: {Description: "Invalid tag name", Model: dto.ErrorResponse{}},
			http.StatusNotFound:   {Description: "Package not found", Model: dto.ErrorResponse{}},
		},
	})
	docs.RegisterDocs("POST", "/api/v1/packages/:id/tags/:tag/vote", openapi.RouteDocs{
		Summary:     "Vote on a package tag",
		Description: "A tag whose net score drops to zero is removed from the package.",
		Tags:        []string{"Tags"},
		Auth:        true,
		RequestBody: dto.VoteTagRequest{},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:         {Description: "Score after the vote", Model: dto.TagVoteResponse{}},
			http.StatusBadRequest: {Description: "Vote outside -1..1", Model: dto.ErrorResponse{}},
			http.StatusNotFound:   {Description: "Package or tag not found", Model: dto.ErrorResponse{}},
		},
	})

	v1.GET("/tags", h.List)
	v1.GET("/packages/:id/tags", h.ForPackage)
	v1.POST("/packages/:id/tags", r.auth.RequireAuth(), h.Add)
	v1.POST("/packages/:id/tags/:tag/vote", r.auth.RequireAuth(), h.Vote)
}

func (r *Router) bookmarkRouter(v1 *gin.RouterGroup) {
	h := handler.NewBookmarkHandler(r.Deps.BookmarkService)

	docs := r.server.OpenAPIGenerator
	docs.RegisterDocs("GET", "/api/v1/bookmarks", openapi.RouteDocs{
		Summary: "My bookmarks",
		Tags:    []string{"Bookmarks"},
		Auth:    true,
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK: {Description: "Bookmarked packages, newest first", Model: []dto.PackageInfo{}},
		},
	})
	docs.RegisterDocs("GET", "/api/v1/packages/:id/bookmark", openapi.RouteDocs{
		Summary: "Bookmark count",
		Tags:    []string{"Bookmarks"},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:       {Description: "Count, and whether the caller bookmarked it", Model: dto.BookmarkStatusResponse{}},
			http.StatusNotFound: {Description: "Package not found", Model: dto.ErrorResponse{}},
		},
	})
	docs.RegisterDocs("PUT", "/api/v1/packages/:id/bookmark", openapi.RouteDocs{
		Summary: "Bookmark a package",
		Tags:    []string{"Bookmarks"},
		Auth:    true,
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:       {Description: "Bookmarked", Model: dto.BookmarkStatusResponse{}},
			http.StatusNotFound: {Description: "Package not found", Model: dto.ErrorResponse{}},
		},
	})
	docs.RegisterDocs("DELETE", "/api/v1/packages/:id/bookmark", openapi.RouteDocs{
		Summary: "Remove a bookmark",
		Tags:    []string{"Bookmarks"},
		Auth:    true,
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK: {Description: "Bookmark removed", Model: dto.BookmarkStatusResponse{}},
		},
	})

	v1.GET("/bookmarks", r.auth.RequireAuth(), h.Mine)
	v1.GET("/packages/:id/bookmark", r.auth.Authenticate(), h.Status)
	v1.PUT("/packages/:id/bookmark", r.auth.RequireAuth(), h.Add)
	v1.DELETE("/packages/:id/bookmark", r.auth.RequireAuth(), h.Remove)
}
