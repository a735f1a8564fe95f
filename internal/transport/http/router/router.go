package router

import (
	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/injectable"
	"github.com/bravo68web/odinpkg/internal/server"
	"github.com/bravo68web/odinpkg/internal/transport/http/middleware"
)

type Router struct {
	server *server.Server
	Deps   *injectable.Dependencies
	auth   *middleware.AuthMiddleware
}

// NewRouter creates a new Router instance.
func NewRouter(s *server.Server, deps *injectable.Dependencies) *Router {
	return &Router{
		server: s,
		Deps:   deps,
		auth:   middleware.NewAuthMiddleware(deps.IdentityService),
	}
}

// RegisterRoutes sets up the routes and middleware for the server.
func (r *Router) RegisterRoutes() {
	r.server.Use(middleware.CORSMiddleware(r.server.Config.Server.CORSOrigins))

	r.healthRouter()

	v1 := r.server.Group("/api/v1")
	if r.Deps.RateLimiter != nil {
		v1.Use(middleware.RateLimitMiddleware(r.Deps.RateLimiter))
	}

	r.docsRouter(v1)
	r.authRouter(v1)
	r.tokenRouter(v1)
	r.packageRouter(v1)
	r.versionRouter(v1)
	r.catalogRouter(v1)
	r.flagRouter(v1)
	r.tagRouter(v1)
	r.bookmarkRouter(v1)
	r.userRouter(v1)
}

func (r *Router) docsRouter(v1 *gin.RouterGroup) {
	v1.GET("/openapi.json", r.server.OpenAPIGenerator.Handler())
}
