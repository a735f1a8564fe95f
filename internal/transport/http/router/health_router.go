package router

import (
	"net/http"

	"github.com/bravo68web/odinpkg/internal/transport/http/handler"
	"github.com/bravo68web/odinpkg/pkg/openapi"
)

func (r *Router) healthRouter() {
	var breakers handler.BreakerReporter
	if r.Deps.Fetcher != nil {
		breakers = r.Deps.Fetcher
	}
	h := handler.NewHealthHandler(r.server.DB, breakers)

	r.server.OpenAPIGenerator.RegisterDocs("GET", "/health", openapi.RouteDocs{
		Summary:     "Health check",
		Description: "Pings the database and reports readme fetch circuit breaker states",
		Tags:        []string{"Health"},
		Responses: map[int]openapi.ResponseDoc{
			http.StatusOK:                 {Description: "Healthy", Model: handler.HealthResponse{}},
			http.StatusServiceUnavailable: {Description: "Database unreachable", Model: handler.HealthResponse{}},
		},
	})

	r.server.GET("/health", h.Health)
}
