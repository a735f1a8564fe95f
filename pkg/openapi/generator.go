package openapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// SecuritySchemeName is the scheme attached to routes marked Auth
const SecuritySchemeName = "bearerAuth"

// RouteDocs documents one route
type RouteDocs struct {
	Summary     string
	Description string
	Tags        []string
	Auth        bool
	Query       []QueryDoc
	RequestBody interface{} // Struct for request body schema
	Responses   map[int]ResponseDoc
}

// QueryDoc documents a query string parameter
type QueryDoc struct {
	Name        string
	Description string
	Required    bool
}

type ResponseDoc struct {
	Description string
	ContentType string      // defaults to application/json
	Model       interface{} // Struct for response schema
	Example     interface{} // Example value
}

type Generator struct {
	engine    *gin.Engine
	info      Info
	servers   []Server
	tags      []Tag
	mu        sync.RWMutex
	routeDocs map[string]RouteDocs
}

func NewGenerator(engine *gin.Engine, info Info, servers []Server, tags []Tag) *Generator {
	return &Generator{
		engine:    engine,
		info:      info,
		servers:   servers,
		tags:      tags,
		routeDocs: make(map[string]RouteDocs),
	}
}

// RegisterDocs registers documentation for a specific route
// method: GET, POST, etc.
// path: /api/v1/packages/:id
func (g *Generator) RegisterDocs(method, path string, docs RouteDocs) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.routeDocs[method+" "+path] = docs
}

// Handler serves the generated document as JSON
func (g *Generator) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, g.Generate())
	}
}

func (g *Generator) Generate() *OpenAPI {
	g.mu.RLock()
	defer g.mu.RUnlock()

	spec := &OpenAPI{
		OpenAPI: "3.0.3",
		Info:    g.info,
		Servers: g.servers,
		Tags:    g.tags,
		Paths:   make(map[string]*PathItem),
		Components: Components{
			Schemas: make(map[string]*Schema),
			SecuritySchemes: map[string]interface{}{
				SecuritySchemeName: map[string]string{
					"type":   "http",
					"scheme": "bearer",
				},
			},
		},
	}

	routes := g.engine.Routes()
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})

	for _, route := range routes {
		// /api/v1/packages/:id -> /api/v1/packages/{id}
		openAPIPath := convertPath(route.Path)

		if _, exists := spec.Paths[openAPIPath]; !exists {
			spec.Paths[openAPIPath] = &PathItem{}
		}
		pathItem := spec.Paths[openAPIPath]

		docs, hasDocs := g.routeDocs[route.Method+" "+route.Path]
		operation := &Operation{
			Summary:     route.Handler,
			OperationID: getOperationID(route.Handler),
			Parameters:  extractPathParams(route.Path),
			Responses:   make(map[string]Response),
		}

		if hasDocs {
			applyDocs(operation, docs)
		}

		// Default response if none provided
		if len(operation.Responses) == 0 {
			operation.Responses["200"] = Response{
				Description: "Successful response",
			}
		}

		switch route.Method {
		case http.MethodGet:
			pathItem.Get = operation
		case http.MethodPost:
			pathItem.Post = operation
		case http.MethodPut:
			pathItem.Put = operation
		case http.MethodDelete:
			pathItem.Delete = operation
		case http.MethodPatch:
			pathItem.Patch = operation
		case http.MethodHead:
			pathItem.Head = operation
		case http.MethodOptions:
			pathItem.Options = operation
		}
	}

	return spec
}

func applyDocs(operation *Operation, docs RouteDocs) {
	if docs.Summary != "" {
		operation.Summary = docs.Summary
	}
	operation.Description = docs.Description
	operation.Tags = docs.Tags

	if docs.Auth {
		operation.Security = []map[string][]string{{SecuritySchemeName: {}}}
	}

	for _, q := range docs.Query {
		operation.Parameters = append(operation.Parameters, Parameter{
			Name:        q.Name,
			In:          "query",
			Description: q.Description,
			Required:    q.Required,
			Schema:      &Schema{Type: "string"},
		})
	}

	if docs.RequestBody != nil {
		operation.RequestBody = &RequestBody{
			Content: map[string]MediaType{
				"application/json": {Schema: GenerateSchema(docs.RequestBody)},
			},
			Required: true,
		}
	}

	for status, respDoc := range docs.Responses {
		resp := Response{Description: respDoc.Description}

		if respDoc.Model != nil || respDoc.Example != nil {
			mediaType := MediaType{}
			if respDoc.Model != nil {
				mediaType.Schema = GenerateSchema(respDoc.Model)
			} else {
				mediaType.Schema = &Schema{}
			}
			mediaType.Schema.Example = respDoc.Example

			contentType := respDoc.ContentType
			if contentType == "" {
				contentType = "application/json"
			}
			resp.Content = map[string]MediaType{contentType: mediaType}
		}

		operation.Responses[strconv.Itoa(status)] = resp
	}
}

func convertPath(ginPath string) string {
	parts := strings.Split(ginPath, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			parts[i] = "{" + part[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}

func extractPathParams(ginPath string) []Parameter {
	var params []Parameter
	for _, part := range strings.Split(ginPath, "/") {
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			params = append(params, Parameter{
				Name:     part[1:],
				In:       "path",
				Required: true,
				Schema:   &Schema{Type: "string"},
			})
		}
	}
	return params
}

func getOperationID(handlerName string) string {
	// handlerName is usually "github.com/bravo68web/odinpkg/internal/transport/http/handler.(*PackageHandler).Publish-fm"
	// which becomes "handler_PackageHandler_Publish"
	parts := strings.Split(handlerName, "/")
	lastPart := parts[len(parts)-1]

	if idx := strings.Index(lastPart, "-fm"); idx != -1 {
		lastPart = lastPart[:idx]
	}

	replacer := strings.NewReplacer("(", "", ")", "", "*", "", ".", "_")
	return replacer.Replace(lastPart)
}
