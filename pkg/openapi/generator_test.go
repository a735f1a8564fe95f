package openapi

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type node struct {
	ID       uuid.UUID         `json:"id"`
	Name     string            `json:"name"`
	Note     string            `json:"note,omitempty"`
	Parent   *node             `json:"parent"`
	Labels   map[string]string `json:"labels,omitempty"`
	Created  time.Time         `json:"created_at"`
	Payload  []byte            `json:"payload,omitempty"`
	internal int
}

type wrapped struct {
	node
	Extra bool `json:"extra"`
}

func TestGenerateSchema(t *testing.T) {
	s := GenerateSchema(&node{})
	if s.Type != "object" {
		t.Fatalf("expected object, got %q", s.Type)
	}
	if s.Properties["id"].Format != "uuid" || s.Properties["created_at"].Format != "date-time" {
		t.Fatalf("special types not mapped: %+v %+v", s.Properties["id"], s.Properties["created_at"])
	}
	if s.Properties["payload"].Format != "byte" {
		t.Fatalf("expected []byte as byte string")
	}
	if s.Properties["labels"].AdditionalProperties == nil {
		t.Fatalf("expected map value schema")
	}
	parent := s.Properties["parent"]
	if !parent.Nullable || parent.Type != "object" || len(parent.Properties) != 0 {
		t.Fatalf("recursive pointer not cut off: %+v", parent)
	}
	if _, ok := s.Properties["internal"]; ok {
		t.Fatalf("unexported field leaked")
	}
	for _, name := range []string{"id", "name", "created_at"} {
		if !slices.Contains(s.Required, name) {
			t.Fatalf("expected %q required, got %v", name, s.Required)
		}
	}
	for _, name := range []string{"note", "parent", "labels"} {
		if slices.Contains(s.Required, name) {
			t.Fatalf("expected %q optional", name)
		}
	}
}

func TestGenerateSchemaFlattensEmbedded(t *testing.T) {
	s := GenerateSchema(wrapped{})
	for _, name := range []string{"id", "name", "extra"} {
		if _, ok := s.Properties[name]; !ok {
			t.Fatalf("expected %q in flattened properties", name)
		}
	}
}

func newTestGenerator() *Generator {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	noop := func(c *gin.Context) {}
	r.GET("/api/v1/packages/:id", noop)
	r.POST("/api/v1/packages", noop)
	r.GET("/api/v1/search", noop)

	g := NewGenerator(r, Info{Title: "test", Version: "1"}, nil, nil)
	g.RegisterDocs("POST", "/api/v1/packages", RouteDocs{
		Summary:     "Publish",
		Auth:        true,
		RequestBody: node{},
		Responses: map[int]ResponseDoc{
			201: {Description: "Created", Model: node{}},
			409: {Description: "Conflict"},
		},
	})
	g.RegisterDocs("GET", "/api/v1/search", RouteDocs{
		Summary: "Search",
		Query:   []QueryDoc{{Name: "q", Required: true}},
		Responses: map[int]ResponseDoc{
			200: {Description: "Markdown", ContentType: "text/markdown", Example: "# hi"},
		},
	})
	return g
}

func TestGenerate(t *testing.T) {
	doc := newTestGenerator().Generate()

	item, ok := doc.Paths["/api/v1/packages/{id}"]
	if !ok || item.Get == nil {
		t.Fatalf("path parameter not converted: %v", doc.Paths)
	}
	if len(item.Get.Parameters) != 1 || item.Get.Parameters[0].In != "path" || item.Get.Parameters[0].Name != "id" {
		t.Fatalf("unexpected parameters %+v", item.Get.Parameters)
	}
	if _, ok := item.Get.Responses["200"]; !ok {
		t.Fatalf("expected default response on undocumented route")
	}

	publish := doc.Paths["/api/v1/packages"].Post
	if publish.Summary != "Publish" || len(publish.Security) != 1 {
		t.Fatalf("docs not applied: %+v", publish)
	}
	if _, ok := publish.Security[0][SecuritySchemeName]; !ok {
		t.Fatalf("expected %s security", SecuritySchemeName)
	}
	if publish.RequestBody == nil || publish.Responses["201"].Content["application/json"].Schema == nil {
		t.Fatalf("expected request and response schemas")
	}
	if publish.Responses["409"].Content != nil {
		t.Fatalf("expected no content for model-less response")
	}

	search := doc.Paths["/api/v1/search"].Get
	if len(search.Parameters) != 1 || search.Parameters[0].In != "query" || !search.Parameters[0].Required {
		t.Fatalf("query parameter missing: %+v", search.Parameters)
	}
	if _, ok := search.Responses["200"].Content["text/markdown"]; !ok {
		t.Fatalf("content type override ignored")
	}
}

func TestGetOperationID(t *testing.T) {
	got := getOperationID("github.com/bravo68web/odinpkg/internal/transport/http/handler.(*PackageHandler).Publish-fm")
	if got != "handler_PackageHandler_Publish" {
		t.Fatalf("got %q", got)
	}
}

func TestSaveToFile(t *testing.T) {
	doc := newTestGenerator().Generate()
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "openapi.json")
	if err := doc.SaveToFile(jsonPath); err != nil {
		t.Fatalf("SaveToFile json: %v", err)
	}
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
		t.Fatalf("expected JSON output")
	}

	yamlPath := filepath.Join(dir, "openapi.yaml")
	if err := doc.SaveToFile(yamlPath); err != nil {
		t.Fatalf("SaveToFile yaml: %v", err)
	}
	raw, err = os.ReadFile(yamlPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var back map[string]interface{}
	if err := yaml.Unmarshal(raw, &back); err != nil {
		t.Fatalf("yaml output does not parse: %v", err)
	}
	if back["openapi"] != "3.0.3" {
		t.Fatalf("unexpected openapi version %v", back["openapi"])
	}
}
