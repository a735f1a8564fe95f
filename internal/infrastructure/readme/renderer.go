// Package readme renders package readmes to sanitized HTML and downloads
// readme sources from remote hosts.
package readme

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/bravo68web/odinpkg/internal/domain/service"
)

var codeLanguage = regexp.MustCompile(`^language-[\w-]+$`)

// Renderer converts markdown to HTML and strips script vectors from the result
type Renderer struct {
	md       goldmark.Markdown
	policy   *bluemonday.Policy
	maxBytes int64
}

// NewRenderer creates a renderer. Sources larger than maxBytes are rejected;
// zero disables the limit.
func NewRenderer(maxBytes int64) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		// raw HTML is passed through and cleaned by the policy below
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	policy := bluemonday.UGCPolicy()
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.AllowAttrs("checked", "disabled", "type").OnElements("input")
	// fenced code keeps its language for client-side highlighting
	policy.AllowAttrs("class").Matching(codeLanguage).OnElements("code")

	return &Renderer{md: md, policy: policy, maxBytes: maxBytes}
}

// Render converts markdown into sanitized HTML
func (r *Renderer) Render(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r.maxBytes > 0 && int64(len(markdown)) > r.maxBytes {
		return "", fmt.Errorf("readme exceeds %d bytes", r.maxBytes)
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	return r.policy.Sanitize(buf.String()), nil
}

var _ service.ReadmeRenderer = (*Renderer)(nil)
