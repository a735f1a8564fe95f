package service

import (
	"context"
	"fmt"

	"github.com/bravo68web/odinpkg/internal/domain/service"
)

// ReadmeService prepares readme sources for publishing and previews
type ReadmeService struct {
	renderer service.ReadmeRenderer
	fetcher  service.ReadmeFetcher
}

// NewReadmeService creates a new ReadmeService instance
func NewReadmeService(renderer service.ReadmeRenderer, fetcher service.ReadmeFetcher) *ReadmeService {
	return &ReadmeService{renderer: renderer, fetcher: fetcher}
}

// Source returns the inline contents, or downloads url when there are none.
// The download is attempted once.
func (s *ReadmeService) Source(ctx context.Context, contents, url string) (string, error) {
	if contents != "" || url == "" {
		return contents, nil
	}
	if s.fetcher == nil {
		return "", fmt.Errorf("readme downloads are disabled")
	}
	return s.fetcher.Fetch(ctx, url)
}

// Render converts markdown into sanitized HTML
func (s *ReadmeService) Render(ctx context.Context, markdown string) (string, error) {
	return s.renderer.Render(ctx, markdown)
}

// Preview renders inline contents or the readme found at url
func (s *ReadmeService) Preview(ctx context.Context, contents, url string) (string, error) {
	source, err := s.Source(ctx, contents, url)
	if err != nil {
		return "", err
	}
	return s.renderer.Render(ctx, source)
}
