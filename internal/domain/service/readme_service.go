package service

import "context"

// ReadmeRenderer turns markdown into sanitized HTML
type ReadmeRenderer interface {
	Render(ctx context.Context, markdown string) (string, error)
}

// ReadmeFetcher downloads a readme from a URL
type ReadmeFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}
