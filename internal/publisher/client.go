package publisher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bravo68web/odinpkg/internal/application/dto"
)

// RejectedError is returned when the registry refuses a submission
type RejectedError struct {
	Status  int
	Message string
	Errors  []string
}

func (e *RejectedError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("registry rejected the package (%d):\n  %s", e.Status, strings.Join(e.Errors, "\n  "))
	}
	return fmt.Sprintf("registry rejected the package (%d): %s", e.Status, e.Message)
}

// Client talks to a registry's publish API
type Client struct {
	http *resty.Client
}

// NewClient creates a client for the registry at baseURL authenticating with
// a CLI token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimSuffix(baseURL, "/")).
			SetAuthToken(token).
			SetTimeout(30*time.Second).
			SetHeader("User-Agent", "odinpkg-cli"),
	}
}

// Publish submits a version. Publishing is not idempotent, so nothing is retried.
func (c *Client) Publish(ctx context.Context, req *dto.PublishRequest) (*dto.PublishResponse, error) {
	var (
		out    dto.PublishResponse
		failed dto.ErrorResponse
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&failed).
		Post("/api/v1/packages")
	if err != nil {
		return nil, fmt.Errorf("publish request: %w", err)
	}
	if resp.IsError() {
		return nil, &RejectedError{Status: resp.StatusCode(), Message: failed.Message, Errors: failed.Errors}
	}
	return &out, nil
}
