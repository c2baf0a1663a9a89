package helpdesk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/helpdeskhq/helpdesk-mcp/pkg/client"
)

// Service exposes the helpdesk API resources through the access facade.
type Service struct {
	client *client.Client
}

// NewService creates a Service on top of an existing client.
func NewService(c *client.Client) *Service {
	if c == nil {
		panic("helpdesk: client cannot be nil")
	}
	return &Service{client: c}
}

// Client returns the underlying access facade.
func (s *Service) Client() *client.Client {
	return s.client
}

// getJSON performs a cached read and decodes the response into out.
func (s *Service) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := s.client.Get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// FetchPage implements pagination.PageFetcher for list endpoints. The
// response envelope carries total_pages alongside the page data.
func (s *Service) FetchPage(ctx context.Context, path string, page int) ([]byte, int, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))

	body, err := s.client.Get(ctx, path, query)
	if err != nil {
		return nil, 0, err
	}

	var envelope struct {
		TotalPages int `json:"total_pages"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, 0, fmt.Errorf("decode %s page envelope: %w", path, err)
	}
	if envelope.TotalPages < 1 {
		envelope.TotalPages = 1
	}

	return body, envelope.TotalPages, nil
}
