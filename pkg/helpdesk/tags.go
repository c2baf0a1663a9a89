package helpdesk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// ListTags returns the account's tags with usage counts.
func (s *Service) ListTags(ctx context.Context) ([]Tag, error) {
	var resp tagListResponse
	if err := s.getJSON(ctx, "/api/v2/tags", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

// SetTicketTags replaces the full tag set on a ticket. Replacement is
// idempotent, so the call is retry-eligible.
func (s *Service) SetTicketTags(ctx context.Context, ticketID int64, tags []string) ([]string, error) {
	body, err := s.client.Put(ctx, ticketPath(ticketID)+"/tags", map[string]any{"tags": tags})
	if err != nil {
		return nil, err
	}
	return decodeTags(body)
}

// AddTicketTags appends tags to a ticket. Appends go out exactly once.
func (s *Service) AddTicketTags(ctx context.Context, ticketID int64, tags []string) ([]string, error) {
	body, err := s.client.Post(ctx, ticketPath(ticketID)+"/tags", map[string]any{"tags": tags})
	if err != nil {
		return nil, err
	}
	return decodeTags(body)
}

// RemoveTicketTag removes a single tag from a ticket.
func (s *Service) RemoveTicketTag(ctx context.Context, ticketID int64, tag string) error {
	_, err := s.client.Delete(ctx, ticketPath(ticketID)+"/tags/"+url.PathEscape(tag))
	return err
}

func decodeTags(body []byte) ([]string, error) {
	var resp struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode tags response: %w", err)
	}
	return resp.Tags, nil
}
