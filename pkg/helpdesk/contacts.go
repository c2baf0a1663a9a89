package helpdesk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// ListContacts returns one page of contacts.
func (s *Service) ListContacts(ctx context.Context, page int) ([]Contact, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}

	var resp contactListResponse
	if err := s.getJSON(ctx, "/api/v2/contacts", q, &resp); err != nil {
		return nil, err
	}
	return resp.Contacts, nil
}

// GetContact returns a single contact by ID.
func (s *Service) GetContact(ctx context.Context, id int64) (*Contact, error) {
	var resp contactResponse
	if err := s.getJSON(ctx, contactPath(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Contact, nil
}

// CreateContact registers a new contact. Creates go out exactly once.
func (s *Service) CreateContact(ctx context.Context, contact NewContact) (*Contact, error) {
	body, err := s.client.Post(ctx, "/api/v2/contacts", map[string]any{"contact": contact})
	if err != nil {
		return nil, err
	}

	var resp contactResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode create contact response: %w", err)
	}
	return &resp.Contact, nil
}

// UpdateContact replaces a contact's fields.
func (s *Service) UpdateContact(ctx context.Context, id int64, contact NewContact) (*Contact, error) {
	body, err := s.client.Put(ctx, contactPath(id), map[string]any{"contact": contact})
	if err != nil {
		return nil, err
	}

	var resp contactResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode update contact response: %w", err)
	}
	return &resp.Contact, nil
}

// DeleteContact removes a contact.
func (s *Service) DeleteContact(ctx context.Context, id int64) error {
	_, err := s.client.Delete(ctx, contactPath(id))
	return err
}

func contactPath(id int64) string {
	return fmt.Sprintf("/api/v2/contacts/%d", id)
}
