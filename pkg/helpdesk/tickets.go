package helpdesk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// TicketListOptions filter and page ticket listings.
type TicketListOptions struct {
	Status   string
	Priority string
	Sort     string
	Page     int
}

func (o TicketListOptions) query() url.Values {
	q := url.Values{}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	if o.Priority != "" {
		q.Set("priority", o.Priority)
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	return q
}

// ListTickets returns one page of tickets matching the options.
func (s *Service) ListTickets(ctx context.Context, opts TicketListOptions) ([]Ticket, error) {
	var resp ticketListResponse
	if err := s.getJSON(ctx, "/api/v2/tickets", opts.query(), &resp); err != nil {
		return nil, err
	}
	return resp.Tickets, nil
}

// GetTicket returns a single ticket by ID.
func (s *Service) GetTicket(ctx context.Context, id int64) (*Ticket, error) {
	var resp ticketResponse
	if err := s.getJSON(ctx, ticketPath(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Ticket, nil
}

// CreateTicket opens a new ticket. Creates go out exactly once.
func (s *Service) CreateTicket(ctx context.Context, ticket NewTicket) (*Ticket, error) {
	body, err := s.client.Post(ctx, "/api/v2/tickets", map[string]any{"ticket": ticket})
	if err != nil {
		return nil, err
	}

	var resp ticketResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode create ticket response: %w", err)
	}
	return &resp.Ticket, nil
}

// UpdateTicket replaces the ticket's mutable fields.
func (s *Service) UpdateTicket(ctx context.Context, id int64, update TicketUpdate) (*Ticket, error) {
	body, err := s.client.Put(ctx, ticketPath(id), map[string]any{"ticket": update})
	if err != nil {
		return nil, err
	}

	var resp ticketResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode update ticket response: %w", err)
	}
	return &resp.Ticket, nil
}

// DeleteTicket removes a ticket.
func (s *Service) DeleteTicket(ctx context.Context, id int64) error {
	_, err := s.client.Delete(ctx, ticketPath(id))
	return err
}

// ListComments returns the conversation on a ticket.
func (s *Service) ListComments(ctx context.Context, ticketID int64) ([]Comment, error) {
	var resp commentListResponse
	if err := s.getJSON(ctx, ticketPath(ticketID)+"/comments", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Comments, nil
}

// ReplyToTicket appends a comment to a ticket. Replies are append-type
// and go out exactly once.
func (s *Service) ReplyToTicket(ctx context.Context, ticketID int64, comment NewComment) (*Comment, error) {
	body, err := s.client.Post(ctx, ticketPath(ticketID)+"/comments", map[string]any{"comment": comment})
	if err != nil {
		return nil, err
	}

	var resp commentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode reply response: %w", err)
	}
	return &resp.Comment, nil
}

// SearchTickets runs a full-text ticket search.
func (s *Service) SearchTickets(ctx context.Context, query string) ([]Ticket, error) {
	q := url.Values{}
	q.Set("query", query)

	var resp ticketListResponse
	if err := s.getJSON(ctx, "/api/v2/search/tickets", q, &resp); err != nil {
		return nil, err
	}
	return resp.Tickets, nil
}

func ticketPath(id int64) string {
	return fmt.Sprintf("/api/v2/tickets/%d", id)
}
