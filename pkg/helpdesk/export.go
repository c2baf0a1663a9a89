package helpdesk

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/helpdeskhq/helpdesk-mcp/pkg/pagination"
)

// ListAllTickets fetches every page of the ticket listing through the
// parallel batch fetcher and returns the combined result in page order.
func (s *Service) ListAllTickets(ctx context.Context) ([]Ticket, error) {
	fetcher := pagination.NewBatchFetcher(s, pagination.DefaultConfig())

	pages, err := fetcher.FetchAllPages(ctx, "/api/v2/tickets")
	if err != nil {
		return nil, err
	}

	var tickets []Ticket
	for page := 1; page <= len(pages); page++ {
		data, ok := pages[page]
		if !ok {
			continue
		}
		var resp ticketListResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("decode tickets page %d: %w", page, err)
		}
		tickets = append(tickets, resp.Tickets...)
	}

	return tickets, nil
}
