package helpdesk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/helpdeskhq/helpdesk-mcp/internal/testutil"
	"github.com/helpdeskhq/helpdesk-mcp/pkg/client"
)

func newTestService(t *testing.T, mock *testutil.MockHelpdesk) *Service {
	t.Helper()

	cfg := client.DefaultConfig(mock.URL(), "test-token")
	cfg.RetryBaseDelay = 10 * time.Millisecond

	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })

	return NewService(c)
}

func TestNewServiceNilClient(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewService(nil) did not panic")
		}
	}()
	NewService(nil)
}

func TestListTickets(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetHandler("/api/v2/tickets", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("status"); got != "open" {
			t.Errorf("status query = %q, want %q", got, "open")
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page query = %q, want %q", got, "2")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tickets": [{"id": 1, "subject": "Printer on fire", "status": "open"}], "total_pages": 3}`))
	})

	svc := newTestService(t, mock)

	tickets, err := svc.ListTickets(context.Background(), TicketListOptions{Status: "open", Page: 2})
	if err != nil {
		t.Fatalf("ListTickets() error = %v", err)
	}
	if len(tickets) != 1 {
		t.Fatalf("len(tickets) = %d, want 1", len(tickets))
	}
	if tickets[0].Subject != "Printer on fire" {
		t.Errorf("Subject = %q, want %q", tickets[0].Subject, "Printer on fire")
	}
}

func TestGetTicket(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetResponse("/api/v2/tickets/42", testutil.NewJSONResponse(
		`{"ticket": {"id": 42, "subject": "Login broken", "status": "pending", "priority": "high"}}`))

	svc := newTestService(t, mock)

	ticket, err := svc.GetTicket(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetTicket() error = %v", err)
	}
	if ticket.ID != 42 {
		t.Errorf("ID = %d, want 42", ticket.ID)
	}
	if ticket.Priority != "high" {
		t.Errorf("Priority = %q, want %q", ticket.Priority, "high")
	}
}

func TestGetTicketSecondReadCached(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetResponse("/api/v2/tickets/42", testutil.NewJSONResponse(
		`{"ticket": {"id": 42, "subject": "Login broken", "status": "open"}}`))

	svc := newTestService(t, mock)
	ctx := context.Background()

	if _, err := svc.GetTicket(ctx, 42); err != nil {
		t.Fatalf("first GetTicket() error = %v", err)
	}
	if _, err := svc.GetTicket(ctx, 42); err != nil {
		t.Fatalf("second GetTicket() error = %v", err)
	}

	if got := mock.GetRequestCount(); got != 1 {
		t.Errorf("request count = %d, want 1 (second read should hit cache)", got)
	}
}

func TestGetTicketNotFound(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetResponse("/api/v2/tickets/999", testutil.NewNotFoundResponse("Ticket not found"))

	svc := newTestService(t, mock)

	_, err := svc.GetTicket(context.Background(), 999)
	if err == nil {
		t.Fatal("GetTicket() error = nil, want not-found error")
	}

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *client.APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if apiErr.Message != "Ticket not found" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "Ticket not found")
	}
}

func TestCreateTicket(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetHandler("/api/v2/tickets", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}

		var payload struct {
			Ticket NewTicket `json:"ticket"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if payload.Ticket.Subject != "New issue" {
			t.Errorf("Subject = %q, want %q", payload.Ticket.Subject, "New issue")
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ticket": {"id": 100, "subject": "New issue", "status": "open"}}`))
	})

	svc := newTestService(t, mock)

	ticket, err := svc.CreateTicket(context.Background(), NewTicket{Subject: "New issue"})
	if err != nil {
		t.Fatalf("CreateTicket() error = %v", err)
	}
	if ticket.ID != 100 {
		t.Errorf("ID = %d, want 100", ticket.ID)
	}
}

func TestCreateTicketNeverRetried(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetResponse("/api/v2/tickets", testutil.MockResponse{
		StatusCode: http.StatusServiceUnavailable,
		Body:       `{"error": "maintenance"}`,
	})

	svc := newTestService(t, mock)

	_, err := svc.CreateTicket(context.Background(), NewTicket{Subject: "x"})
	if err == nil {
		t.Fatal("CreateTicket() error = nil, want error")
	}
	if got := mock.GetRequestCount(); got != 1 {
		t.Errorf("request count = %d, want 1 (creates must go out exactly once)", got)
	}
}

func TestUpdateTicket(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetHandler("/api/v2/tickets/42", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %q, want PUT", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ticket": {"id": 42, "subject": "Login broken", "status": "solved"}}`))
	})

	svc := newTestService(t, mock)

	ticket, err := svc.UpdateTicket(context.Background(), 42, TicketUpdate{Status: "solved"})
	if err != nil {
		t.Fatalf("UpdateTicket() error = %v", err)
	}
	if ticket.Status != "solved" {
		t.Errorf("Status = %q, want %q", ticket.Status, "solved")
	}
}

func TestUpdateTicketRetriedOnTransientFailure(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetHandler("/api/v2/tickets/42", testutil.NewFlakyHandler(1, http.StatusBadGateway,
		`{"ticket": {"id": 42, "subject": "Login broken", "status": "solved"}}`))

	svc := newTestService(t, mock)

	ticket, err := svc.UpdateTicket(context.Background(), 42, TicketUpdate{Status: "solved"})
	if err != nil {
		t.Fatalf("UpdateTicket() error = %v", err)
	}
	if ticket.Status != "solved" {
		t.Errorf("Status = %q, want %q", ticket.Status, "solved")
	}
	if got := mock.GetRequestCount(); got != 2 {
		t.Errorf("request count = %d, want 2 (one failure, one retry)", got)
	}
}

func TestDeleteTicket(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetHandler("/api/v2/tickets/42", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %q, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	svc := newTestService(t, mock)

	if err := svc.DeleteTicket(context.Background(), 42); err != nil {
		t.Fatalf("DeleteTicket() error = %v", err)
	}
}

func TestListComments(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetResponse("/api/v2/tickets/42/comments", testutil.NewJSONResponse(
		`{"comments": [{"id": 1, "ticket_id": 42, "body": "Have you tried rebooting?", "public": true}]}`))

	svc := newTestService(t, mock)

	comments, err := svc.ListComments(context.Background(), 42)
	if err != nil {
		t.Fatalf("ListComments() error = %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("len(comments) = %d, want 1", len(comments))
	}
	if !comments[0].Public {
		t.Error("Public = false, want true")
	}
}

func TestReplyToTicket(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetHandler("/api/v2/tickets/42/comments", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"comment": {"id": 7, "ticket_id": 42, "body": "Fixed now", "public": true}}`))
	})

	svc := newTestService(t, mock)

	comment, err := svc.ReplyToTicket(context.Background(), 42, NewComment{Body: "Fixed now", Public: true})
	if err != nil {
		t.Fatalf("ReplyToTicket() error = %v", err)
	}
	if comment.ID != 7 {
		t.Errorf("ID = %d, want 7", comment.ID)
	}
}

func TestSearchTickets(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetHandler("/api/v2/search/tickets", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "printer" {
			t.Errorf("query param = %q, want %q", got, "printer")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tickets": [{"id": 1, "subject": "Printer on fire", "status": "open"}], "total_pages": 1}`))
	})

	svc := newTestService(t, mock)

	tickets, err := svc.SearchTickets(context.Background(), "printer")
	if err != nil {
		t.Fatalf("SearchTickets() error = %v", err)
	}
	if len(tickets) != 1 {
		t.Errorf("len(tickets) = %d, want 1", len(tickets))
	}
}

func TestFetchPage(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetHandler("/api/v2/tickets", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "3" {
			t.Errorf("page query = %q, want %q", got, "3")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tickets": [{"id": 9, "subject": "s", "status": "open"}], "total_pages": 5}`))
	})

	svc := newTestService(t, mock)

	data, totalPages, err := svc.FetchPage(context.Background(), "/api/v2/tickets", 3)
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}
	if totalPages != 5 {
		t.Errorf("totalPages = %d, want 5", totalPages)
	}
	if len(data) == 0 {
		t.Error("FetchPage() returned empty data")
	}
}

func TestFetchPageMissingTotalPages(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetResponse("/api/v2/tags", testutil.NewJSONResponse(`{"tags": []}`))

	svc := newTestService(t, mock)

	_, totalPages, err := svc.FetchPage(context.Background(), "/api/v2/tags", 1)
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}
	if totalPages != 1 {
		t.Errorf("totalPages = %d, want 1 (default when envelope omits it)", totalPages)
	}
}
