package helpdesk

import (
	"context"
	"net/http"
	"testing"

	"github.com/helpdeskhq/helpdesk-mcp/internal/testutil"
)

func TestListContacts(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetResponse("/api/v2/contacts", testutil.NewJSONResponse(
		`{"contacts": [{"id": 1, "name": "Ada", "email": "ada@example.com"}], "total_pages": 1}`))

	svc := newTestService(t, mock)

	contacts, err := svc.ListContacts(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListContacts() error = %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("len(contacts) = %d, want 1", len(contacts))
	}
	if contacts[0].Email != "ada@example.com" {
		t.Errorf("Email = %q, want %q", contacts[0].Email, "ada@example.com")
	}
}

func TestGetContact(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetResponse("/api/v2/contacts/5", testutil.NewJSONResponse(
		`{"contact": {"id": 5, "name": "Grace", "email": "grace@example.com", "phone": "555-0100"}}`))

	svc := newTestService(t, mock)

	contact, err := svc.GetContact(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetContact() error = %v", err)
	}
	if contact.Phone != "555-0100" {
		t.Errorf("Phone = %q, want %q", contact.Phone, "555-0100")
	}
}

func TestCreateContact(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetHandler("/api/v2/contacts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"contact": {"id": 6, "name": "Alan", "email": "alan@example.com"}}`))
	})

	svc := newTestService(t, mock)

	contact, err := svc.CreateContact(context.Background(), NewContact{Name: "Alan", Email: "alan@example.com"})
	if err != nil {
		t.Fatalf("CreateContact() error = %v", err)
	}
	if contact.ID != 6 {
		t.Errorf("ID = %d, want 6", contact.ID)
	}
}

func TestUpdateContact(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetHandler("/api/v2/contacts/5", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %q, want PUT", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"contact": {"id": 5, "name": "Grace H", "email": "grace@example.com"}}`))
	})

	svc := newTestService(t, mock)

	contact, err := svc.UpdateContact(context.Background(), 5, NewContact{Name: "Grace H", Email: "grace@example.com"})
	if err != nil {
		t.Fatalf("UpdateContact() error = %v", err)
	}
	if contact.Name != "Grace H" {
		t.Errorf("Name = %q, want %q", contact.Name, "Grace H")
	}
}

func TestDeleteContact(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetHandler("/api/v2/contacts/5", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %q, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	svc := newTestService(t, mock)

	if err := svc.DeleteContact(context.Background(), 5); err != nil {
		t.Fatalf("DeleteContact() error = %v", err)
	}
}

func TestListTags(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetResponse("/api/v2/tags", testutil.NewJSONResponse(
		`{"tags": [{"name": "billing", "count": 12}, {"name": "urgent", "count": 3}]}`))

	svc := newTestService(t, mock)

	tags, err := svc.ListTags(context.Background())
	if err != nil {
		t.Fatalf("ListTags() error = %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("len(tags) = %d, want 2", len(tags))
	}
	if tags[0].Count != 12 {
		t.Errorf("Count = %d, want 12", tags[0].Count)
	}
}

func TestAddTicketTags(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetHandler("/api/v2/tickets/42/tags", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tags": ["billing", "urgent", "new"]}`))
	})

	svc := newTestService(t, mock)

	tags, err := svc.AddTicketTags(context.Background(), 42, []string{"new"})
	if err != nil {
		t.Fatalf("AddTicketTags() error = %v", err)
	}
	if len(tags) != 3 {
		t.Errorf("len(tags) = %d, want 3", len(tags))
	}
}

func TestRemoveTicketTag(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetHandler("/api/v2/tickets/42/tags/urgent", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %q, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	svc := newTestService(t, mock)

	if err := svc.RemoveTicketTag(context.Background(), 42, "urgent"); err != nil {
		t.Fatalf("RemoveTicketTag() error = %v", err)
	}
}

func TestSetTicketTags(t *testing.T) {
	mock := testutil.NewMockHelpdesk()
	defer mock.Close()

	mock.SetHandler("/api/v2/tickets/42/tags", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %q, want PUT", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tags": ["billing", "urgent"]}`))
	})

	svc := newTestService(t, mock)

	tags, err := svc.SetTicketTags(context.Background(), 42, []string{"billing", "urgent"})
	if err != nil {
		t.Fatalf("SetTicketTags() error = %v", err)
	}
	if len(tags) != 2 || tags[0] != "billing" {
		t.Errorf("tags = %v, want [billing urgent]", tags)
	}
}
