package client

import (
	"errors"
	"strings"
	"testing"
)

var errTest = errors.New("connection reset")

func TestAPIError_Message(t *testing.T) {
	err := &APIError{
		StatusCode: 404,
		Class:      ErrorClassClient,
		Message:    "Ticket not found",
	}

	want := "helpdesk error (404): Ticket not found"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestEnrich_ErrorField(t *testing.T) {
	err := enrich(404, ErrorClassClient, []byte(`{"error": "Ticket not found"}`))

	if err.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", err.StatusCode)
	}
	if !strings.HasSuffix(err.Error(), ": Ticket not found") {
		t.Errorf("Error() = %q, want suffix %q", err.Error(), ": Ticket not found")
	}
	if err.Body == nil {
		t.Error("Body should carry the structured payload")
	}
}

func TestEnrich_MessageFieldFallback(t *testing.T) {
	err := enrich(422, ErrorClassClient, []byte(`{"message": "Validation failed"}`))

	if err.Message != "Validation failed" {
		t.Errorf("Message = %q, want %q", err.Message, "Validation failed")
	}
}

func TestEnrich_ErrorFieldPreferredOverMessage(t *testing.T) {
	err := enrich(400, ErrorClassClient, []byte(`{"error": "bad field", "message": "generic"}`))

	if err.Message != "bad field" {
		t.Errorf("Message = %q, want %q", err.Message, "bad field")
	}
}

func TestEnrich_DumpFallback(t *testing.T) {
	// Neither error nor message fields: the whole payload is dumped.
	err := enrich(500, ErrorClassServer, []byte(`{"code": 42, "details": "db"}`))

	if !strings.Contains(err.Message, `"code":42`) {
		t.Errorf("Message = %q, want JSON dump containing %q", err.Message, `"code":42`)
	}
	if !strings.Contains(err.Message, `"details":"db"`) {
		t.Errorf("Message = %q, want JSON dump containing %q", err.Message, `"details":"db"`)
	}
}

func TestEnrich_NonJSONBody(t *testing.T) {
	err := enrich(502, ErrorClassServer, []byte("upstream gateway unavailable"))

	if err.Message != "upstream gateway unavailable" {
		t.Errorf("Message = %q, want raw body", err.Message)
	}
	if err.Body != nil {
		t.Error("Body should be nil for an unstructured payload")
	}
}

func TestEnrich_EmptyBody(t *testing.T) {
	err := enrich(503, ErrorClassServer, nil)

	if err.Message != "Service Unavailable" {
		t.Errorf("Message = %q, want status text", err.Message)
	}
}

func TestAnnotateExhausted(t *testing.T) {
	terminal := enrich(500, ErrorClassServer, []byte(`{"error": "overloaded"}`))
	err := annotateExhausted(4, terminal)

	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("errors.Is(ErrRetryExhausted) = false for %v", err)
	}

	// The enriched error stays reachable through the wrap.
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("errors.As(*APIError) = false for %v", err)
	}
	if apiErr.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "after 4 attempts") {
		t.Errorf("Error() = %q, want attempt count", err.Error())
	}
}
