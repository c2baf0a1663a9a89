package helpdesk

import "time"

// Ticket is a support ticket.
type Ticket struct {
	ID          int64     `json:"id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority,omitempty"`
	RequesterID int64     `json:"requester_id,omitempty"`
	AssigneeID  int64     `json:"assignee_id,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// NewTicket is the payload for creating a ticket.
type NewTicket struct {
	Subject     string   `json:"subject"`
	Description string   `json:"description,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	RequesterID int64    `json:"requester_id,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// TicketUpdate is the payload for replacing mutable ticket fields.
// Zero-valued fields are omitted and left unchanged by the service.
type TicketUpdate struct {
	Subject    string   `json:"subject,omitempty"`
	Status     string   `json:"status,omitempty"`
	Priority   string   `json:"priority,omitempty"`
	AssigneeID int64    `json:"assignee_id,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// Comment is a reply on a ticket.
type Comment struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticket_id"`
	AuthorID  int64     `json:"author_id,omitempty"`
	Body      string    `json:"body"`
	Public    bool      `json:"public"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// NewComment is the payload for replying to a ticket.
type NewComment struct {
	Body   string `json:"body"`
	Public bool   `json:"public"`
}

// Contact is a requester in the helpdesk account.
type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// NewContact is the payload for creating a contact.
type NewContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Tag is a label with its usage count.
type Tag struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Response envelopes. List endpoints report total_pages for the batch
// fetcher.
type ticketListResponse struct {
	Tickets    []Ticket `json:"tickets"`
	TotalPages int      `json:"total_pages"`
}

type ticketResponse struct {
	Ticket Ticket `json:"ticket"`
}

type commentListResponse struct {
	Comments []Comment `json:"comments"`
}

type commentResponse struct {
	Comment Comment `json:"comment"`
}

type contactListResponse struct {
	Contacts   []Contact `json:"contacts"`
	TotalPages int       `json:"total_pages"`
}

type contactResponse struct {
	Contact Contact `json:"contact"`
}

type tagListResponse struct {
	Tags []Tag `json:"tags"`
}
