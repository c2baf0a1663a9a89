package registry

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/helpdeskhq/helpdesk-mcp/pkg/helpdesk"
)

// RegisterHelpdeskTools binds the full helpdesk tool set to a Service.
func RegisterHelpdeskTools(r *Registry, svc *helpdesk.Service) error {
	bindings := []struct {
		tool    mcp.Tool
		handler ToolHandler
	}{
		{
			tool: mcp.Tool{
				Name:        "list_tickets",
				Description: "List support tickets, optionally filtered by status and priority",
				InputSchema: objectSchema(map[string]any{
					"status":   prop("string", "Filter by status (open, pending, solved, closed)"),
					"priority": prop("string", "Filter by priority (low, normal, high, urgent)"),
					"sort":     prop("string", "Sort order"),
					"page":     prop("integer", "Page number"),
				}, nil),
			},
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				opts := helpdesk.TicketListOptions{
					Status:   stringArg(args, "status"),
					Priority: stringArg(args, "priority"),
					Sort:     stringArg(args, "sort"),
					Page:     int(intArg(args, "page")),
				}
				return svc.ListTickets(ctx, opts)
			},
		},
		{
			tool: mcp.Tool{
				Name:        "get_ticket",
				Description: "Get a single ticket by ID",
				InputSchema: objectSchema(map[string]any{
					"id": prop("integer", "Ticket ID"),
				}, []string{"id"}),
			},
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				return svc.GetTicket(ctx, intArg(args, "id"))
			},
		},
		{
			tool: mcp.Tool{
				Name:        "create_ticket",
				Description: "Open a new support ticket",
				InputSchema: objectSchema(map[string]any{
					"subject":      prop("string", "Ticket subject"),
					"description":  prop("string", "Ticket description"),
					"priority":     prop("string", "Priority (low, normal, high, urgent)"),
					"requester_id": prop("integer", "Requesting contact ID"),
					"tags":         arrayProp("string", "Tags to apply"),
				}, []string{"subject"}),
			},
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				return svc.CreateTicket(ctx, helpdesk.NewTicket{
					Subject:     stringArg(args, "subject"),
					Description: stringArg(args, "description"),
					Priority:    stringArg(args, "priority"),
					RequesterID: intArg(args, "requester_id"),
					Tags:        stringSliceArg(args, "tags"),
				})
			},
		},
		{
			tool: mcp.Tool{
				Name:        "update_ticket",
				Description: "Update a ticket's status, priority, assignee, or tags",
				InputSchema: objectSchema(map[string]any{
					"id":          prop("integer", "Ticket ID"),
					"subject":     prop("string", "New subject"),
					"status":      prop("string", "New status"),
					"priority":    prop("string", "New priority"),
					"assignee_id": prop("integer", "Assignee agent ID"),
					"tags":        arrayProp("string", "Replacement tags"),
				}, []string{"id"}),
			},
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				return svc.UpdateTicket(ctx, intArg(args, "id"), helpdesk.TicketUpdate{
					Subject:    stringArg(args, "subject"),
					Status:     stringArg(args, "status"),
					Priority:   stringArg(args, "priority"),
					AssigneeID: intArg(args, "assignee_id"),
					Tags:       stringSliceArg(args, "tags"),
				})
			},
		},
		{
			tool: mcp.Tool{
				Name:        "delete_ticket",
				Description: "Delete a ticket",
				InputSchema: objectSchema(map[string]any{
					"id": prop("integer", "Ticket ID"),
				}, []string{"id"}),
			},
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				if err := svc.DeleteTicket(ctx, intArg(args, "id")); err != nil {
					return nil, err
				}
				return map[string]any{"deleted": true}, nil
			},
		},
		{
			tool: mcp.Tool{
				Name:        "list_comments",
				Description: "List the conversation on a ticket",
				InputSchema: objectSchema(map[string]any{
					"ticket_id": prop("integer", "Ticket ID"),
				}, []string{"ticket_id"}),
			},
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				return svc.ListComments(ctx, intArg(args, "ticket_id"))
			},
		},
		{
			tool: mcp.Tool{
				Name:        "reply_to_ticket",
				Description: "Add a reply to a ticket",
				InputSchema: objectSchema(map[string]any{
					"ticket_id": prop("integer", "Ticket ID"),
					"body":      prop("string", "Reply text"),
					"public":    prop("boolean", "Whether the reply is visible to the requester"),
				}, []string{"ticket_id", "body"}),
			},
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				return svc.ReplyToTicket(ctx, intArg(args, "ticket_id"), helpdesk.NewComment{
					Body:   stringArg(args, "body"),
					Public: boolArg(args, "public"),
				})
			},
		},
		{
			tool: mcp.Tool{
				Name:        "search_tickets",
				Description: "Full-text search across tickets",
				InputSchema: objectSchema(map[string]any{
					"query": prop("string", "Search query"),
				}, []string{"query"}),
			},
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				return svc.SearchTickets(ctx, stringArg(args, "query"))
			},
		},
		{
			tool: mcp.Tool{
				Name:        "export_tickets",
				Description: "Fetch every page of the ticket listing in parallel",
				InputSchema: objectSchema(map[string]any{}, nil),
			},
			handler: func(ctx context.Context, _ map[string]any) (any, error) {
				return svc.ListAllTickets(ctx)
			},
		},
		{
			tool: mcp.Tool{
				Name:        "list_contacts",
				Description: "List contacts",
				InputSchema: objectSchema(map[string]any{
					"page": prop("integer", "Page number"),
				}, nil),
			},
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				return svc.ListContacts(ctx, int(intArg(args, "page")))
			},
		},
		{
			tool: mcp.Tool{
				Name:        "get_contact",
				Description: "Get a single contact by ID",
				InputSchema: objectSchema(map[string]any{
					"id": prop("integer", "Contact ID"),
				}, []string{"id"}),
			},
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				return svc.GetContact(ctx, intArg(args, "id"))
			},
		},
		{
			tool: mcp.Tool{
				Name:        "create_contact",
				Description: "Register a new contact",
				InputSchema: objectSchema(map[string]any{
					"name":  prop("string", "Contact name"),
					"email": prop("string", "Contact email"),
					"phone": prop("string", "Contact phone"),
				}, []string{"name", "email"}),
			},
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				return svc.CreateContact(ctx, helpdesk.NewContact{
					Name:  stringArg(args, "name"),
					Email: stringArg(args, "email"),
					Phone: stringArg(args, "phone"),
				})
			},
		},
		{
			tool: mcp.Tool{
				Name:        "update_contact",
				Description: "Update a contact's details",
				InputSchema: objectSchema(map[string]any{
					"id":    prop("integer", "Contact ID"),
					"name":  prop("string", "Contact name"),
					"email": prop("string", "Contact email"),
					"phone": prop("string", "Contact phone"),
				}, []string{"id", "name", "email"}),
			},
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				return svc.UpdateContact(ctx, intArg(args, "id"), helpdesk.NewContact{
					Name:  stringArg(args, "name"),
					Email: stringArg(args, "email"),
					Phone: stringArg(args, "phone"),
				})
			},
		},
		{
			tool: mcp.Tool{
				Name:        "delete_contact",
				Description: "Delete a contact",
				InputSchema: objectSchema(map[string]any{
					"id": prop("integer", "Contact ID"),
				}, []string{"id"}),
			},
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				if err := svc.DeleteContact(ctx, intArg(args, "id")); err != nil {
					return nil, err
				}
				return map[string]any{"deleted": true}, nil
			},
		},
		{
			tool: mcp.Tool{
				Name:        "list_tags",
				Description: "List tags with usage counts",
				InputSchema: objectSchema(map[string]any{}, nil),
			},
			handler: func(ctx context.Context, _ map[string]any) (any, error) {
				return svc.ListTags(ctx)
			},
		},
		{
			tool: mcp.Tool{
				Name:        "set_ticket_tags",
				Description: "Replace the tag set on a ticket",
				InputSchema: objectSchema(map[string]any{
					"ticket_id": prop("integer", "Ticket ID"),
					"tags":      arrayProp("string", "Replacement tags"),
				}, []string{"ticket_id", "tags"}),
			},
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				return svc.SetTicketTags(ctx, intArg(args, "ticket_id"), stringSliceArg(args, "tags"))
			},
		},
		{
			tool: mcp.Tool{
				Name:        "add_ticket_tags",
				Description: "Append tags to a ticket",
				InputSchema: objectSchema(map[string]any{
					"ticket_id": prop("integer", "Ticket ID"),
					"tags":      arrayProp("string", "Tags to append"),
				}, []string{"ticket_id", "tags"}),
			},
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				return svc.AddTicketTags(ctx, intArg(args, "ticket_id"), stringSliceArg(args, "tags"))
			},
		},
		{
			tool: mcp.Tool{
				Name:        "remove_ticket_tag",
				Description: "Remove a single tag from a ticket",
				InputSchema: objectSchema(map[string]any{
					"ticket_id": prop("integer", "Ticket ID"),
					"tag":       prop("string", "Tag to remove"),
				}, []string{"ticket_id", "tag"}),
			},
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				if err := svc.RemoveTicketTag(ctx, intArg(args, "ticket_id"), stringArg(args, "tag")); err != nil {
					return nil, err
				}
				return map[string]any{"removed": true}, nil
			},
		},
		{
			tool: mcp.Tool{
				Name:        "cache_stats",
				Description: "Report the response cache state",
				InputSchema: objectSchema(map[string]any{}, nil),
			},
			handler: func(ctx context.Context, _ map[string]any) (any, error) {
				stats := svc.Client().CacheStats(ctx)
				if stats == nil {
					return map[string]any{"enabled": false}, nil
				}
				return map[string]any{
					"enabled":  true,
					"entries":  stats.Entries,
					"ttl":      stats.TTL.String(),
					"max_size": stats.MaxSize,
				}, nil
			},
		},
		{
			tool: mcp.Tool{
				Name:        "clear_cache",
				Description: "Remove all cached responses",
				InputSchema: objectSchema(map[string]any{}, nil),
			},
			handler: func(ctx context.Context, _ map[string]any) (any, error) {
				if err := svc.Client().ClearCache(ctx); err != nil {
					return nil, err
				}
				return map[string]any{"cleared": true}, nil
			},
		},
	}

	for _, b := range bindings {
		if err := r.Register(b.tool, b.handler); err != nil {
			return fmt.Errorf("register %s: %w", b.tool.Name, err)
		}
	}

	return nil
}

// Schema construction helpers.

func objectSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(typ, description string) map[string]any {
	return map[string]any{"type": typ, "description": description}
}

func arrayProp(itemType, description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": itemType},
		"description": description,
	}
}

// Argument extraction helpers. JSON numbers decode as float64.

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func intArg(args map[string]any, key string) int64 {
	switch v := args[key].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}

func boolArg(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}

func stringSliceArg(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		if typed, ok := args[key].([]string); ok {
			return typed
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
