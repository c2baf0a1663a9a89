package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached helpdesk response.
type Key struct {
	// Method is the HTTP method. Only GET-equivalents are ever cached.
	Method string

	// Path is the API path (e.g., "/api/v2/tickets")
	Path string

	// Query are the request query parameters
	Query url.Values
}

// String generates a deterministic cache key string.
// Format: helpdesk:METHOD:path:query1=val1:query2=val2
//
// Query parameters are sorted by name (values within a parameter are also
// sorted), so two logically identical requests produce the same key
// regardless of the order the caller assembled them in.
//
// Example:
//
//	helpdesk:GET:api/v2/tickets:page=2:status=open
func (k Key) String() string {
	parts := []string{"helpdesk", strings.ToUpper(k.Method)}

	path := strings.Trim(k.Path, "/")
	if path != "" {
		parts = append(parts, path)
	}

	if len(k.Query) > 0 {
		names := make([]string, 0, len(k.Query))
		for name := range k.Query {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			values := append([]string(nil), k.Query[name]...)
			sort.Strings(values)
			parts = append(parts, fmt.Sprintf("%s=%s", name, strings.Join(values, ",")))
		}
	}

	return strings.Join(parts, ":")
}
