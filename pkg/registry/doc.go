// Package registry exposes helpdesk operations as MCP tools.
//
// The Registry holds tool descriptors and their handlers and answers the
// MCP JSON-RPC methods (initialize, tools/list, tools/call) over stdio or
// HTTP. RegisterHelpdeskTools binds the full helpdesk tool set to a
// Service.
//
// Example usage:
//
//	reg := registry.New(registry.Config{
//		ServerInfo: registry.ServerInfo{Name: "helpdesk-mcp", Version: "0.1.0"},
//	})
//	registry.RegisterHelpdeskTools(reg, svc)
//	registry.ServeStdio(ctx, reg)
package registry
