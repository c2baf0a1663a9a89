package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var toolCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "helpdesk_tool_calls_total",
	Help: "Total MCP tool calls by tool and outcome",
}, []string{"tool", "outcome"})

// ToolHandler executes a tool with arguments parsed from the MCP request.
type ToolHandler func(ctx context.Context, args map[string]any) (any, error)

// ServerInfo describes this MCP server for the initialize response.
type ServerInfo struct {
	Name    string
	Version string
}

// Config configures a Registry.
type Config struct {
	ServerInfo ServerInfo
}

type registration struct {
	tool    mcp.Tool
	handler ToolHandler
}

// Registry holds the MCP tool set and dispatches tool calls.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]registration
	order  []string
	config Config
	logger zerolog.Logger
}

// New creates an empty Registry.
func New(cfg Config) *Registry {
	return &Registry{
		tools:  make(map[string]registration),
		config: cfg,
		logger: log.With().Str("component", "mcp-registry").Logger(),
	}
}

// Register adds a tool and its handler. Tool names are unique.
func (r *Registry) Register(tool mcp.Tool, handler ToolHandler) error {
	if tool.Name == "" {
		return fmt.Errorf("%w: tool name is empty", ErrInvalidArguments)
	}
	if handler == nil {
		return fmt.Errorf("%w: handler is nil for %s", ErrInvalidArguments, tool.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("%w: %s", ErrToolExists, tool.Name)
	}
	r.tools[tool.Name] = registration{tool: tool, handler: handler}
	r.order = append(r.order, tool.Name)

	return nil
}

// List returns all registered tools in registration order.
func (r *Registry) List() []mcp.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]mcp.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name].tool)
	}
	return tools
}

// Execute runs a tool by name, validating required arguments against the
// tool's input schema first.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	reg, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		toolCallsTotal.WithLabelValues(name, "not_found").Inc()
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	if err := checkRequired(reg.tool, args); err != nil {
		toolCallsTotal.WithLabelValues(name, "invalid_args").Inc()
		return nil, err
	}

	r.logger.Debug().Str("tool", name).Msg("Tool call dispatched")

	result, err := reg.handler(ctx, args)
	if err != nil {
		toolCallsTotal.WithLabelValues(name, "error").Inc()
		r.logger.Warn().Err(err).Str("tool", name).Msg("Tool call failed")
		return nil, err
	}

	toolCallsTotal.WithLabelValues(name, "ok").Inc()
	return result, nil
}

// checkRequired enforces the schema's required list. Full JSON Schema
// validation is left to the helpdesk service's own input checking.
func checkRequired(tool mcp.Tool, args map[string]any) error {
	schema, ok := tool.InputSchema.(map[string]any)
	if !ok {
		return nil
	}
	required, ok := schema["required"].([]string)
	if !ok {
		// Schemas built from decoded JSON carry []any instead.
		rawRequired, ok := schema["required"].([]any)
		if !ok {
			return nil
		}
		for _, raw := range rawRequired {
			name, _ := raw.(string)
			if name != "" {
				required = append(required, name)
			}
		}
	}

	for _, name := range required {
		if _, present := args[name]; !present {
			return fmt.Errorf("%w: %s", ErrMissingArgument, name)
		}
	}
	return nil
}
