package framework

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Tool is a named, schema-described unit of functionality exposed by a domain
// module. The metadata doubles as a manifest entry that function-calling LLMs
// and discovery endpoints can reason about.
type Tool interface {
	Name() string
	Description() string
	Category() string
	Schema() Schema
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// Execution is the uniform result envelope every tool call produces. Failures
// of any kind (unknown tool, bad params, executor error or panic) are reported
// here instead of propagating to callers.
type Execution struct {
	Success    bool   `json:"success"`
	ToolName   string `json:"toolName"`
	Result     any    `json:"result,omitempty"`
	Error      string `json:"error,omitempty"`
	ExecutedAt string `json:"executedAt,omitempty"`
}

// Registry aggregates the tools of all domain modules into one namespace.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
	clock Clock
}

// NewRegistry builds an empty registry. A nil clock falls back to time.Now.
func NewRegistry(clock Clock) *Registry {
	if clock == nil {
		clock = time.Now
	}
	return &Registry{
		tools: make(map[string]Tool),
		clock: clock,
	}
}

// Register adds tools to the registry. A name collision between modules is a
// configuration error, so duplicates are rejected rather than overwritten.
func (r *Registry) Register(tools ...Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tool := range tools {
		name := tool.Name()
		if _, exists := r.tools[name]; exists {
			return fmt.Errorf("tool %s already registered", name)
		}
		r.tools[name] = tool
		r.order = append(r.order, name)
	}
	return nil
}

// Get fetches a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// List returns all tool names in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Definitions returns the manifest for function-calling integration or
// capability discovery.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		schema := tool.Schema()
		defs = append(defs, Definition{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters: schemaJSON{
				Type:       "object",
				Properties: schema.Properties,
				Required:   schema.Required,
			},
		})
	}
	return defs
}

// ByCategory returns the tools of one domain module, in registration order.
func (r *Registry) ByCategory(category string) []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Tool
	for _, name := range r.order {
		if tool := r.tools[name]; tool.Category() == category {
			out = append(out, tool)
		}
	}
	return out
}

// Execute validates params against the tool's schema and runs the executor.
// It never returns an error: every failure mode is folded into the envelope.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) Execution {
	tool, ok := r.Get(name)
	if !ok {
		return Execution{Success: false, ToolName: name, Error: fmt.Sprintf("Tool not found: %s", name)}
	}

	if violations := tool.Schema().Validate(params); len(violations) > 0 {
		return Execution{
			Success:  false,
			ToolName: name,
			Error:    "Invalid parameters: " + strings.Join(violations, ", "),
		}
	}

	result, err := r.run(ctx, tool, params)
	if err != nil {
		return Execution{Success: false, ToolName: name, Error: err.Error()}
	}

	return Execution{
		Success:    true,
		ToolName:   name,
		Result:     result,
		ExecutedAt: r.clock().UTC().Format(time.RFC3339),
	}
}

// run shields the registry from executor panics so that a buggy tool surfaces
// as a reported failure instead of an uncaught fault.
func (r *Registry) run(ctx context.Context, tool Tool, params map[string]any) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("tool %s panicked: %v", tool.Name(), rec)
		}
	}()
	return tool.Execute(ctx, params)
}
