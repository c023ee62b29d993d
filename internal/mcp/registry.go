package mcp

import (
	"context"
	"fmt"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

// HandlerFunc runs one tool call. It never fails: problems are reported
// through the Outcome.
type HandlerFunc func(ctx context.Context, req mcpgo.CallToolRequest) Outcome

// Tool pairs a descriptor with its handler.
type Tool struct {
	Descriptor mcpgo.Tool
	Handler    HandlerFunc
}

// Registry is the ordered set of tools. Both initialize and tools/list read
// from it, so the advertised names cannot drift apart.
type Registry struct {
	tools []Tool
	index map[string]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register appends a tool. Names must be unique and non-empty.
func (r *Registry) Register(descriptor mcpgo.Tool, handler HandlerFunc) error {
	name := descriptor.Name
	if name == "" {
		return fmt.Errorf("tool has no name")
	}
	if handler == nil {
		return fmt.Errorf("tool %s has no handler", name)
	}
	if _, exists := r.index[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}

	r.index[name] = len(r.tools)
	r.tools = append(r.tools, Tool{Descriptor: descriptor, Handler: handler})
	return nil
}

// Lookup finds a tool by name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	i, ok := r.index[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Descriptor.Name
	}
	return names
}

// Descriptors returns the tools/list payload entries in registration order.
func (r *Registry) Descriptors() []mcpgo.Tool {
	descriptors := make([]mcpgo.Tool, len(r.tools))
	for i, t := range r.tools {
		descriptors[i] = t.Descriptor
	}
	return descriptors
}

// Capabilities returns the initialize capability set.
func (r *Registry) Capabilities() map[string]struct{} {
	set := make(map[string]struct{}, len(r.tools))
	for _, t := range r.tools {
		set[t.Descriptor.Name] = struct{}{}
	}
	return set
}
