package tools

import (
	"fmt"

	"github.com/genui/genui/internal/errorsx"
)

// Registry maps tool names to tools. It is populated once by NewRegistry and
// read-only afterwards, so it is safe to share across requests.
type Registry struct {
	byName map[string]Tool
	order  []Tool
}

// NewRegistry registers tools in order. An empty or duplicate name is a
// configuration error.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{byName: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if t == nil {
			return nil, fmt.Errorf("tool is nil")
		}
		name := t.Name()
		if name == "" {
			return nil, fmt.Errorf("tool name is empty")
		}
		if _, exists := r.byName[name]; exists {
			return nil, fmt.Errorf("tool %s already registered", name)
		}
		r.byName[name] = t
		r.order = append(r.order, t)
	}
	return r, nil
}

// Resolve returns the tool registered under name.
func (r *Registry) Resolve(name string) (Tool, error) {
	t, ok := r.byName[name]
	if !ok {
		return nil, errorsx.UnknownTool(name)
	}
	return t, nil
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, len(r.order))
	copy(out, r.order)
	return out
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	for i, t := range r.order {
		names[i] = t.Name()
	}
	return names
}
