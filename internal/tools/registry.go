package tools

import (
	"fmt"

	"github.com/techpal/techpal/internal/model"
)

// Registry holds the tool roster in registration order.
type Registry struct {
	order []*Tool
	byKey map[string]*Tool
}

// NewRegistry builds a registry from the given tools. Duplicate or empty
// names are a programming error.
func NewRegistry(tools ...*Tool) (*Registry, error) {
	r := &Registry{byKey: make(map[string]*Tool, len(tools))}
	for _, t := range tools {
		if t.Name == "" {
			return nil, fmt.Errorf("tool with empty name")
		}
		if t.Run == nil {
			return nil, fmt.Errorf("tool %q has no run function", t.Name)
		}
		if _, dup := r.byKey[t.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", t.Name)
		}
		r.byKey[t.Name] = t
		r.order = append(r.order, t)
	}
	return r, nil
}

// Get returns the named tool.
func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.byKey[name]
	return t, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

// Catalog returns the tool definitions for the model request, in
// registration order.
func (r *Registry) Catalog() []model.ToolDef {
	defs := make([]model.ToolDef, 0, len(r.order))
	for _, t := range r.order {
		schema := t.Schema
		if schema == nil {
			schema = objectSchema(nil, map[string]any{})
		}
		defs = append(defs, model.ToolDef{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: schema,
		})
	}
	return defs
}
