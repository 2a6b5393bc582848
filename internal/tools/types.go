// Package tools defines the Tool contract, the registry the model invoker
// advertises, and the three built-in tools: github-repo, invoice-parser and
// weather-data.
package tools

import "context"

// Tool is a capability the model may request by name.
type Tool interface {
	Name() string
	Description() string
	Schema() *Schema
	// Invoke validates args against Schema and runs the tool. The returned
	// value must be JSON-marshalable.
	Invoke(ctx context.Context, args map[string]any) (any, error)
}

// Call is a tool invocation requested by the model.
type Call struct {
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"args"`
}
