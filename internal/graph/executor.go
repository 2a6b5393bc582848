package graph

import (
	"context"
	"fmt"

	"github.com/genui/genui/internal/errorsx"
	"github.com/genui/genui/internal/tools"
	"github.com/rs/zerolog"
)

// Resolver looks tools up by name. *tools.Registry implements it.
type Resolver interface {
	Resolve(name string) (tools.Tool, error)
}

// Executor runs the first tool call of a state. Further calls in the same
// turn are dropped: one tool runs per request.
type Executor struct {
	resolver Resolver
}

func NewExecutor(resolver Resolver) *Executor {
	return &Executor{resolver: resolver}
}

// Execute resolves, validates and invokes s.ToolCalls[0], storing the result
// on s. On error s is left without a tool result.
func (e *Executor) Execute(ctx context.Context, s *State) error {
	if len(s.ToolCalls) == 0 {
		return errorsx.New(errorsx.KindInconsistentState, "invoke tools", fmt.Errorf("no tool calls in state"))
	}
	call := s.ToolCalls[0]
	if dropped := len(s.ToolCalls) - 1; dropped > 0 {
		zerolog.Ctx(ctx).Debug().
			Str("tool", call.Name).
			Int("dropped", dropped).
			Msg("executing first tool call only")
	}

	tool, err := e.resolver.Resolve(call.Name)
	if err != nil {
		return err
	}
	if schema := tool.Schema(); schema != nil {
		if err := schema.Validate(call.Name, call.Arguments); err != nil {
			return err
		}
	}

	result, err := tool.Invoke(ctx, call.Arguments)
	if err != nil {
		return fmt.Errorf("tool %s: %w", call.Name, err)
	}

	s.ToolName = call.Name
	s.ToolResult = result
	s.HasToolResult = true
	return nil
}
