package graph

import (
	"context"
	"fmt"

	"github.com/genui/genui/internal/agent"
	"github.com/genui/genui/internal/errorsx"
	"github.com/genui/genui/internal/tools"
	"github.com/rs/zerolog"
)

// Node names the states of a run.
type Node string

const (
	NodeStart         Node = "start"
	NodeInvokeModel   Node = "invoke_model"
	NodeRouteDecision Node = "route_decision"
	NodeInvokeTools   Node = "invoke_tools"
	NodeEnd           Node = "end"
)

// Catalog lists the tools advertised to the model and resolves the one it
// picks. *tools.Registry implements it.
type Catalog interface {
	Resolver
	Tools() []tools.Tool
}

// Graph wires the model invoker, router and tool executor. It holds no
// per-request state and is safe for concurrent runs.
type Graph struct {
	invoker  agent.Invoker
	catalog  Catalog
	executor *Executor
}

func New(invoker agent.Invoker, catalog Catalog) *Graph {
	return &Graph{
		invoker:  invoker,
		catalog:  catalog,
		executor: NewExecutor(catalog),
	}
}

// Run drives one conversation from Start to End. Any step failure ends the
// run with that error; cancellation of ctx is checked before each step and
// aborts the in-flight model or tool call.
func (g *Graph) Run(ctx context.Context, input []agent.Message) (*State, error) {
	state := NewState(input)
	logger := zerolog.Ctx(ctx)

	node := NodeStart
	for node != NodeEnd {
		if err := ctx.Err(); err != nil {
			return state, fmt.Errorf("%s: %w", node, err)
		}
		next, err := g.step(ctx, node, state)
		if err != nil {
			logger.Debug().Err(err).Str("node", string(node)).Msg("graph run failed")
			return state, err
		}
		logger.Debug().Str("from", string(node)).Str("to", string(next)).Msg("graph transition")
		node = next
	}
	return state, nil
}

func (g *Graph) step(ctx context.Context, node Node, state *State) (Node, error) {
	switch node {
	case NodeStart:
		return NodeInvokeModel, nil

	case NodeInvokeModel:
		outcome, err := g.invoker.Invoke(ctx, state.Input, g.catalog.Tools())
		if err != nil {
			return "", fmt.Errorf("invoke model: %w", err)
		}
		if err := checkOutcome(outcome); err != nil {
			return "", fmt.Errorf("invoke model: %w", err)
		}
		state.apply(outcome)
		return NodeRouteDecision, nil

	case NodeRouteDecision:
		next, err := Route(state)
		if err != nil {
			return "", err
		}
		if next == StepInvokeTools {
			return NodeInvokeTools, nil
		}
		return NodeEnd, nil

	case NodeInvokeTools:
		if err := g.executor.Execute(ctx, state); err != nil {
			return "", fmt.Errorf("invoke tools: %w", err)
		}
		return NodeEnd, nil
	}
	return "", errorsx.New(errorsx.KindInconsistentState, "graph", fmt.Errorf("unknown node %q", node))
}

// checkOutcome enforces that the model step yields exactly one of text or a
// non-empty list of tool calls.
func checkOutcome(outcome agent.Outcome) error {
	switch o := outcome.(type) {
	case agent.TextOutcome:
		return nil
	case agent.ToolRequestsOutcome:
		if len(o.Calls) == 0 {
			return errorsx.InvalidModelResponse("tool request outcome without calls")
		}
		return nil
	case nil:
		return errorsx.InvalidModelResponse("no outcome")
	default:
		return errorsx.InvalidModelResponse("unsupported outcome %T", outcome)
	}
}
