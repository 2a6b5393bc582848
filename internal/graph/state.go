// Package graph runs the chat orchestration: invoke the model, route on its
// outcome, and either terminate with text or execute one requested tool.
//
//	Start -> InvokeModel -> RouteDecision -+-> End
//	                                       +-> InvokeTools -> End
//
// There is no loop back to the model; a tool result is the final answer.
package graph

import (
	"github.com/genui/genui/internal/agent"
	"github.com/genui/genui/internal/tools"
)

// State is carried through a single run. It is created per request and never
// shared between runs.
type State struct {
	Input []agent.Message

	// Exactly one of Result and ToolCalls is set once the model step completes.
	Result    *string
	ToolCalls []tools.Call

	// Set by the tool step.
	ToolName      string
	ToolResult    any
	HasToolResult bool
}

// NewState starts a run for the given conversation.
func NewState(input []agent.Message) *State {
	msgs := make([]agent.Message, len(input))
	copy(msgs, input)
	return &State{Input: msgs}
}

// apply records the model outcome on the state.
func (s *State) apply(outcome agent.Outcome) {
	switch o := outcome.(type) {
	case agent.TextOutcome:
		text := o.Text
		s.Result = &text
	case agent.ToolRequestsOutcome:
		s.ToolCalls = o.Calls
	}
}

// Output is the value returned to the caller: either {result} or {tool_result}.
type Output struct {
	Result     *string `json:"result,omitempty"`
	ToolResult any     `json:"tool_result,omitempty"`
}

// Output returns the terminal value of a completed run.
func (s *State) Output() Output {
	if s.HasToolResult {
		return Output{ToolResult: s.ToolResult}
	}
	return Output{Result: s.Result}
}
