package graph

import "github.com/genui/genui/internal/errorsx"

// Step is the router's decision after the model step.
type Step int

const (
	StepTerminate Step = iota
	StepInvokeTools
)

func (s Step) String() string {
	switch s {
	case StepTerminate:
		return "terminate"
	case StepInvokeTools:
		return "invoke_tools"
	}
	return "unknown"
}

// Route decides the next step. It has no side effects. A state with neither
// a result nor tool calls means the model step broke its contract and is
// reported as errorsx.KindInconsistentState.
func Route(s *State) (Step, error) {
	switch {
	case s.Result != nil:
		return StepTerminate, nil
	case s.ToolCalls != nil:
		return StepInvokeTools, nil
	default:
		return 0, errorsx.New(errorsx.KindInconsistentState, "route", nil)
	}
}
