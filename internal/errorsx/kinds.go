package errorsx

import "errors"

// Kind is a short machine-readable failure class.
type Kind string

const (
	KindUnknown              Kind = "unknown"
	KindUnknownTool          Kind = "unknown_tool"
	KindInvalidToolArguments Kind = "invalid_tool_arguments"
	KindInvalidModelResponse Kind = "invalid_model_response"
	KindInconsistentState    Kind = "inconsistent_state"
	KindUpstreamUnavailable  Kind = "upstream_unavailable"
)

// Sentinels for errors.Is. An *Error matches the sentinel of its Kind.
var (
	ErrUnknownTool          = errors.New("unknown tool")
	ErrInvalidToolArguments = errors.New("invalid tool arguments")
	ErrInvalidModelResponse = errors.New("invalid model response")
	ErrInconsistentState    = errors.New("inconsistent orchestration state")
	ErrUpstreamUnavailable  = errors.New("upstream unavailable")
)

var sentinels = map[Kind]error{
	KindUnknownTool:          ErrUnknownTool,
	KindInvalidToolArguments: ErrInvalidToolArguments,
	KindInvalidModelResponse: ErrInvalidModelResponse,
	KindInconsistentState:    ErrInconsistentState,
	KindUpstreamUnavailable:  ErrUpstreamUnavailable,
}
