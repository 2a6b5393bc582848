package errorsx

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError names one argument that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries a Kind plus the context needed to report it.
type Error struct {
	Kind   Kind
	Op     string
	Tool   string
	Fields []FieldError
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if sentinel, ok := sentinels[e.Kind]; ok {
		b.WriteString(sentinel.Error())
	} else {
		b.WriteString(string(e.Kind))
	}
	if e.Tool != "" {
		fmt.Fprintf(&b, " %q", e.Tool)
	}
	if len(e.Fields) > 0 {
		parts := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			parts[i] = f.Field + ": " + f.Message
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(parts, "; "))
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrUnknownTool) and friends match by Kind.
func (e *Error) Is(target error) bool {
	sentinel, ok := sentinels[e.Kind]
	return ok && sentinel == target
}

// New builds an *Error of the given kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// UnknownTool reports a tool name missing from the registry.
func UnknownTool(name string) *Error {
	return &Error{Kind: KindUnknownTool, Tool: name}
}

// InvalidArguments reports schema validation failures for a tool.
func InvalidArguments(tool string, fields []FieldError) *Error {
	return &Error{Kind: KindInvalidToolArguments, Tool: tool, Fields: fields}
}

// Upstream wraps a failed external call.
func Upstream(op string, err error) *Error {
	return &Error{Kind: KindUpstreamUnavailable, Op: op, Err: err}
}

// InvalidModelResponse reports a malformed completion.
func InvalidModelResponse(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidModelResponse, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the Kind from err, or KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// FieldsOf returns the validation fields carried by err, if any.
func FieldsOf(err error) []FieldError {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
