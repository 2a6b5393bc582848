package errorsx

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("invoke tools: %w", UnknownTool("nope"))
	if KindOf(err) != KindUnknownTool {
		t.Fatalf("expected kind %s, got %s", KindUnknownTool, KindOf(err))
	}
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected errors.Is to match ErrUnknownTool")
	}
	if errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("unexpected match on ErrUpstreamUnavailable")
	}
}

func TestUpstreamUnwraps(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Upstream("geocode", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	if got := err.Error(); got != "geocode: upstream unavailable: dial tcp: refused" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestInvalidArgumentsMessageNamesFields(t *testing.T) {
	err := InvalidArguments("invoice-parser", []FieldError{{Field: "lineItems.0.quantity", Message: "must be > 0"}})
	want := `invalid tool arguments "invoice-parser" (lineItems.0.quantity: must be > 0)`
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
	if len(FieldsOf(fmt.Errorf("wrap: %w", err))) != 1 {
		t.Fatalf("expected fields to survive wrapping")
	}
}

func TestKindOfPlainError(t *testing.T) {
	if KindOf(errors.New("boom")) != KindUnknown {
		t.Fatalf("plain errors should be unknown")
	}
	if KindOf(nil) != KindUnknown {
		t.Fatalf("nil should be unknown")
	}
}
