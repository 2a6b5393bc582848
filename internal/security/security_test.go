package security_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/genui/genui/internal/agent"
	"github.com/genui/genui/internal/security"
)

// ─── ConversationValidator ────────────────────────────────────────────────────

func TestConversationValidator(t *testing.T) {
	v := security.NewConversationValidator(3, 20)

	valid := [][]agent.Message{
		{{Role: agent.RoleUser, Content: "hello"}},
		{
			{Role: agent.RoleSystem, Content: "be brief"},
			{Role: agent.RoleUser, Content: "weather in kyiv"},
			{Role: agent.RoleAssistant, Content: "which state?"},
		},
		{{Role: agent.RoleUser, Content: "привіт світ"}},
	}
	for _, msgs := range valid {
		if r := v.Validate(msgs); !r.Valid {
			t.Errorf("valid conversation rejected: %v -> %s", msgs, r.Message)
		}
	}

	invalid := []struct {
		msgs   []agent.Message
		reason string
	}{
		{nil, "empty"},
		{[]agent.Message{{Role: "tool", Content: "x"}}, "role"},
		{[]agent.Message{{Role: agent.RoleUser, Content: "   "}}, "blank"},
		{[]agent.Message{{Role: agent.RoleUser, Content: strings.Repeat("a", 21)}}, "too long"},
		{[]agent.Message{
			{Role: agent.RoleUser, Content: "a"},
			{Role: agent.RoleUser, Content: "b"},
			{Role: agent.RoleUser, Content: "c"},
			{Role: agent.RoleUser, Content: "d"},
		}, "too many"},
	}
	for _, tt := range invalid {
		if r := v.Validate(tt.msgs); r.Valid {
			t.Errorf("invalid conversation accepted (%s): %v", tt.reason, tt.msgs)
		}
	}
}

func TestConversationValidatorRequireTurn(t *testing.T) {
	systemOnly := []agent.Message{{Role: agent.RoleSystem, Content: "be brief"}}

	if r := security.NewConversationValidator(3, 20).Validate(systemOnly); !r.Valid {
		t.Errorf("system-only conversation rejected without RequireTurn: %s", r.Message)
	}

	v := security.NewConversationValidator(3, 20).RequireTurn()
	if r := v.Validate(systemOnly); r.Valid {
		t.Error("system-only conversation accepted with RequireTurn")
	}
	withUser := append(systemOnly, agent.Message{Role: agent.RoleUser, Content: "hi"})
	if r := v.Validate(withUser); !r.Valid {
		t.Errorf("conversation with a user turn rejected: %s", r.Message)
	}
}

// ─── AuditLogger ──────────────────────────────────────────────────────────────

type recordingSink struct {
	name string
	err  error

	mu     sync.Mutex
	events []security.AuditEvent
	closed bool
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Write(ctx context.Context, evt security.AuditEvent) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("write without deadline")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	return s.err
}

func (s *recordingSink) Ping(context.Context) error { return nil }

func (s *recordingSink) Close() error {
	s.closed = true
	return nil
}

func TestAuditLoggerFansOut(t *testing.T) {
	pg := &recordingSink{name: "postgres"}
	es := &recordingSink{name: "elasticsearch", err: errors.New("index missing")}
	a := security.NewAuditLogger(true, time.Second, pg, es)

	a.Record(security.AuditEvent{RequestID: "req-1", Outcome: security.OutcomeText})
	a.Record(security.AuditEvent{RequestID: "req-2", Outcome: security.OutcomeTool, ToolName: "weather-data"})
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	for _, s := range []*recordingSink{pg, es} {
		if len(s.events) != 2 {
			t.Errorf("%s got %d events, want 2", s.name, len(s.events))
		}
		if !s.closed {
			t.Errorf("%s not closed", s.name)
		}
	}
}

func TestAuditLoggerRecordAfterClose(t *testing.T) {
	pg := &recordingSink{name: "postgres"}
	a := security.NewAuditLogger(true, time.Second, pg)

	a.Record(security.AuditEvent{RequestID: "before"})
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	a.Record(security.AuditEvent{RequestID: "after"})
	a.Wait()
	if err := a.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}

	if len(pg.events) != 1 || pg.events[0].RequestID != "before" {
		t.Errorf("events = %+v, want only the one recorded before Close", pg.events)
	}
}

func TestAuditLoggerDisabled(t *testing.T) {
	pg := &recordingSink{name: "postgres"}
	a := security.NewAuditLogger(false, time.Second, pg)
	a.Record(security.AuditEvent{RequestID: "req-1"})
	a.Wait()
	if len(pg.events) != 0 {
		t.Errorf("disabled logger wrote %d events", len(pg.events))
	}
}

func TestHashConversation(t *testing.T) {
	a := []agent.Message{{Role: agent.RoleUser, Content: "hi"}}
	b := []agent.Message{{Role: agent.RoleUser, Content: "hi!"}}

	if got := security.HashConversation(a); len(got) != 16 {
		t.Errorf("hash length = %d, want 16", len(got))
	}
	if security.HashConversation(a) != security.HashConversation(a) {
		t.Error("hash not stable")
	}
	if security.HashConversation(a) == security.HashConversation(b) {
		t.Error("different conversations share a hash")
	}
}
