package security

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/genui/genui/internal/agent"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// AuditEvent is one /chat request as recorded by the audit trail. The
// conversation itself is never stored, only its hash.
type AuditEvent struct {
	RequestID        string    `json:"request_id"`
	Timestamp        time.Time `json:"timestamp"`
	ConversationHash string    `json:"conversation_hash"`
	MessageCount     int       `json:"message_count"`
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	Outcome          string    `json:"outcome"` // "text" | "tool" | "error"
	ToolName         string    `json:"tool_name,omitempty"`
	ErrorKind        string    `json:"error_kind,omitempty"`
	StatusCode       int       `json:"status_code"`
	DurationMs       int64     `json:"duration_ms"`
}

// Outcome values.
const (
	OutcomeText  = "text"
	OutcomeTool  = "tool"
	OutcomeError = "error"
)

// AuditSink persists audit events somewhere durable.
type AuditSink interface {
	Name() string
	Write(ctx context.Context, evt AuditEvent) error
	Ping(ctx context.Context) error
	Close() error
}

// AuditLogger logs chat events with hashed conversations and fans them out
// to the configured sinks in the background.
type AuditLogger struct {
	enabled bool
	timeout time.Duration
	sinks   []AuditSink

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewAuditLogger(enabled bool, timeout time.Duration, sinks ...AuditSink) *AuditLogger {
	return &AuditLogger{enabled: enabled, timeout: timeout, sinks: sinks}
}

// Sinks returns the configured sinks.
func (a *AuditLogger) Sinks() []AuditSink {
	return a.sinks
}

// Record logs evt and writes it to every sink without blocking the caller.
// Sink writes run under their own timeout, detached from any request context.
// After Close has started, events are only logged.
func (a *AuditLogger) Record(evt AuditEvent) {
	if !a.enabled {
		return
	}
	a.log(evt)
	if len(a.sinks) == 0 {
		return
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		log.Warn().Str("request_id", evt.RequestID).Msg("audit sinks closed, event not persisted")
		return
	}
	a.wg.Add(1)
	a.mu.Unlock()

	go func() {
		defer a.wg.Done()
		if err := a.write(evt); err != nil {
			log.Warn().Err(err).Str("request_id", evt.RequestID).Msg("audit sink write failed")
		}
	}()
}

func (a *AuditLogger) log(evt AuditEvent) {
	e := log.Info().
		Str("event", "chat_audit").
		Str("request_id", evt.RequestID).
		Str("conversation_hash", evt.ConversationHash).
		Int("message_count", evt.MessageCount).
		Str("provider", evt.Provider).
		Str("model", evt.Model).
		Str("outcome", evt.Outcome).
		Int("status_code", evt.StatusCode).
		Int64("duration_ms", evt.DurationMs)
	if evt.ToolName != "" {
		e = e.Str("tool", evt.ToolName)
	}
	if evt.ErrorKind != "" {
		e = e.Str("error_kind", evt.ErrorKind)
	}
	e.Msg("audit")
}

func (a *AuditLogger) write(evt AuditEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	var g errgroup.Group
	for _, sink := range a.sinks {
		sink := sink
		g.Go(func() error {
			if err := sink.Write(ctx, evt); err != nil {
				return fmt.Errorf("%s: %w", sink.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Wait blocks until every pending sink write has finished.
func (a *AuditLogger) Wait() {
	a.wg.Wait()
}

// Close stops accepting sink writes, drains pending ones and closes the
// sinks. Calls after the first are no-ops.
func (a *AuditLogger) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	a.wg.Wait()
	var first error
	for _, sink := range a.sinks {
		if err := sink.Close(); err != nil && first == nil {
			first = fmt.Errorf("close %s: %w", sink.Name(), err)
		}
	}
	return first
}

// HashConversation returns a short stable digest of the conversation.
func HashConversation(messages []agent.Message) string {
	b, _ := json.Marshal(messages)
	return hashStr(string(b))[:16]
}

func hashStr(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h)
}
