package security

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/genui/genui/internal/agent"
)

// ConversationValidator checks an inbound conversation before it reaches
// the model.
type ConversationValidator struct {
	maxMessages      int
	maxMessageLength int
	requireTurn      bool
}

func NewConversationValidator(maxMessages, maxMessageLength int) *ConversationValidator {
	return &ConversationValidator{maxMessages: maxMessages, maxMessageLength: maxMessageLength}
}

// RequireTurn makes Validate reject conversations made only of system
// messages. Providers that take system text out of band (Anthropic) have
// nothing to send for them.
func (v *ConversationValidator) RequireTurn() *ConversationValidator {
	v.requireTurn = true
	return v
}

// ValidationResult contains validation outcome
type ValidationResult struct {
	Valid   bool
	Message string
}

// Validate checks message count, roles and content length.
func (v *ConversationValidator) Validate(messages []agent.Message) ValidationResult {
	if len(messages) == 0 {
		return ValidationResult{Valid: false, Message: "input must contain at least one message"}
	}
	if len(messages) > v.maxMessages {
		return ValidationResult{
			Valid:   false,
			Message: fmt.Sprintf("too many messages: %d (max %d)", len(messages), v.maxMessages),
		}
	}

	turns := 0
	for i, m := range messages {
		if !m.Role.Valid() {
			return ValidationResult{
				Valid:   false,
				Message: fmt.Sprintf("input[%d]: unknown role %q", i, m.Role),
			}
		}
		if strings.TrimSpace(m.Content) == "" {
			return ValidationResult{Valid: false, Message: fmt.Sprintf("input[%d]: content cannot be empty", i)}
		}
		if n := utf8.RuneCountInString(m.Content); n > v.maxMessageLength {
			return ValidationResult{
				Valid:   false,
				Message: fmt.Sprintf("input[%d]: content too long: %d chars (max %d)", i, n, v.maxMessageLength),
			}
		}
		if m.Role != agent.RoleSystem {
			turns++
		}
	}
	if v.requireTurn && turns == 0 {
		return ValidationResult{Valid: false, Message: "input must contain a user or assistant message"}
	}

	return ValidationResult{Valid: true, Message: "ok"}
}
