package agent

import (
	"context"
	"fmt"

	"github.com/genui/genui/internal/tools"
)

// SystemPrompt is prepended to every conversation sent to the model.
const SystemPrompt = "You are a helpful assistant. You're provided a list of tools, and an input from the user.\n" +
	"Your job is to determine whether or not you have a tool which can handle the users input, or respond with plain text."

// Role is a conversation participant.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Message is one entry of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Outcome is the model's answer: TextOutcome or ToolRequestsOutcome.
type Outcome interface {
	isOutcome()
}

// TextOutcome is a plain-text answer.
type TextOutcome struct {
	Text string
}

// ToolRequestsOutcome lists the tool calls the model asked for, in order.
// It always holds at least one call.
type ToolRequestsOutcome struct {
	Calls []tools.Call
}

func (TextOutcome) isOutcome()         {}
func (ToolRequestsOutcome) isOutcome() {}

// Invoker sends a conversation and the available tools to a completion
// endpoint and returns a single assistant outcome.
type Invoker interface {
	Invoke(ctx context.Context, messages []Message, available []tools.Tool) (Outcome, error)
	Provider() string
	Model() string
}

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config selects and configures a provider.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// New builds the Invoker for cfg.Provider.
func New(cfg Config) (Invoker, error) {
	switch cfg.Provider {
	case "", ProviderOpenAI:
		return NewOpenAIInvoker(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case ProviderAnthropic:
		return NewAnthropicInvoker(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}
