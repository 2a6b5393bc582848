package agent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/genui/genui/internal/errorsx"
	"github.com/genui/genui/internal/tools"
	"github.com/rs/zerolog/log"
)

const DefaultAnthropicModel = "claude-sonnet-4-6"

// AnthropicInvoker calls the Anthropic Messages API or a compatible provider.
type AnthropicInvoker struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

// NewAnthropicInvoker creates an invoker backed by Anthropic Claude. The SDK's
// automatic retries are disabled; a failed call fails the request.
func NewAnthropicInvoker(apiKey, model, baseURL string) *AnthropicInvoker {
	if model == "" {
		model = DefaultAnthropicModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AnthropicInvoker{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: 4096,
	}
}

func (a *AnthropicInvoker) Provider() string { return ProviderAnthropic }
func (a *AnthropicInvoker) Model() string    { return a.model }

func (a *AnthropicInvoker) Invoke(ctx context.Context, messages []Message, available []tools.Tool) (Outcome, error) {
	toolParams := make([]anthropic.ToolUnionUnionParam, len(available))
	for i, t := range available {
		toolParams[i] = anthropic.ToolParam{
			Name:        anthropic.String(t.Name()),
			Description: anthropic.String(t.Description()),
			InputSchema: anthropic.F[interface{}](t.Schema().Parameters()),
		}
	}

	// Anthropic takes system text out of band, so system messages from the
	// conversation join the instruction block.
	system := []anthropic.TextBlockParam{anthropic.NewTextBlock(SystemPrompt)}
	var params []anthropic.MessageParam
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, anthropic.NewTextBlock(m.Content))
		case RoleAssistant:
			params = append(params, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			params = append(params, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	req := anthropic.MessageNewParams{
		Model:       anthropic.F(anthropic.Model(a.model)),
		MaxTokens:   anthropic.F(int64(a.maxTokens)),
		Messages:    anthropic.F(params),
		System:      anthropic.F(system),
		Temperature: anthropic.F(0.0),
	}
	if len(toolParams) > 0 {
		req.Tools = anthropic.F(toolParams)
	}

	resp, err := a.client.Messages.New(ctx, req)
	if err != nil {
		return nil, errorsx.Upstream("anthropic messages", err)
	}
	if resp.Role != anthropic.MessageRoleAssistant {
		return nil, errorsx.InvalidModelResponse("expected assistant message, got role %q", resp.Role)
	}

	var text strings.Builder
	var calls []tools.Call
	for _, block := range resp.Content {
		switch b := block.AsUnion().(type) {
		case anthropic.TextBlock:
			text.WriteString(b.Text)
		case anthropic.ToolUseBlock:
			args := map[string]any{}
			if len(b.Input) > 0 {
				if err := json.Unmarshal(b.Input, &args); err != nil {
					return nil, errorsx.InvalidModelResponse("tool call %q arguments: %v", b.Name, err)
				}
				if args == nil {
					args = map[string]any{}
				}
			}
			calls = append(calls, tools.Call{ID: b.ID, Name: b.Name, Arguments: args})
		}
	}

	log.Debug().
		Str("model", a.model).
		Str("stop_reason", string(resp.StopReason)).
		Int("tool_calls", len(calls)).
		Msg("model response")

	if len(calls) > 0 {
		return ToolRequestsOutcome{Calls: calls}, nil
	}
	if text.Len() == 0 {
		return nil, errorsx.InvalidModelResponse("assistant message has neither content nor tool calls")
	}
	return TextOutcome{Text: text.String()}, nil
}
