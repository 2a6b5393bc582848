package agent

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/genui/genui/internal/errorsx"
	"github.com/genui/genui/internal/tools"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// go-openai omits a zero temperature, which leaves the API default of 1.
// The smallest positive float32 is sent instead and acts as 0.
const zeroTemperature = math.SmallestNonzeroFloat32

// OpenAIInvoker calls the OpenAI chat completions API.
type OpenAIInvoker struct {
	client *openai.Client
	model  string
}

// NewOpenAIInvoker creates an invoker for OpenAI or any compatible endpoint.
func NewOpenAIInvoker(apiKey, model, baseURL string) *OpenAIInvoker {
	if model == "" {
		model = DefaultOpenAIModel
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	return &OpenAIInvoker{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (a *OpenAIInvoker) Provider() string { return ProviderOpenAI }
func (a *OpenAIInvoker) Model() string    { return a.model }

func (a *OpenAIInvoker) Invoke(ctx context.Context, messages []Message, available []tools.Tool) (Outcome, error) {
	req := openai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    toOpenAIMessages(messages),
		Temperature: zeroTemperature,
	}
	for _, t := range available {
		req.Tools = append(req.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Schema().Parameters(),
			},
		})
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, errorsx.Upstream("openai chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errorsx.InvalidModelResponse("completion has no choices")
	}

	msg := resp.Choices[0].Message
	if msg.Role != openai.ChatMessageRoleAssistant {
		return nil, errorsx.InvalidModelResponse("expected assistant message, got role %q", msg.Role)
	}

	log.Debug().
		Str("model", a.model).
		Str("finish_reason", string(resp.Choices[0].FinishReason)).
		Int("tool_calls", len(msg.ToolCalls)).
		Msg("model response")

	if len(msg.ToolCalls) > 0 {
		calls := make([]tools.Call, 0, len(msg.ToolCalls))
		for _, tc := range msg.ToolCalls {
			if tc.Function.Name == "" {
				return nil, errorsx.InvalidModelResponse("tool call %q has no name", tc.ID)
			}
			args, err := parseArguments(tc.Function.Arguments)
			if err != nil {
				return nil, errorsx.InvalidModelResponse("tool call %q arguments: %v", tc.Function.Name, err)
			}
			calls = append(calls, tools.Call{ID: tc.ID, Name: tc.Function.Name, Arguments: args})
		}
		return ToolRequestsOutcome{Calls: calls}, nil
	}

	if msg.Content == "" {
		return nil, errorsx.InvalidModelResponse("assistant message has neither content nor tool calls")
	}
	return TextOutcome{Text: msg.Content}, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt})
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		case RoleSystem:
			role = openai.ChatMessageRoleSystem
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

// parseArguments decodes a JSON object of tool arguments. An empty string is
// an empty object.
func parseArguments(raw string) (map[string]any, error) {
	args := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}
