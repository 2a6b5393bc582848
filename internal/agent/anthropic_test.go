package agent_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/genui/genui/internal/agent"
	"github.com/genui/genui/internal/errorsx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anthropicServer(t *testing.T, role, content string, captured *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1","type":"message","role":"` + role + `","model":"claude-test","content":` + content +
			`,"stop_reason":"end_turn","stop_sequence":null,"usage":{"input_tokens":1,"output_tokens":1}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnthropicInvokerText(t *testing.T) {
	var body map[string]any
	srv := anthropicServer(t, "assistant", `[{"type":"text","text":"Hi"},{"type":"text","text":" there"}]`, &body)
	inv := agent.NewAnthropicInvoker("key", "claude-test", srv.URL+"/")

	out, err := inv.Invoke(context.Background(), []agent.Message{
		{Role: agent.RoleSystem, Content: "Be brief."},
		{Role: agent.RoleUser, Content: "hello"},
	}, builtinTools(t))
	require.NoError(t, err)
	assert.Equal(t, agent.TextOutcome{Text: "Hi there"}, out)

	system := body["system"].([]any)
	require.Len(t, system, 2)
	assert.Equal(t, agent.SystemPrompt, system[0].(map[string]any)["text"])
	assert.Equal(t, "Be brief.", system[1].(map[string]any)["text"])
	assert.Len(t, body["messages"].([]any), 1)
	assert.Len(t, body["tools"].([]any), 3)
}

func TestAnthropicInvokerToolUse(t *testing.T) {
	srv := anthropicServer(t, "assistant", `[
		{"type":"text","text":"Let me check."},
		{"type":"tool_use","id":"toolu_1","name":"github-repo","input":{"owner":"golang","repo":"go"}}
	]`, nil)
	inv := agent.NewAnthropicInvoker("key", "", srv.URL+"/")

	out, err := inv.Invoke(context.Background(), []agent.Message{{Role: agent.RoleUser, Content: "golang/go?"}}, builtinTools(t))
	require.NoError(t, err)

	reqs, ok := out.(agent.ToolRequestsOutcome)
	require.True(t, ok, "expected tool requests, got %T", out)
	require.Len(t, reqs.Calls, 1)
	assert.Equal(t, "toolu_1", reqs.Calls[0].ID)
	assert.Equal(t, map[string]any{"owner": "golang", "repo": "go"}, reqs.Calls[0].Arguments)
}

func TestAnthropicInvokerEmptyContent(t *testing.T) {
	srv := anthropicServer(t, "assistant", `[]`, nil)
	inv := agent.NewAnthropicInvoker("key", "", srv.URL+"/")

	_, err := inv.Invoke(context.Background(), []agent.Message{{Role: agent.RoleUser, Content: "hi"}}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errorsx.ErrInvalidModelResponse)
}
