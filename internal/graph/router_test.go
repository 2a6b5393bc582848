package graph_test

import (
	"testing"

	"github.com/genui/genui/internal/errorsx"
	"github.com/genui/genui/internal/graph"
	"github.com/genui/genui/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteTerminatesOnResult(t *testing.T) {
	text := "hi"
	s := &graph.State{Result: &text}
	for i := 0; i < 3; i++ {
		step, err := graph.Route(s)
		require.NoError(t, err)
		assert.Equal(t, graph.StepTerminate, step)
	}
	assert.Equal(t, "hi", *s.Result)
}

func TestRouteInvokesToolsOnCalls(t *testing.T) {
	s := &graph.State{ToolCalls: []tools.Call{{Name: "weather-data"}}}
	for i := 0; i < 3; i++ {
		step, err := graph.Route(s)
		require.NoError(t, err)
		assert.Equal(t, graph.StepInvokeTools, step)
	}
}

func TestRouteEmptyResultStillTerminates(t *testing.T) {
	empty := ""
	step, err := graph.Route(&graph.State{Result: &empty})
	require.NoError(t, err)
	assert.Equal(t, graph.StepTerminate, step)
}

func TestRouteInconsistentState(t *testing.T) {
	_, err := graph.Route(&graph.State{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errorsx.ErrInconsistentState)
	assert.Equal(t, errorsx.KindInconsistentState, errorsx.KindOf(err))
}
