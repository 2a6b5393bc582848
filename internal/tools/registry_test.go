package tools_test

import (
	"context"
	"errors"
	"testing"

	"github.com/genui/genui/internal/errorsx"
	"github.com/genui/genui/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedTool struct {
	name string
}

func (n namedTool) Name() string          { return n.name }
func (n namedTool) Description() string   { return "test tool" }
func (n namedTool) Schema() *tools.Schema { return nil }
func (n namedTool) Invoke(context.Context, map[string]any) (any, error) {
	return n.name, nil
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	_, err := tools.NewRegistry(namedTool{"a"}, namedTool{"b"}, namedTool{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistryRejectsEmptyName(t *testing.T) {
	_, err := tools.NewRegistry(namedTool{""})
	require.Error(t, err)
}

func TestRegistryResolve(t *testing.T) {
	r, err := tools.NewRegistry(namedTool{"a"}, namedTool{"b"})
	require.NoError(t, err)

	got, err := r.Resolve("b")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name())

	_, err = r.Resolve("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errorsx.ErrUnknownTool))
	assert.Contains(t, err.Error(), "missing")
}

func TestRegistryKeepsRegistrationOrder(t *testing.T) {
	r, err := tools.NewRegistry(namedTool{"z"}, namedTool{"a"}, namedTool{"m"})
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, r.Names())

	// Tools returns a copy
	list := r.Tools()
	list[0] = namedTool{"changed"}
	assert.Equal(t, "z", r.Tools()[0].Name())
}

func TestBuiltinRegistry(t *testing.T) {
	r, err := tools.NewBuiltinRegistry(tools.GitHubConfig{}, tools.WeatherConfig{})
	require.NoError(t, err)
	assert.Equal(t, []string{"github-repo", "invoice-parser", "weather-data"}, r.Names())
}
