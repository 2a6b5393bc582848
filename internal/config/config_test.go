package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/genui/genui/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, "openai", cfg.Model.Provider)
	assert.Equal(t, []string{"http://localhost", "http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "https://api.weather.gov", cfg.Tools.WeatherBaseURL)
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, "genui-chat-audit", cfg.Audit.Elasticsearch.Index)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GENUI_PORT", "9001")
	t.Setenv("GENUI_MODEL_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("GITHUB_TOKEN", "ghp")
	t.Setenv("GEOCODE_API_KEY", "geo")
	t.Setenv("GENUI_CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Port)
	assert.Equal(t, "anthropic", cfg.Model.Provider)
	assert.Equal(t, "sk-ant", cfg.Model.APIKey())
	assert.Equal(t, "ghp", cfg.Tools.GitHubToken)
	assert.Equal(t, "geo", cfg.Tools.GeocodeAPIKey)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genui.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 8100
model:
  provider: openai
  name: gpt-4o
  timeout: 30
audit:
  enabled: false
  elasticsearch:
    enabled: true
    host: es.local
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8100, cfg.Port)
	assert.Equal(t, "gpt-4o", cfg.Model.Name)
	assert.Equal(t, 30, cfg.Model.Timeout)
	assert.False(t, cfg.Audit.Enabled)
	assert.True(t, cfg.Audit.Elasticsearch.Enabled)
	assert.Equal(t, "es.local", cfg.Audit.Elasticsearch.Host)
	assert.Equal(t, 9200, cfg.Audit.Elasticsearch.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	t.Setenv("GENUI_MODEL_PROVIDER", "mystery")
	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mystery")
}
