package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`

	// CORS
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Rate Limiting
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute"`

	// Conversation limits
	MaxMessages      int `mapstructure:"max_messages"`
	MaxMessageLength int `mapstructure:"max_message_length"`

	Model ModelConfig `mapstructure:"model"`
	Tools ToolsConfig `mapstructure:"tools"`
	Audit AuditConfig `mapstructure:"audit"`
}

type ModelConfig struct {
	Provider         string `mapstructure:"provider"` // "openai" | "anthropic"
	Name             string `mapstructure:"name"`
	OpenAIAPIKey     string `mapstructure:"openai_api_key"`
	OpenAIBaseURL    string `mapstructure:"openai_base_url"`
	AnthropicAPIKey  string `mapstructure:"anthropic_api_key"`
	AnthropicBaseURL string `mapstructure:"anthropic_base_url"` // override for a compatible proxy
	Timeout          int    `mapstructure:"timeout"`            // seconds, whole graph run
}

type ToolsConfig struct {
	GitHubToken      string `mapstructure:"github_token"`
	GitHubBaseURL    string `mapstructure:"github_base_url"`
	GeocodeAPIKey    string `mapstructure:"geocode_api_key"`
	GeocodeBaseURL   string `mapstructure:"geocode_base_url"`
	WeatherBaseURL   string `mapstructure:"weather_base_url"`
	WeatherUserAgent string `mapstructure:"weather_user_agent"`
}

type AuditConfig struct {
	Enabled       bool                     `mapstructure:"enabled"`
	Timeout       int                      `mapstructure:"timeout"` // seconds, per event across all sinks
	PostgresDSN   string                   `mapstructure:"postgres_dsn"`
	Elasticsearch AuditElasticsearchConfig `mapstructure:"elasticsearch"`
	BigQuery      AuditBigQueryConfig      `mapstructure:"bigquery"`
}

type AuditElasticsearchConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Scheme      string `mapstructure:"scheme"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	VerifyCerts bool   `mapstructure:"verify_certs"`
	Index       string `mapstructure:"index"`
}

type AuditBigQueryConfig struct {
	ProjectID   string `mapstructure:"project_id"`
	Credentials string `mapstructure:"credentials"`
	Location    string `mapstructure:"location"`
	Dataset     string `mapstructure:"dataset"`
	Table       string `mapstructure:"table"`
}

// Load reads configuration from defaults, an optional file (path, or
// GENUI_CONFIG when path is empty) and the environment, in increasing order
// of precedence. Environment keys are GENUI_<SECTION>_<KEY>; the usual
// provider variables (OPENAI_API_KEY, GITHUB_TOKEN, ...) are honoured too.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GENUI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindWellKnownEnv(v); err != nil {
		return nil, err
	}

	if path == "" {
		path = v.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("config", "")
	v.SetDefault("host", DefaultHost)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("environment", DefaultEnvironment)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("cors_origins", DefaultCORSOrigins)
	v.SetDefault("rate_limit_per_minute", DefaultRateLimitPerMinute)
	v.SetDefault("max_messages", DefaultMaxMessages)
	v.SetDefault("max_message_length", DefaultMaxMessageLength)

	v.SetDefault("model.provider", DefaultModelProvider)
	v.SetDefault("model.name", "")
	v.SetDefault("model.openai_api_key", "")
	v.SetDefault("model.openai_base_url", "")
	v.SetDefault("model.anthropic_api_key", "")
	v.SetDefault("model.anthropic_base_url", "")
	v.SetDefault("model.timeout", DefaultAgentTimeout)

	v.SetDefault("tools.github_token", "")
	v.SetDefault("tools.github_base_url", DefaultGitHubBaseURL)
	v.SetDefault("tools.geocode_api_key", "")
	v.SetDefault("tools.geocode_base_url", DefaultGeocodeBaseURL)
	v.SetDefault("tools.weather_base_url", DefaultWeatherBaseURL)
	v.SetDefault("tools.weather_user_agent", DefaultWeatherUserAgent)

	v.SetDefault("audit.enabled", true)
	v.SetDefault("audit.timeout", DefaultAuditTimeout)
	v.SetDefault("audit.postgres_dsn", "")
	v.SetDefault("audit.elasticsearch.enabled", false)
	v.SetDefault("audit.elasticsearch.host", "")
	v.SetDefault("audit.elasticsearch.port", DefaultElasticsearchPort)
	v.SetDefault("audit.elasticsearch.scheme", DefaultElasticsearchScheme)
	v.SetDefault("audit.elasticsearch.user", "")
	v.SetDefault("audit.elasticsearch.password", "")
	v.SetDefault("audit.elasticsearch.verify_certs", true)
	v.SetDefault("audit.elasticsearch.index", DefaultElasticsearchIndex)
	v.SetDefault("audit.bigquery.project_id", "")
	v.SetDefault("audit.bigquery.credentials", "")
	v.SetDefault("audit.bigquery.location", DefaultBigQueryLocation)
	v.SetDefault("audit.bigquery.dataset", DefaultBigQueryDataset)
	v.SetDefault("audit.bigquery.table", DefaultBigQueryTable)
}

func bindWellKnownEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"model.openai_api_key":       {"GENUI_MODEL_OPENAI_API_KEY", "OPENAI_API_KEY"},
		"model.openai_base_url":      {"GENUI_MODEL_OPENAI_BASE_URL", "OPENAI_BASE_URL"},
		"model.anthropic_api_key":    {"GENUI_MODEL_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"},
		"model.anthropic_base_url":   {"GENUI_MODEL_ANTHROPIC_BASE_URL", "ANTHROPIC_BASE_URL"},
		"tools.github_token":         {"GENUI_TOOLS_GITHUB_TOKEN", "GITHUB_TOKEN"},
		"tools.geocode_api_key":      {"GENUI_TOOLS_GEOCODE_API_KEY", "GEOCODE_API_KEY"},
		"audit.postgres_dsn":         {"GENUI_AUDIT_POSTGRES_DSN", "DATABASE_URL"},
		"audit.bigquery.project_id":  {"GENUI_AUDIT_BIGQUERY_PROJECT_ID", "GCP_PROJECT_ID"},
		"audit.bigquery.credentials": {"GENUI_AUDIT_BIGQUERY_CREDENTIALS", "GOOGLE_APPLICATION_CREDENTIALS"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.Model.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unknown model provider %q", c.Model.Provider)
	}
	if c.Model.Timeout <= 0 {
		return fmt.Errorf("model timeout must be positive, got %d", c.Model.Timeout)
	}
	if c.MaxMessages <= 0 || c.MaxMessageLength <= 0 {
		return fmt.Errorf("conversation limits must be positive")
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ModelTimeout bounds one graph run.
func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.Model.Timeout) * time.Second
}

// AuditTimeout bounds the audit fan-out for one request.
func (c *Config) AuditTimeout() time.Duration {
	return time.Duration(c.Audit.Timeout) * time.Second
}

// APIKey returns the credential for the configured provider.
func (m ModelConfig) APIKey() string {
	if m.Provider == "anthropic" {
		return m.AnthropicAPIKey
	}
	return m.OpenAIAPIKey
}

// BaseURL returns the endpoint override for the configured provider.
func (m ModelConfig) BaseURL() string {
	if m.Provider == "anthropic" {
		return m.AnthropicBaseURL
	}
	return m.OpenAIBaseURL
}
