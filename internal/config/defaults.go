package config

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8000
	DefaultEnvironment = "development"
	DefaultLogLevel    = "info"

	DefaultRateLimitPerMinute = 60

	DefaultModelProvider = "openai"

	DefaultAgentTimeout = 120 // seconds

	DefaultMaxMessages      = 50
	DefaultMaxMessageLength = 8000

	DefaultGitHubBaseURL    = "https://api.github.com"
	DefaultGeocodeBaseURL   = "https://geocode.xyz"
	DefaultWeatherBaseURL   = "https://api.weather.gov"
	DefaultWeatherUserAgent = "genui-backend"

	DefaultAuditTimeout = 5 // seconds

	DefaultElasticsearchPort   = 9200
	DefaultElasticsearchScheme = "http"
	DefaultElasticsearchIndex  = "genui-chat-audit"

	DefaultBigQueryLocation = "US"
	DefaultBigQueryDataset  = "genui"
	DefaultBigQueryTable    = "chat_audit"
)

var DefaultCORSOrigins = []string{
	"http://localhost",
	"http://localhost:3000",
}
