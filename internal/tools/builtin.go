package tools

// NewBuiltinRegistry registers github-repo, invoice-parser and weather-data.
func NewBuiltinRegistry(gh GitHubConfig, weather WeatherConfig) (*Registry, error) {
	return NewRegistry(
		NewGitHubRepoTool(gh),
		NewInvoiceParserTool(),
		NewWeatherDataTool(weather),
	)
}
