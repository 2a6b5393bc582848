package server

import (
	"fmt"

	"github.com/genui/genui/internal/agent"
	"github.com/genui/genui/internal/config"
	"github.com/genui/genui/internal/graph"
	"github.com/genui/genui/internal/tools"
	"github.com/rs/zerolog/log"
)

// Core is the transport-independent part of the backend: tool registry,
// model invoker and the graph that ties them together. Both the HTTP server
// and the chat CLI command run on it.
type Core struct {
	Registry *tools.Registry
	Invoker  agent.Invoker
	Graph    *graph.Graph
}

func NewCore(cfg *config.Config) (*Core, error) {
	registry, err := tools.NewBuiltinRegistry(
		tools.GitHubConfig{
			Token:   cfg.Tools.GitHubToken,
			BaseURL: cfg.Tools.GitHubBaseURL,
		},
		tools.WeatherConfig{
			GeocodeAPIKey:  cfg.Tools.GeocodeAPIKey,
			GeocodeBaseURL: cfg.Tools.GeocodeBaseURL,
			WeatherBaseURL: cfg.Tools.WeatherBaseURL,
			UserAgent:      cfg.Tools.WeatherUserAgent,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("register tools: %w", err)
	}

	invoker, err := agent.New(agent.Config{
		Provider: cfg.Model.Provider,
		APIKey:   cfg.Model.APIKey(),
		Model:    cfg.Model.Name,
		BaseURL:  cfg.Model.BaseURL(),
	})
	if err != nil {
		return nil, fmt.Errorf("model invoker: %w", err)
	}

	if cfg.Model.APIKey() == "" {
		log.Warn().Str("provider", cfg.Model.Provider).Msg("model API key not set - /chat will fail upstream")
	}
	if cfg.Tools.GitHubToken == "" {
		log.Warn().Msg("GITHUB_TOKEN not set - github-repo tool calls will fail")
	}
	if cfg.Tools.GeocodeAPIKey == "" {
		log.Warn().Msg("GEOCODE_API_KEY not set - weather-data tool calls will fail")
	}

	return &Core{
		Registry: registry,
		Invoker:  invoker,
		Graph:    graph.New(invoker, registry),
	}, nil
}
