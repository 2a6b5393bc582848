package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/genui/genui/internal/errorsx"
	"github.com/rs/zerolog/log"
)

const (
	GitHubRepoToolName    = "github-repo"
	DefaultGitHubBaseURL  = "https://api.github.com"
	repoFetchErrorMessage = "There was an error fetching the repository. Please check the owner and repo names."
)

var errMissingGitHubToken = errors.New("missing GITHUB_TOKEN secret")

// GitHubRepoInput is the github-repo argument schema.
type GitHubRepoInput struct {
	Owner string `json:"owner" jsonschema_description:"The name of the repository owner."`
	Repo  string `json:"repo" jsonschema_description:"The name of the repository."`
}

// RepoInfo is the github-repo result.
type RepoInfo struct {
	Owner       string `json:"owner"`
	Repo        string `json:"repo"`
	Description string `json:"description"`
	Stars       int    `json:"stars"`
	Language    string `json:"language"`
}

// GitHubConfig carries the credential and endpoint for GitHubRepoTool.
type GitHubConfig struct {
	Token      string
	BaseURL    string
	HTTPClient *http.Client
}

// GitHubRepoTool looks up a repository through the GitHub REST API.
//
// A missing token fails the call. Any lookup failure after that is returned
// as a successful result holding a human-readable message, so the caller can
// show it instead of an error.
type GitHubRepoTool struct {
	token   string
	baseURL string
	client  *http.Client
	schema  *Schema
}

func NewGitHubRepoTool(cfg GitHubConfig) *GitHubRepoTool {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultGitHubBaseURL
	}
	return &GitHubRepoTool{
		token:   cfg.Token,
		baseURL: strings.TrimSuffix(base, "/"),
		client:  defaultClient(cfg.HTTPClient),
		schema:  MustSchemaFor(&GitHubRepoInput{}),
	}
}

func (t *GitHubRepoTool) Name() string        { return GitHubRepoToolName }
func (t *GitHubRepoTool) Description() string { return "Get information about a GitHub repository." }
func (t *GitHubRepoTool) Schema() *Schema     { return t.schema }

func (t *GitHubRepoTool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	var in GitHubRepoInput
	if err := bindArgs(t.schema, t.Name(), args, &in); err != nil {
		return nil, err
	}
	return t.Lookup(ctx, in)
}

// Lookup returns a RepoInfo, or the fetch error message as a string.
func (t *GitHubRepoTool) Lookup(ctx context.Context, in GitHubRepoInput) (any, error) {
	if t.token == "" {
		return nil, errorsx.Upstream(GitHubRepoToolName, errMissingGitHubToken)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s", t.baseURL, url.PathEscape(in.Owner), url.PathEscape(in.Repo))
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"Authorization":        "Bearer " + t.token,
		"X-GitHub-Api-Version": "2022-11-28",
	}

	var payload struct {
		Description *string `json:"description"`
		Stars       int     `json:"stargazers_count"`
		Language    *string `json:"language"`
	}
	if err := getJSON(ctx, t.client, endpoint, headers, &payload); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn().Err(err).Str("owner", in.Owner).Str("repo", in.Repo).Msg("github repository lookup failed")
		return repoFetchErrorMessage, nil
	}

	return RepoInfo{
		Owner:       in.Owner,
		Repo:        in.Repo,
		Description: deref(payload.Description),
		Stars:       payload.Stars,
		Language:    deref(payload.Language),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
