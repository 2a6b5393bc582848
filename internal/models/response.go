package models

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Provider string            `json:"provider"`
	Model    string            `json:"model"`
	Tools    []string          `json:"tools"`
	Checks   map[string]string `json:"checks,omitempty"`
}
