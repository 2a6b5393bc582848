package models

import "github.com/genui/genui/internal/agent"

// ChatRequest for POST /chat and POST /chat/invoke
type ChatRequest struct {
	Input []agent.Message `json:"input"`
}
