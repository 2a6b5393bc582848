package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/genui/genui/internal/models"
	"github.com/genui/genui/internal/security"
	"golang.org/x/sync/singleflight"
)

const version = "1.0.0"

// HealthHandler handles GET /health with audit sink checks
type HealthHandler struct {
	sinks    []security.AuditSink
	provider string
	model    string
	tools    []string

	sf singleflight.Group // concurrent probes share one round of sink pings
}

func NewHealthHandler(sinks []security.AuditSink, provider, model string, tools []string) *HealthHandler {
	return &HealthHandler{sinks: sinks, provider: provider, model: model, tools: tools}
}

// Health handles GET /health. A failing audit sink degrades the status but
// keeps 200, since /chat does not depend on it.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	v, _, _ := h.sf.Do("checks", func() (any, error) {
		return h.check(), nil
	})
	checks := v.(map[string]string)

	overallStatus := "healthy"
	for name, status := range checks {
		if name != "server" && status != "ok" {
			overallStatus = "degraded"
		}
	}

	models.WriteJSON(w, http.StatusOK, models.HealthResponse{
		Status:   overallStatus,
		Version:  version,
		Provider: h.provider,
		Model:    h.model,
		Tools:    h.tools,
		Checks:   checks,
	})
}

func (h *HealthHandler) check() map[string]string {
	checks := map[string]string{"server": "ok"}

	// Detached from the request so one canceled probe does not fail the others
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, sink := range h.sinks {
		if err := sink.Ping(ctx); err != nil {
			checks[sink.Name()] = "unavailable: " + err.Error()
		} else {
			checks[sink.Name()] = "ok"
		}
	}
	return checks
}
