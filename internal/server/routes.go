package server

import (
	"context"
	"net/http"

	"github.com/genui/genui/internal/agent"
	"github.com/genui/genui/internal/handler"
	"github.com/genui/genui/internal/middleware"
	"github.com/genui/genui/internal/security"
	"github.com/genui/genui/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// setupRoutes returns (router, audit, error) so the audit sinks can be closed on shutdown
func (s *Server) setupRoutes() (http.Handler, *security.AuditLogger, error) {
	cfg := s.cfg
	ctx := context.Background()

	// ─── Core ───────────────────────────────────────────────────────────────────
	core, err := NewCore(cfg)
	if err != nil {
		return nil, nil, err
	}

	// ─── Audit ──────────────────────────────────────────────────────────────────
	var sinks []security.AuditSink
	if cfg.Audit.Enabled {
		sinks = service.NewAuditSinks(ctx, cfg.Audit)
	}
	auditLogger := security.NewAuditLogger(cfg.Audit.Enabled, cfg.AuditTimeout(), sinks...)

	sinkNames := make([]string, 0, len(sinks))
	for _, sink := range sinks {
		sinkNames = append(sinkNames, sink.Name())
	}
	log.Info().
		Str("provider", core.Invoker.Provider()).
		Str("model", core.Invoker.Model()).
		Strs("tools", core.Registry.Names()).
		Bool("audit_logging", cfg.Audit.Enabled).
		Strs("audit_sinks", sinkNames).
		Msg("service configuration")

	// ─── Handlers ───────────────────────────────────────────────────────────────
	validator := security.NewConversationValidator(cfg.MaxMessages, cfg.MaxMessageLength)
	if core.Invoker.Provider() == agent.ProviderAnthropic {
		validator.RequireTurn()
	}
	chatH := handler.NewChatHandler(
		core.Graph,
		validator,
		auditLogger,
		cfg.ModelTimeout(),
		core.Invoker.Provider(),
		core.Invoker.Model(),
	)
	healthH := handler.NewHealthHandler(sinks, core.Invoker.Provider(), core.Invoker.Model(), core.Registry.Names())

	// ─── Router ─────────────────────────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))

	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

		r.Post("/chat", chatH.Chat)
		r.Post("/chat/invoke", chatH.Chat)
	})

	return r, auditLogger, nil
}
