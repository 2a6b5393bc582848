package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/genui/genui/internal/agent"
	"github.com/genui/genui/internal/errorsx"
	"github.com/genui/genui/internal/graph"
	"github.com/genui/genui/internal/middleware"
	"github.com/genui/genui/internal/models"
	"github.com/genui/genui/internal/security"
	"github.com/rs/zerolog"
)

const maxRequestBytes = 1 << 20

// Runner runs one conversation through the orchestration graph.
type Runner interface {
	Run(ctx context.Context, input []agent.Message) (*graph.State, error)
}

// ChatHandler handles POST /chat and POST /chat/invoke
type ChatHandler struct {
	runner    Runner
	validator *security.ConversationValidator
	audit     *security.AuditLogger
	timeout   time.Duration
	provider  string
	model     string
}

func NewChatHandler(
	runner Runner,
	validator *security.ConversationValidator,
	audit *security.AuditLogger,
	timeout time.Duration,
	provider, model string,
) *ChatHandler {
	return &ChatHandler{
		runner:    runner,
		validator: validator,
		audit:     audit,
		timeout:   timeout,
		provider:  provider,
		model:     model,
	}
}

// Chat handles POST /chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := zerolog.Ctx(r.Context())

	var req models.ChatRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteErrorReason(w, http.StatusBadRequest, "invalid request body: "+err.Error(), "invalid_request")
		return
	}

	if v := h.validator.Validate(req.Input); !v.Valid {
		models.WriteErrorReason(w, http.StatusBadRequest, v.Message, "invalid_request")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	evt := security.AuditEvent{
		RequestID:        middleware.GetRequestID(r.Context()),
		Timestamp:        start.UTC(),
		ConversationHash: security.HashConversation(req.Input),
		MessageCount:     len(req.Input),
		Provider:         h.provider,
		Model:            h.model,
	}

	state, err := h.runner.Run(ctx, req.Input)
	if ctxErr := ctx.Err(); err != nil && ctxErr != nil && !errors.Is(err, ctxErr) {
		err = fmt.Errorf("%w: %w", ctxErr, err)
	}
	if err != nil {
		status, reason := statusFor(err)
		logger.Warn().Err(err).Str("reason", reason).Int("status", status).Msg("chat run failed")

		resp := models.ErrorResponse{
			Status:  "error",
			Message: err.Error(),
			Code:    status,
			Reason:  reason,
			Fields:  errorsx.FieldsOf(err),
		}
		if status == http.StatusInternalServerError {
			resp.Message = "internal server error"
		}
		models.WriteJSON(w, status, resp)

		evt.Outcome = security.OutcomeError
		evt.ErrorKind = reason
		evt.StatusCode = status
		evt.DurationMs = time.Since(start).Milliseconds()
		h.audit.Record(evt)
		return
	}

	out := state.Output()
	models.WriteJSON(w, http.StatusOK, out)

	evt.Outcome = security.OutcomeText
	if state.HasToolResult {
		evt.Outcome = security.OutcomeTool
		evt.ToolName = state.ToolName
	}
	evt.StatusCode = http.StatusOK
	evt.DurationMs = time.Since(start).Milliseconds()
	h.audit.Record(evt)
}

// statusFor maps a run failure to an HTTP status and a machine-readable reason.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, "canceled"
	}

	switch kind := errorsx.KindOf(err); kind {
	case errorsx.KindInvalidToolArguments, errorsx.KindUnknownTool:
		return http.StatusUnprocessableEntity, string(kind)
	case errorsx.KindInvalidModelResponse, errorsx.KindUpstreamUnavailable:
		return http.StatusBadGateway, string(kind)
	case errorsx.KindInconsistentState:
		return http.StatusInternalServerError, string(kind)
	default:
		return http.StatusInternalServerError, "internal"
	}
}
