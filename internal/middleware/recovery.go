package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/genui/genui/internal/models"
	"github.com/rs/zerolog"
)

// Recovery turns a handler panic into a 500 error JSON. It runs inside
// RequestID so the panic line carries the request id.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			zerolog.Ctx(r.Context()).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("panic recovered")
			models.WriteErrorReason(w, http.StatusInternalServerError, "internal server error", "internal")
		}()
		next.ServeHTTP(w, r)
	})
}
