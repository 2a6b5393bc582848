package models

import (
	"encoding/json"
	"net/http"

	"github.com/genui/genui/internal/errorsx"
)

type ErrorResponse struct {
	Status  string               `json:"status"`
	Message string               `json:"message"`
	Code    int                  `json:"code,omitempty"`
	Reason  string               `json:"reason,omitempty"` // machine-readable error kind
	Fields  []errorsx.FieldError `json:"fields,omitempty"`
}

func WriteError(w http.ResponseWriter, code int, message string) {
	WriteErrorReason(w, code, message, "")
}

func WriteErrorReason(w http.ResponseWriter, code int, message, reason string) {
	WriteJSON(w, code, ErrorResponse{
		Status:  "error",
		Message: message,
		Code:    code,
		Reason:  reason,
	})
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
