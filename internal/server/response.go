package server

import (
	"encoding/json"
	"net/http"

	"github.com/fraudlens-ai/fraudlens/internal/fault"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeProviderError       = "PROVIDER_ERROR"
	ErrCodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
	ErrCodeRequestCancelled    = "REQUEST_CANCELLED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// writeFault maps a classified upstream failure onto the API surface.
// An open circuit is reported as 503 rather than 502: the upstream was
// never asked, and the client should back off until the cooldown ends.
func writeFault(w http.ResponseWriter, err error) {
	switch {
	case fault.IsCircuitOpen(err):
		writeError(w, http.StatusServiceUnavailable, ErrCodeProviderUnavailable, err.Error())
	case fault.IsCancelled(err):
		writeError(w, http.StatusRequestTimeout, ErrCodeRequestCancelled, err.Error())
	case fault.IsTransient(err), fault.IsTerminal(err):
		writeError(w, http.StatusBadGateway, ErrCodeProviderError, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
	}
}
