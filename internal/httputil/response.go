package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error,omitempty"`
}

// ValidationErrorResponse lists every violated input rule
type ValidationErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    []string `json:"message"`
	Error      string   `json:"error"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondError sends a JSON error response with the given message and status code.
// The error field carries the status text unless the message already is it.
func RespondError(w http.ResponseWriter, message string, statusCode int) {
	resp := ErrorResponse{StatusCode: statusCode, Message: message}
	if text := http.StatusText(statusCode); text != message {
		resp.Error = text
	}
	RespondJSON(w, resp, statusCode)
}

// RespondValidationError sends a 400 with the list of validation messages.
func RespondValidationError(w http.ResponseWriter, messages []string) {
	RespondJSON(w, ValidationErrorResponse{
		StatusCode: http.StatusBadRequest,
		Message:    messages,
		Error:      http.StatusText(http.StatusBadRequest),
	}, http.StatusBadRequest)
}

// RespondUnauthorized sends the single generic 401 used for every
// authentication failure.
func RespondUnauthorized(w http.ResponseWriter) {
	RespondError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
}
