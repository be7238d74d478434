// Package handlers writes JSON responses and failure envelopes.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorDetail is the machine-readable part of a failure envelope.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Failure is the response body for every non-2xx answer.
type Failure struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// RespondJSON writes data as JSON with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs err and writes a failure envelope carrying code and the
// error text.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(context.Background(), level, "request failed", "status", status, "code", code, "error", msg)

	RespondJSON(w, status, Failure{
		Error: ErrorDetail{Code: code, Message: msg},
	})
}
