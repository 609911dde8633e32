package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sagarc03/stratum"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ProblemResponse is one entry of a failed resolution.
type ProblemResponse struct {
	Key     string          `json:"key"`
	Problem stratum.Problem `json:"problem"`
	Message string          `json:"message"`
}

// ReportResponse is returned when a reload fails validation.
type ReportResponse struct {
	ErrorResponse
	Problems []ProblemResponse `json:"problems"`
}

// ConfigResponse is the masked snapshot of a resolved configuration.
type ConfigResponse struct {
	Values   []stratum.Value `json:"values"`
	Warnings []string        `json:"warnings,omitempty"`
}

func newConfigResponse(r *stratum.Resolved) ConfigResponse {
	resp := ConfigResponse{Values: make([]stratum.Value, 0, r.Len())}
	for _, v := range r.Values() {
		resp.Values = append(resp.Values, v.Masked())
	}
	for _, w := range r.Warnings() {
		resp.Warnings = append(resp.Warnings, w.Error())
	}
	return resp
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	if err := WriteJSON(w, code, ErrorResponse{
		Error:   errCode,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes appropriate error response based on error type
func HandleError(w http.ResponseWriter, err error) {
	var report *stratum.Report
	if errors.As(err, &report) {
		slog.Warn("configuration rejected", "problems", report.Len())
		resp := ReportResponse{
			ErrorResponse: ErrorResponse{Error: "invalid_configuration", Message: "Configuration could not be resolved"},
			Problems:      make([]ProblemResponse, 0, report.Len()),
		}
		for _, fe := range report.Errors {
			resp.Problems = append(resp.Problems, ProblemResponse{Key: fe.Key, Problem: fe.Problem, Message: fe.Error()})
		}
		_ = WriteJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	slog.Error("request error", "error", err)

	if errors.Is(err, stratum.ErrSourceUnavailable) {
		WriteError(w, http.StatusServiceUnavailable, "source_unavailable", err.Error())
		return
	}

	if errors.Is(err, ErrNotReady) {
		WriteError(w, http.StatusServiceUnavailable, "not_ready", "Configuration not resolved")
		return
	}

	if errors.Is(err, stratum.ErrUnknownKey) {
		WriteError(w, http.StatusNotFound, "unknown_key", err.Error())
		return
	}

	if errors.Is(err, ErrUnauthorized) {
		WriteError(w, http.StatusUnauthorized, "unauthorized", err.Error())
		return
	}

	// Default internal error
	WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}

func writeNotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotFound, "not_found", "Route not found")
}
