package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"finanzas/internal/core"
)

// statusResult is the envelope returned by every mutating endpoint.
type statusResult struct {
	Success bool           `json:"success"`
	ID      int64          `json:"id,omitempty"`
	Error   string         `json:"error,omitempty"`
	Kind    core.ErrorKind `json:"kind,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusForKind maps the error taxonomy to HTTP status codes.
func statusForKind(kind core.ErrorKind) int {
	switch kind {
	case core.KindValidation:
		return http.StatusUnprocessableEntity
	case core.KindConstraint:
		return http.StatusConflict
	case core.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError converts any store fault into a structured outcome; no
// fault propagates as a raw stack trace.
func respondError(w http.ResponseWriter, err error) {
	kind := core.KindOf(err)
	respondJSON(w, statusForKind(kind), statusResult{
		Success: false,
		Error:   err.Error(),
		Kind:    kind,
	})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, statusResult{
		Success: false,
		Error:   message,
		Kind:    core.KindValidation,
	})
}

// decodeJSON parses a request body into a typed request struct,
// rejecting malformed payloads before they reach the store.
func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	if len(body) == 0 {
		return fmt.Errorf("empty request body")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON payload: %w", err)
	}
	return nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
