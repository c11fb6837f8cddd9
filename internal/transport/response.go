package transport

import (
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

const maxBodyBytes = 1 << 20

// APIError is the error body of every JSON API failure.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type errorResponse struct {
	Error *APIError `json:"error"`
}

// WriteJSON writes payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError writes an API error response.
func WriteError(w http.ResponseWriter, status int, apiErr *APIError) {
	WriteJSON(w, status, errorResponse{Error: apiErr})
}

// DecodeJSON decodes a request body into out, rejecting unknown fields.
func DecodeJSON(body io.Reader, out any) error {
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	return nil
}
