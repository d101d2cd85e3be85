// Package httputil holds the JSON request/response helpers shared by the
// bridge's HTTP handlers.
package httputil

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
)

// ErrorResponse is the wire format for every failed command invocation.
// ErrorCode is omitted when the failure carries no machine-readable code.
type ErrorResponse struct {
	ErrorMessage string `json:"errorMessage"`
	ErrorCode    string `json:"errorCode,omitempty"`
}

// ParseJSON decodes the request body into v. It rejects bodies whose declared
// content type is present but not JSON, and empty bodies.
func ParseJSON(r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != "application/json" {
			return fmt.Errorf("unsupported content type %q", ct)
		}
	}
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("parse request body: %w", err)
	}
	return nil
}

// OkJSON writes a JSON response with 200 OK status
func OkJSON(w http.ResponseWriter, v any) {
	WriteJSON(w, http.StatusOK, v)
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error writes the standard error body with the given status code.
func Error(w http.ResponseWriter, status int, message, code string) {
	WriteJSON(w, status, ErrorResponse{
		ErrorMessage: message,
		ErrorCode:    code,
	})
}

// Unauthorized rejects the request with 401 and an intentionally empty body —
// callers get no detail about why the token was refused.
func Unauthorized(w http.ResponseWriter) {
	w.WriteHeader(http.StatusUnauthorized)
}
