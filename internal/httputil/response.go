package httputil

import (
	"encoding/json"
	"net/http"
)

// ErrorDetail is the body of the uniform error envelope. Timestamp is
// generated at translation time, not at raise time.
type ErrorDetail struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
	Method    string `json:"method"`
}

// ErrorEnvelope is the shape every failed request returns, on every error path.
type ErrorEnvelope struct {
	Error ErrorDetail `json:"error"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
