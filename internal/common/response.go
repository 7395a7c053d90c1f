package common

import (
	"encoding/json"
	"net/http"
)

// JSON writes the provided value to the response writer as JSON.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError renders the canonical error payload: a human-readable message
// under "error" plus a stable machine code.
func JSONError(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}
