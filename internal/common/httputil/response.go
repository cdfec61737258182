package httputil

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// WriteJSON writes a JSON response with the given status code and data.
// It properly checks for encoding errors and logs them.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteValidationError writes a 400 response with field-level detail.
func WriteValidationError(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusBadRequest, map[string]string{
		"error":     "VALIDATION_ERROR",
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// WriteInternalError writes a generic 500 response without leaking details.
func WriteInternalError(w http.ResponseWriter) {
	WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error":     "INTERNAL_ERROR",
		"message":   "An unexpected error occurred",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
