package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire shape every endpoint responds with: a success
// flag plus either a payload or a human-readable message.
type Envelope struct {
	Success    bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message,omitempty"`
	StatusCode int    `json:"status_code"`
}

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Can't change response at this point
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// Success writes a success envelope
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{
		Success:    true,
		Data:       data,
		StatusCode: http.StatusOK,
	})
}

// Created writes a 201 Created envelope
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Envelope{
		Success:    true,
		Data:       data,
		StatusCode: http.StatusCreated,
	})
}

// Error writes an error envelope
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{
		Success:    false,
		Message:    message,
		StatusCode: status,
	})
}
