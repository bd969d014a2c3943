package onboarding

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers onboarding routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/api/onboarding", h.HandleTurn)
}
