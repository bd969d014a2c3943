package profile

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers profile routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/user", func(r chi.Router) {
		r.Post("/", h.CreateProfile)
		r.Get("/", h.ListProfiles)

		r.Route("/{profile_id}", func(r chi.Router) {
			r.Get("/", h.GetProfile)
			r.Put("/", h.UpdateProfile)
			r.Get("/export", h.ExportProfile)
		})
	})
}
