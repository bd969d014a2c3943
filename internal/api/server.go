package api

import (
	"net/http"
	"time"

	"github.com/futig/onboarding-backend/internal/api/docs"
	"github.com/futig/onboarding-backend/internal/api/middleware"
	onboardingapi "github.com/futig/onboarding-backend/internal/api/onboarding"
	profileapi "github.com/futig/onboarding-backend/internal/api/profile"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(profileHandler *profileapi.Handler, onboardingHandler *onboardingapi.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                  // Recover from panics
	r.Use(chimiddleware.RequestID)                  // Add request ID
	r.Use(middleware.Logger(logger))                // Log requests
	r.Use(middleware.CORS)                          // Handle CORS
	r.Use(chimiddleware.Timeout(120 * time.Second)) // Default timeout, above completion latency

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Register routes
	profileapi.RegisterRoutes(r, profileHandler)
	onboardingapi.RegisterRoutes(r, onboardingHandler)

	return r
}
