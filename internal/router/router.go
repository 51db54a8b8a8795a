// Package router sets up all HTTP routes and middleware chains for the
// feedback board API. Reads are open; writes additionally pass through the
// per-client rate limiter when one is configured.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"feedbackboard/internal/handlers"
	"feedbackboard/internal/middleware"
)

// Banner is the plain-text body served at the root path.
const Banner = "Feedback Board Backend API is running!"

// New creates and returns the configured Chi router with all middleware
// and routes wired up. writeLimiter may be nil to disable rate limiting.
func New(feedback *handlers.Feedback, comments *handlers.Comments, corsOrigins []string, writeLimiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(corsOrigins))

	r.Get("/", bannerHandler)
	r.Get("/health", healthHandler)

	writes := func(r chi.Router) chi.Router {
		if writeLimiter == nil {
			return r
		}
		return r.With(writeLimiter.Middleware)
	}

	r.Route("/feedbacks", func(r chi.Router) {
		r.Get("/", feedback.List)
		writes(r).Post("/", feedback.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", feedback.Get)
			writes(r).Patch("/upvote", feedback.Upvote)
			writes(r).Patch("/status", feedback.SetStatus)

			r.Get("/comments", comments.List)
			writes(r).Post("/comments", comments.Create)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteMessage(w, http.StatusNotFound, "Route not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteMessage(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	return r
}

// bannerHandler confirms the API is up for humans poking at the root.
func bannerHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(Banner))
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
