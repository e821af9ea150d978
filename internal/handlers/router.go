package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires the HTTP surface. Mutating endpoints sit behind the API
// key; run submission is additionally rate limited per (IP, user id)
// inside the handler, after validation.
func (h *Handler) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Api-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/leaderboard", h.GetLeaderboard)
		r.Get("/players/{userID}", h.GetPlayer)
		r.Get("/players/{userID}/deck", h.GetDeck)
		r.Get("/content/{kind}", h.GetContent)

		r.Group(func(r chi.Router) {
			r.Use(h.APIKeyMiddleware)
			r.Put("/players", h.UpsertPlayer)
			r.Post("/system/install", h.InstallDatabase)
			r.Post("/runs", h.SubmitRun)
		})
	})

	return r
}
