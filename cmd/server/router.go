package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bambini-app/bambini-api/internal/api"
	apiMiddleware "github.com/bambini-app/bambini-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.MetricsMiddleware(app.metrics))

	authHandler := api.NewAuthHandler(app.identityService, app.logger)
	childHandler := api.NewChildHandler(app.registryService, app.logger)
	activityHandler := api.NewActivityHandler(app.activityService, app.logger)
	stateHandler := api.NewStateHandler(app.identityService, app.registryService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.identityService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/signup", authHandler.SignUp)
		r.Post("/auth/signin", authHandler.SignIn)
		r.Post("/auth/signout", authHandler.SignOut)
		r.Post("/auth/refresh", authHandler.Refresh)
		r.Post("/auth/confirm", authHandler.Confirm)

		// State resolution tolerates missing credentials
		r.Get("/state", stateHandler.Get)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/children", childHandler.List)
			r.Post("/children", childHandler.Create)
			r.Get("/children/{id}", childHandler.Get)
			r.Post("/children/{id}/link", childHandler.ResumeLink)

			r.Get("/activities", activityHandler.List)
			r.Get("/activities/{id}", activityHandler.Get)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
