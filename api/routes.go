package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes sets up all routes served to the frontend
func setupRoutes(r chi.Router, handlers *routeHandlers) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		// Project endpoints
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/project/{projectID}", handlers.projectHandler.getProject())
		r.Post("/project", handlers.projectHandler.createProject())
		r.Put("/project/{projectID}", handlers.projectHandler.updateProject())
		r.Put("/project/{projectID}/technologies", handlers.projectHandler.updateProjectTechnologies())
		r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())

		// Technology taxonomy
		r.Get("/technologies", handlers.projectHandler.getAllTechnologies())

		// Image storage endpoints
		r.Post("/image", handlers.imageHandler.uploadImage())
		r.Delete("/image", handlers.imageHandler.deleteImage())
		r.Get("/storage/status", handlers.imageHandler.bucketStatus())
	})
}
