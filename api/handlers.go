package api

import (
	"github.com/mvaldes/portfolio-backend/database"
	"github.com/mvaldes/portfolio-backend/services"
	"github.com/mvaldes/portfolio-backend/storage"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, imageStore *storage.ImageStore) *routeHandlers {
	reconciler := services.NewTagReconciler(database.TechnologyRepo(), database.ProjectTechnologyRepo())

	return &routeHandlers{
		projectHandler: newProjectHandler(database.ProjectRepo(), database.TechnologyRepo(), reconciler, imageStore),
		imageHandler:   newImageHandler(imageStore),
	}
}
