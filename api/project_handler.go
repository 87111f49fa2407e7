package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mvaldes/portfolio-backend/database"
	"github.com/mvaldes/portfolio-backend/errs"
	"github.com/mvaldes/portfolio-backend/models"
	"github.com/mvaldes/portfolio-backend/services"
	"github.com/mvaldes/portfolio-backend/storage"
)

type projectHandler struct {
	responder      Responder
	logger         zerolog.Logger
	projectRepo    *database.ProjectRepo
	technologyRepo *database.TechnologyRepo
	reconciler     *services.TagReconciler
	imageStore     *storage.ImageStore
}

func newProjectHandler(projectRepo *database.ProjectRepo, technologyRepo *database.TechnologyRepo, reconciler *services.TagReconciler, imageStore *storage.ImageStore) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		projectRepo:    projectRepo,
		technologyRepo: technologyRepo,
		reconciler:     reconciler,
		imageStore:     imageStore,
	}
}

type createProjectRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ImageURL     *string  `json:"image_url"`
	ImagePath    *string  `json:"image_path"`
	DemoURL      *string  `json:"demo_url"`
	RepoURL      *string  `json:"repo_url"`
	Technologies []string `json:"technologies"`
}

type updateProjectRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	ImageURL     *string   `json:"image_url"`
	ImagePath    *string   `json:"image_path"`
	DemoURL      *string   `json:"demo_url"`
	RepoURL      *string   `json:"repo_url"`
	Technologies *[]string `json:"technologies"`
}

type technologiesRequest struct {
	Technologies []string `json:"technologies"`
}

// ProjectCollection represents multiple projects with their technologies
type ProjectCollection struct {
	Projects []models.ProjectWithTechnologies `json:"projects"`
	Total    int                              `json:"total"`
}

// getAllProjects retrieves all projects with their technologies, newest
// first. The listing never fails: backend errors degrade to an empty
// list or per-project empty technology lists.
// @Summary Get all projects
// @Tags Projects
// @Produce json
// @Success 200 {object} ProjectCollection "List of projects with technologies"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects := h.projectRepo.FindAllWithTechnologies()

		response := ProjectCollection{
			Projects: projects,
			Total:    len(projects),
		}

		h.responder.WriteJSON(w, response)
	}
}

// getProject retrieves a specific project by ID with its technologies
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.ProjectWithTechnologies "Project details with technologies"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := h.parseProjectID(w, r)
		if !ok {
			return
		}

		project, err := h.projectRepo.FindByIDWithTechnologies(projectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFound("project"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project. Technologies, if provided, are
// attached in a separate reconciliation step after the row insert;
// failures there are logged and do not fail the creation, mirroring
// the two-step submission flow of the frontend.
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body createProjectRequest true "Project data"
// @Success 201 {object} models.ProjectWithTechnologies "Created project with technologies"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Router /project [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("project", err))
			return
		}

		if req.Title == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}

		project := models.Project{
			Title:       req.Title,
			Description: req.Description,
			ImageURL:    req.ImageURL,
			ImagePath:   req.ImagePath,
			DemoURL:     req.DemoURL,
			RepoURL:     req.RepoURL,
		}

		if err := h.projectRepo.Add(&project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		if len(req.Technologies) > 0 {
			if err := h.reconciler.Reconcile(project.ID, req.Technologies); err != nil {
				h.logger.Error().Err(err).
					Str("projectID", project.ID.String()).
					Msg("Failed to attach technologies to new project")
			}
		}

		// Reload project to get technologies
		created, err := h.projectRepo.FindByIDWithTechnologies(project.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find created", "project", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, created)
	}
}

// updateProject applies a partial update of scalar fields; only the
// fields present in the request body are touched. A technologies array,
// if present, is reconciled after the row update and fails loudly.
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param project body updateProjectRequest true "Fields to update"
// @Success 200 {object} models.ProjectWithTechnologies "Updated project with technologies"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := h.parseProjectID(w, r)
		if !ok {
			return
		}

		var req updateProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("project", err))
			return
		}

		if req.Title != nil && *req.Title == "" {
			h.responder.WriteError(w, errs.NewInvalidFieldError("title", "must not be empty"))
			return
		}

		fields := map[string]any{}
		if req.Title != nil {
			fields["title"] = *req.Title
		}
		if req.Description != nil {
			fields["description"] = *req.Description
		}
		if req.ImageURL != nil {
			fields["image_url"] = *req.ImageURL
		}
		if req.ImagePath != nil {
			fields["image_path"] = *req.ImagePath
		}
		if req.DemoURL != nil {
			fields["demo_url"] = *req.DemoURL
		}
		if req.RepoURL != nil {
			fields["repo_url"] = *req.RepoURL
		}

		if len(fields) == 0 && req.Technologies == nil {
			h.responder.WriteError(w, errs.NewBadRequestError("no fields to update"))
			return
		}

		if len(fields) > 0 {
			if err := h.projectRepo.UpdateFields(projectID, fields); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					h.responder.WriteError(w, errs.NewNotFound("project"))
					return
				}
				h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
				return
			}
		}

		if req.Technologies != nil {
			if len(fields) == 0 {
				// Nothing above touched the row; make sure it exists
				// before the reconciler writes links against it.
				if _, err := h.projectRepo.FindByID(projectID); err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						h.responder.WriteError(w, errs.NewNotFound("project"))
						return
					}
					h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
					return
				}
			}
			if err := h.reconciler.Reconcile(projectID, *req.Technologies); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("reconcile technologies for", "project", err))
				return
			}
		}

		updated, err := h.projectRepo.FindByIDWithTechnologies(projectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFound("project"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find updated", "project", err))
			return
		}

		h.responder.WriteJSON(w, updated)
	}
}

// updateProjectTechnologies replaces the project's technology set with
// the requested names
// @Summary Replace project technologies
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param technologies body technologiesRequest true "Desired technology names"
// @Success 200 {object} models.ProjectWithTechnologies "Project with reconciled technologies"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID}/technologies [put]
func (h projectHandler) updateProjectTechnologies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := h.parseProjectID(w, r)
		if !ok {
			return
		}

		var req technologiesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode technologies request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("technologies", err))
			return
		}

		// Verify project exists before touching the join table
		if _, err := h.projectRepo.FindByID(projectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFound("project"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		if err := h.reconciler.Reconcile(projectID, req.Technologies); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("reconcile technologies for", "project", err))
			return
		}

		updated, err := h.projectRepo.FindByIDWithTechnologies(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated", "project", err))
			return
		}

		h.responder.WriteJSON(w, updated)
	}
}

// getAllTechnologies lists the shared technology taxonomy, for tag
// suggestions in the submission form
// @Summary Get all technologies
// @Tags Technologies
// @Produce json
// @Success 200 {object} map[string]any "Technology names and total"
// @Router /technologies [get]
func (h projectHandler) getAllTechnologies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		technologies, err := h.technologyRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "technologies", err))
			return
		}

		if technologies == nil {
			technologies = []*models.Technology{}
		}

		h.responder.WriteJSON(w, map[string]any{
			"technologies": technologies,
			"total":        len(technologies),
		})
	}
}

// deleteProject deletes a project by ID. The stored image is removed
// first, best-effort: a storage failure is logged and never blocks the
// row delete. Join rows go with the project row.
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param imageUrl query string false "Public URL of the stored image to remove"
// @Success 200 {object} map[string]string "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := h.parseProjectID(w, r)
		if !ok {
			return
		}

		project, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFound("project"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		h.deleteProjectImage(r, project)

		if err := h.projectRepo.Delete(projectID); err != nil {
			h.responder.WriteError(w, errs.NewDeletionError("project", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}

// deleteProjectImage removes the project's stored image, preferring the
// stored object key over URL parsing. Failures are logged and swallowed.
func (h projectHandler) deleteProjectImage(r *http.Request, project *models.Project) {
	if h.imageStore == nil {
		return
	}

	if project.ImagePath != nil && *project.ImagePath != "" {
		if err := h.imageStore.Delete(r.Context(), *project.ImagePath); err != nil {
			h.logger.Error().Err(err).Str("imagePath", *project.ImagePath).Msg("Failed to delete project image")
		}
		return
	}

	imageURL := r.URL.Query().Get("imageUrl")
	if imageURL == "" && project.ImageURL != nil {
		imageURL = *project.ImageURL
	}
	if imageURL == "" {
		return
	}

	if err := h.imageStore.DeleteByURL(r.Context(), imageURL); err != nil {
		h.logger.Error().Err(err).Str("imageUrl", imageURL).Msg("Failed to delete project image")
	}
}

func (h projectHandler) parseProjectID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	projectIDStr := chi.URLParam(r, "projectID")
	if projectIDStr == "" {
		h.responder.WriteError(w, errs.NewBadRequestError("missing projectID"))
		return uuid.Nil, false
	}

	projectID, err := uuid.Parse(projectIDStr)
	if err != nil {
		h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
		return uuid.Nil, false
	}

	return projectID, true
}
