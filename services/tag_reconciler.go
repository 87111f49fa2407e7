package services

import (
	"github.com/google/uuid"
	"github.com/mvaldes/portfolio-backend/database"
	"github.com/mvaldes/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TagReconciler is the single writer of project/technology
// associations. It brings a project's stored technology set to exactly
// match a desired set of names, creating technology rows that do not
// exist yet. Technology rows are shared across projects and never
// deleted here, even when no project references them anymore.
type TagReconciler struct {
	logger                zerolog.Logger
	technologyRepo        *database.TechnologyRepo
	projectTechnologyRepo *database.ProjectTechnologyRepo
}

func NewTagReconciler(technologyRepo *database.TechnologyRepo, projectTechnologyRepo *database.ProjectTechnologyRepo) *TagReconciler {
	logger := log.With().Str("serviceName", "tagReconciler").Logger()
	return &TagReconciler{
		logger:                logger,
		technologyRepo:        technologyRepo,
		projectTechnologyRepo: projectTechnologyRepo,
	}
}

// Reconcile replaces the project's links with one link per distinct
// desired name:
//
//  1. delete every existing link for the project (unconditional),
//  2. stop if the desired set is empty,
//  3. look up existing technologies by name in one batched query,
//  4. batch-create technologies for names not found,
//  5. insert one link per (project, technology) pair.
//
// The steps are not wrapped in a transaction; a failure mid-way can
// leave the project with fewer links than desired until the next
// successful reconcile. Single-user synchronous submissions make that
// window acceptable.
func (s *TagReconciler) Reconcile(projectID uuid.UUID, desiredNames []string) error {
	if err := s.projectTechnologyRepo.DeleteByProjectID(projectID); err != nil {
		return err
	}

	names := dedupe(desiredNames)
	if len(names) == 0 {
		return nil
	}

	existing, err := s.technologyRepo.FindByNames(names)
	if err != nil {
		return err
	}

	existingByName := make(map[string]models.Technology, len(existing))
	for _, technology := range existing {
		existingByName[technology.Name] = technology
	}

	var missing []models.Technology
	for _, name := range names {
		if _, ok := existingByName[name]; !ok {
			missing = append(missing, models.Technology{Name: name})
		}
	}

	created, err := s.technologyRepo.AddBatch(missing)
	if err != nil {
		return err
	}

	technologies := append(existing, created...)
	links := make([]models.ProjectTechnology, 0, len(technologies))
	for _, technology := range technologies {
		links = append(links, models.ProjectTechnology{
			ProjectID:    projectID,
			TechnologyID: technology.ID,
		})
	}

	if err := s.projectTechnologyRepo.AddBatch(links); err != nil {
		return err
	}

	s.logger.Debug().
		Str("projectID", projectID.String()).
		Int("technologies", len(technologies)).
		Int("created", len(created)).
		Msg("Reconciled project technologies")

	return nil
}

// dedupe keeps the first occurrence of each name, dropping empties
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, name)
	}
	return result
}
