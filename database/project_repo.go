package database

import (
	"github.com/google/uuid"
	"github.com/mvaldes/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	logger := log.With().Str("repoName", "projectRepo").Logger()
	return &ProjectRepo{db: db, logger: logger}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProjectRepo) GetDB() *gorm.DB {
	return r.db
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID returns a project row by its ID without resolving technologies
func (r *ProjectRepo) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByIDWithTechnologies returns a project by its ID with its
// technology names resolved through the join table.
func (r *ProjectRepo) FindByIDWithTechnologies(id uuid.UUID) (*models.ProjectWithTechnologies, error) {
	project, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}

	technologies, err := r.resolveTechnologies(id)
	if err != nil {
		return nil, err
	}

	return &models.ProjectWithTechnologies{
		Project:      *project,
		Technologies: technologies,
	}, nil
}

// FindAllWithTechnologies returns all projects, newest first, each with
// its resolved technology list.
//
// The read path fails soft: a failure fetching the base rows yields an
// empty slice, and a tag-resolution failure for one project degrades
// that project's technology list to empty instead of failing the whole
// listing. Write paths fail loudly; this is the one deliberate
// exception so the listing view survives backend flakiness.
func (r *ProjectRepo) FindAllWithTechnologies() []models.ProjectWithTechnologies {
	var projects []models.Project
	if err := r.db.Order("created_at DESC").Find(&projects).Error; err != nil {
		r.logger.Error().Err(err).Msg("Failed to fetch projects, returning empty list")
		return []models.ProjectWithTechnologies{}
	}

	results := make([]models.ProjectWithTechnologies, len(projects))

	// Per-project resolution is independent, so run it concurrently.
	var g errgroup.Group
	g.SetLimit(8)
	for i, project := range projects {
		i, project := i, project
		g.Go(func() error {
			technologies, err := r.resolveTechnologies(project.ID)
			if err != nil {
				r.logger.Error().Err(err).
					Str("projectID", project.ID.String()).
					Msg("Failed to resolve project technologies, degrading to empty list")
				technologies = []models.Technology{}
			}
			results[i] = models.ProjectWithTechnologies{
				Project:      project,
				Technologies: technologies,
			}
			return nil
		})
	}
	g.Wait()

	return results
}

// resolveTechnologies joins project_technologies -> technologies for one project
func (r *ProjectRepo) resolveTechnologies(projectID uuid.UUID) ([]models.Technology, error) {
	var links []models.ProjectTechnology
	if err := r.db.Where("project_id = ?", projectID).Find(&links).Error; err != nil {
		return nil, err
	}

	if len(links) == 0 {
		return []models.Technology{}, nil
	}

	technologyIDs := make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		technologyIDs = append(technologyIDs, link.TechnologyID)
	}

	var technologies []models.Technology
	if err := r.db.Where("id IN ?", technologyIDs).Find(&technologies).Error; err != nil {
		return nil, err
	}
	return technologies, nil
}

// UpdateFields applies a partial update of scalar columns to the
// project matching id. Updating a missing project is an error.
func (r *ProjectRepo) UpdateFields(id uuid.UUID, fields map[string]any) error {
	result := r.db.Model(&models.Project{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a project from the database by id. Join rows are
// deleted explicitly first so the operation does not depend on the
// store having a cascade configured.
func (r *ProjectRepo) Delete(id uuid.UUID) error {
	if err := r.db.Where("project_id = ?", id).Delete(&models.ProjectTechnology{}).Error; err != nil {
		return err
	}

	result := r.db.Delete(&models.Project{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
