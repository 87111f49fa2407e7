package database

import (
	"github.com/google/uuid"
	"github.com/mvaldes/portfolio-backend/models"
	"gorm.io/gorm"
)

type ProjectTechnologyRepo struct {
	db *gorm.DB
}

func NewProjectTechnologyRepo(db *gorm.DB) *ProjectTechnologyRepo {
	return &ProjectTechnologyRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProjectTechnologyRepo) GetDB() *gorm.DB {
	return r.db
}

// AddBatch inserts the given links in one statement
func (r *ProjectTechnologyRepo) AddBatch(links []models.ProjectTechnology) error {
	if len(links) == 0 {
		return nil
	}
	return r.db.Create(&links).Error
}

// DeleteByProjectID removes every link for a project
func (r *ProjectTechnologyRepo) DeleteByProjectID(projectID uuid.UUID) error {
	return r.db.Where("project_id = ?", projectID).Delete(&models.ProjectTechnology{}).Error
}
