package models

import "github.com/google/uuid"

// ProjectTechnology links a project to a technology. Pure membership
// pair; rows are only ever created or deleted, never updated.
type ProjectTechnology struct {
	ProjectID    uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;primaryKey;not null;index:idx_project_technology_project_id"`
	TechnologyID uuid.UUID `json:"technology_id" db:"technology_id" gorm:"type:uuid;primaryKey;not null"`
}
