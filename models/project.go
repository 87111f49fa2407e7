package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project represents a portfolio project with metadata
type Project struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title       string    `json:"title" db:"title" gorm:"type:text;not null"`
	Description string    `json:"description" db:"description" gorm:"type:text;not null"`
	ImageURL    *string   `json:"image_url,omitempty" db:"image_url" gorm:"type:text"`
	ImagePath   *string   `json:"image_path,omitempty" db:"image_path" gorm:"type:text"`
	DemoURL     *string   `json:"demo_url,omitempty" db:"demo_url" gorm:"type:text"`
	RepoURL     *string   `json:"repo_url,omitempty" db:"repo_url" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" gorm:"type:timestamp;not null"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at" gorm:"type:timestamp;not null"`
}

// BeforeCreate assigns the ID application-side so the model behaves the
// same on Postgres and on the sqlite driver used in tests.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
