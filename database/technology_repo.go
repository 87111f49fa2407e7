package database

import (
	"github.com/mvaldes/portfolio-backend/models"
	"gorm.io/gorm"
)

type TechnologyRepo struct {
	db *gorm.DB
}

func NewTechnologyRepo(db *gorm.DB) *TechnologyRepo {
	return &TechnologyRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *TechnologyRepo) GetDB() *gorm.DB {
	return r.db
}

// FindAll returns all technologies from the database
func (r *TechnologyRepo) FindAll() ([]*models.Technology, error) {
	var technologies []*models.Technology
	err := r.db.Find(&technologies).Error
	return technologies, err
}

// FindByNames returns the technologies whose name is in names, in one
// batched query. Matching is case-sensitive and exact.
func (r *TechnologyRepo) FindByNames(names []string) ([]models.Technology, error) {
	var technologies []models.Technology
	err := r.db.Where("name IN ?", names).Find(&technologies).Error
	return technologies, err
}

// AddBatch inserts the given technologies in one statement; their IDs
// are assigned before insert and readable afterwards.
func (r *TechnologyRepo) AddBatch(technologies []models.Technology) ([]models.Technology, error) {
	if len(technologies) == 0 {
		return technologies, nil
	}
	if err := r.db.Create(&technologies).Error; err != nil {
		return nil, err
	}
	return technologies, nil
}
