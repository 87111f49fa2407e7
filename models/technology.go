package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Technology represents a tag shared across projects. Names are unique
// and case-sensitive; technologies are never deleted when the last
// project referencing them goes away.
type Technology struct {
	ID   uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name string    `json:"name" db:"name" gorm:"type:text;not null;unique"`
}

func (t *Technology) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
