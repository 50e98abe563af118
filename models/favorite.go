package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite bookmarks a project for a user.
type Favorite struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_active,where:deleted_at IS NULL"`
	ProjectID uuid.UUID      `json:"project_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_active"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Project   *Project       `json:"project,omitempty" gorm:"foreignKey:ProjectID;references:ID"`
}

func (Favorite) TableName() string { return "favorites" }

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
