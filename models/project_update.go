package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectUpdate is a progress note posted on a project by one of its owners.
type ProjectUpdate struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID       `json:"project_id" gorm:"type:uuid;not null;index:idx_project_updates_project_id"`
	UserID    uuid.UUID       `json:"user_id" gorm:"type:uuid;not null"`
	Content   string          `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `json:"-" gorm:"index"`
	Author    *ProfileSummary `json:"author,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

func (ProjectUpdate) TableName() string { return "project_updates" }

func (u *ProjectUpdate) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
