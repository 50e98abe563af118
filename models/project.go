package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusIdea        ProjectStatus = "idea"
	ProjectStatusInProgress  ProjectStatus = "in_progress"
	ProjectStatusSeekingHelp ProjectStatus = "seeking_help"
	ProjectStatusOnHold      ProjectStatus = "on_hold"
	ProjectStatusCompleted   ProjectStatus = "completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusIdea, ProjectStatusInProgress, ProjectStatusSeekingHelp, ProjectStatusOnHold, ProjectStatusCompleted:
		return true
	}
	return false
}

// Project is a hackathon project administered by the members of OwnerIDs.
type Project struct {
	ID          uuid.UUID                      `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string                         `json:"title" gorm:"type:text;not null"`
	Description string                         `json:"description" gorm:"type:text;not null"`
	OwnerIDs    datatypes.JSONSlice[uuid.UUID] `json:"owner_ids" gorm:"column:owner_ids;not null"`
	Status      ProjectStatus                  `json:"status" gorm:"type:text;not null;index:idx_projects_status"`
	TechStack   datatypes.JSONSlice[string]    `json:"tech_stack"`
	RepoURL     string                         `json:"repo_url" gorm:"type:text"`
	DemoURL     string                         `json:"demo_url" gorm:"type:text"`
	CreatedAt   time.Time                      `json:"created_at"`
	UpdatedAt   time.Time                      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt                 `json:"-" gorm:"index"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = ProjectStatusIdea
	}
	if p.TechStack == nil {
		p.TechStack = datatypes.JSONSlice[string]{}
	}
	return nil
}

// Owners returns the owner set as a plain slice.
func (p *Project) Owners() []uuid.UUID {
	return []uuid.UUID(p.OwnerIDs)
}

// ProjectInput is the create/update payload for a project. Nil fields are left untouched on update.
type ProjectInput struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	OwnerIDs    *[]uuid.UUID   `json:"owner_ids"`
	Status      *ProjectStatus `json:"status"`
	TechStack   *[]string      `json:"tech_stack"`
	RepoURL     *string        `json:"repo_url"`
	DemoURL     *string        `json:"demo_url"`
}
