package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GapType string

const (
	GapTypeDevelopment GapType = "development"
	GapTypeDesign      GapType = "design"
	GapTypeMarketing   GapType = "marketing"
	GapTypeProduct     GapType = "product"
	GapTypeData        GapType = "data"
	GapTypeBusiness    GapType = "business"
)

var GapTypes = []GapType{GapTypeDevelopment, GapTypeDesign, GapTypeMarketing, GapTypeProduct, GapTypeData, GapTypeBusiness}

func (t GapType) Valid() bool {
	for _, known := range GapTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ProjectGap is a skill a project is missing.
type ProjectGap struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID   uuid.UUID      `json:"project_id" gorm:"type:uuid;not null;index:idx_project_gaps_project_id"`
	GapType     GapType        `json:"gap_type" gorm:"type:text;not null"`
	Description string         `json:"description" gorm:"type:text"`
	IsFilled    bool           `json:"is_filled" gorm:"not null;default:false"`
	CreatedBy   uuid.UUID      `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (ProjectGap) TableName() string { return "project_gaps" }

func (g *ProjectGap) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

type ProjectGapInput struct {
	GapType     *GapType `json:"gap_type"`
	Description *string  `json:"description"`
	IsFilled    *bool    `json:"is_filled"`
}
