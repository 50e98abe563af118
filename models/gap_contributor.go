package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContributorStatus string

const (
	ContributorInterested ContributorStatus = "interested"
	ContributorHelping    ContributorStatus = "helping"
	ContributorCompleted  ContributorStatus = "completed"
)

func (s ContributorStatus) Valid() bool {
	return s == ContributorInterested || s == ContributorHelping || s == ContributorCompleted
}

// GapContributor tags a user against a project gap. At most one active row per (gap, user).
type GapContributor struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	GapID       uuid.UUID         `json:"gap_id" gorm:"type:uuid;not null;uniqueIndex:idx_gap_contributors_active,where:deleted_at IS NULL"`
	UserID      uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_gap_contributors_active"`
	Status      ContributorStatus `json:"status" gorm:"type:text;not null"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `json:"-" gorm:"index"`
	Contributor *ProfileSummary   `json:"contributor,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

func (GapContributor) TableName() string { return "gap_contributors" }

func (c *GapContributor) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = ContributorInterested
	}
	return nil
}
