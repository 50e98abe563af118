package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SuggestionStatus string

const (
	SuggestionPending     SuggestionStatus = "pending"
	SuggestionAccepted    SuggestionStatus = "accepted"
	SuggestionRejected    SuggestionStatus = "rejected"
	SuggestionImplemented SuggestionStatus = "implemented"
)

func (s SuggestionStatus) Valid() bool {
	switch s {
	case SuggestionPending, SuggestionAccepted, SuggestionRejected, SuggestionImplemented:
		return true
	}
	return false
}

type FeatureSuggestion struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID   uuid.UUID        `json:"project_id" gorm:"type:uuid;not null;index:idx_feature_suggestions_project_id"`
	UserID      uuid.UUID        `json:"user_id" gorm:"type:uuid;not null"`
	Title       string           `json:"title" gorm:"type:text;not null"`
	Description string           `json:"description" gorm:"type:text"`
	Upvotes     int              `json:"upvotes" gorm:"not null;default:0;check:chk_feature_suggestions_upvotes,upvotes >= 0"`
	Status      SuggestionStatus `json:"status" gorm:"type:text;not null"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `json:"-" gorm:"index"`
	Author      *ProfileSummary  `json:"author,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

func (FeatureSuggestion) TableName() string { return "feature_suggestions" }

func (s *FeatureSuggestion) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = SuggestionPending
	}
	return nil
}

// SuggestionPatch carries the independently authorized parts of a suggestion edit.
type SuggestionPatch struct {
	Status      *SuggestionStatus `json:"status"`
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
}

func (p SuggestionPatch) HasStatus() bool { return p.Status != nil }

func (p SuggestionPatch) HasContent() bool { return p.Title != nil || p.Description != nil }
