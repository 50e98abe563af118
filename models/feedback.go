package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeedbackCategory string

const (
	FeedbackBug     FeedbackCategory = "bug"
	FeedbackFeature FeedbackCategory = "feature"
	FeedbackGeneral FeedbackCategory = "general"
)

func (c FeedbackCategory) Valid() bool {
	return c == FeedbackBug || c == FeedbackFeature || c == FeedbackGeneral
}

// Feedback is app-level feedback left by a user.
type Feedback struct {
	ID        uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID        `json:"user_id" gorm:"type:uuid;not null"`
	Title     string           `json:"title" gorm:"type:text;not null"`
	Content   string           `json:"content" gorm:"type:text;not null"`
	Category  FeedbackCategory `json:"category" gorm:"type:text;not null"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `json:"-" gorm:"index"`
	Author    *ProfileSummary  `json:"author,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

func (Feedback) TableName() string { return "feedback" }

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.Category == "" {
		f.Category = FeedbackGeneral
	}
	return nil
}

type FeedbackComment struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	FeedbackID uuid.UUID       `json:"feedback_id" gorm:"type:uuid;not null;index:idx_feedback_comments_parent"`
	UserID     uuid.UUID       `json:"user_id" gorm:"type:uuid;not null"`
	Content    string          `json:"content" gorm:"type:text;not null"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `json:"-" gorm:"index"`
	Author     *ProfileSummary `json:"author,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

func (FeedbackComment) TableName() string { return "feedback_comments" }

func (c *FeedbackComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
