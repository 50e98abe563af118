package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BestPracticeStatus string

const (
	BestPracticeDraft     BestPracticeStatus = "draft"
	BestPracticePublished BestPracticeStatus = "published"
	BestPracticeArchived  BestPracticeStatus = "archived"
)

func (s BestPracticeStatus) Valid() bool {
	return s == BestPracticeDraft || s == BestPracticePublished || s == BestPracticeArchived
}

type BestPractice struct {
	ID          uuid.UUID          `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID          `json:"user_id" gorm:"type:uuid;not null;index:idx_best_practices_user_id"`
	Title       string             `json:"title" gorm:"type:text;not null"`
	Description string             `json:"description" gorm:"type:text"`
	Content     string             `json:"content" gorm:"type:text"`
	Category    string             `json:"category" gorm:"type:text;index:idx_best_practices_category"`
	Status      BestPracticeStatus `json:"status" gorm:"type:text;not null;index:idx_best_practices_status"`
	Upvotes     int                `json:"upvotes" gorm:"not null;default:0;check:chk_best_practices_upvotes,upvotes >= 0"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	DeletedAt   gorm.DeletedAt     `json:"-" gorm:"index"`
	Author      *ProfileSummary    `json:"author,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

func (BestPractice) TableName() string { return "best_practices" }

func (b *BestPractice) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = BestPracticeDraft
	}
	return nil
}

func (b *BestPractice) IsPublished() bool {
	return b.Status == BestPracticePublished
}

type BestPracticeInput struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Content     *string             `json:"content"`
	Category    *string             `json:"category"`
	Status      *BestPracticeStatus `json:"status"`
}

// BestPracticeComment is a reader comment on a published best practice.
type BestPracticeComment struct {
	ID             uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	BestPracticeID uuid.UUID       `json:"best_practice_id" gorm:"type:uuid;not null;index:idx_best_practice_comments_parent"`
	UserID         uuid.UUID       `json:"user_id" gorm:"type:uuid;not null"`
	Content        string          `json:"content" gorm:"type:text;not null"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `json:"-" gorm:"index"`
	Author         *ProfileSummary `json:"author,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

func (BestPracticeComment) TableName() string { return "best_practice_comments" }

func (c *BestPracticeComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
