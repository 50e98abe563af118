package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestOpen       RequestStatus = "open"
	RequestInProgress RequestStatus = "in_progress"
	RequestFulfilled  RequestStatus = "fulfilled"
	RequestClosed     RequestStatus = "closed"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestOpen, RequestInProgress, RequestFulfilled, RequestClosed:
		return true
	}
	return false
}

// BestPracticeRequest asks the community to write up a best practice on a topic.
type BestPracticeRequest struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID       `json:"user_id" gorm:"type:uuid;not null"`
	Title       string          `json:"title" gorm:"type:text;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Status      RequestStatus   `json:"status" gorm:"type:text;not null"`
	Upvotes     int             `json:"upvotes" gorm:"not null;default:0;check:chk_best_practice_requests_upvotes,upvotes >= 0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`
	Author      *ProfileSummary `json:"author,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

func (BestPracticeRequest) TableName() string { return "best_practice_requests" }

func (r *BestPracticeRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = RequestOpen
	}
	return nil
}
