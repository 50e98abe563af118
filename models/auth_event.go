package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthEventType string

const (
	AuthEventLogin  AuthEventType = "login"
	AuthEventSignup AuthEventType = "signup"
)

func (t AuthEventType) Valid() bool {
	return t == AuthEventLogin || t == AuthEventSignup
}

// AuthEvent is an append-only record of a login or signup.
type AuthEvent struct {
	ID        uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index:idx_auth_events_user_id"`
	Event     AuthEventType `json:"event" gorm:"type:text;not null"`
	IPAddress string        `json:"ip_address" gorm:"type:text"`
	UserAgent string        `json:"user_agent" gorm:"type:text"`
	CreatedAt time.Time     `json:"created_at"`
}

func (AuthEvent) TableName() string { return "auth_events" }

func (e *AuthEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
