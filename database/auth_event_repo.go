package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/appcollab/appcollab-backend/models"
)

type AuthEventRepo struct {
	db *gorm.DB
}

func NewAuthEventRepo(db *gorm.DB) *AuthEventRepo {
	return &AuthEventRepo{db}
}

func (r *AuthEventRepo) Add(ctx context.Context, event *models.AuthEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *AuthEventRepo) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.AuthEvent, error) {
	var events []*models.AuthEvent
	q := r.db.WithContext(ctx).Scopes(newestFirst).Where("user_id = ?", userID)
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&events).Error
	return events, err
}
