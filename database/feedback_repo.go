package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/appcollab/appcollab-backend/models"
)

type FeedbackRepo struct {
	db *gorm.DB
}

func NewFeedbackRepo(db *gorm.DB) *FeedbackRepo {
	return &FeedbackRepo{db}
}

func (r *FeedbackRepo) FindAll(ctx context.Context, category models.FeedbackCategory) ([]*models.Feedback, error) {
	var feedback []*models.Feedback
	q := r.db.WithContext(ctx).Scopes(withAuthor, newestFirst)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Find(&feedback).Error
	return feedback, err
}

func (r *FeedbackRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Feedback, error) {
	return findByID[models.Feedback](ctx, r.db, id, withAuthor)
}

func (r *FeedbackRepo) Add(ctx context.Context, feedback *models.Feedback) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(feedback).Error
}

func (r *FeedbackRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.Feedback](ctx, r.db, id)
}
