package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/appcollab/appcollab-backend/models"
)

type BestPracticeCommentRepo struct {
	db *gorm.DB
}

func NewBestPracticeCommentRepo(db *gorm.DB) *BestPracticeCommentRepo {
	return &BestPracticeCommentRepo{db}
}

// FindByBestPractice returns the thread oldest first, each comment joined with its author.
func (r *BestPracticeCommentRepo) FindByBestPractice(ctx context.Context, bestPracticeID uuid.UUID) ([]*models.BestPracticeComment, error) {
	var comments []*models.BestPracticeComment
	err := r.db.WithContext(ctx).
		Scopes(withAuthor, oldestFirst).
		Where("best_practice_id = ?", bestPracticeID).
		Find(&comments).Error
	return comments, err
}

func (r *BestPracticeCommentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.BestPracticeComment, error) {
	return findByID[models.BestPracticeComment](ctx, r.db, id, withAuthor)
}

func (r *BestPracticeCommentRepo) Add(ctx context.Context, comment *models.BestPracticeComment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

func (r *BestPracticeCommentRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.BestPracticeComment](ctx, r.db, id)
}

type FeedbackCommentRepo struct {
	db *gorm.DB
}

func NewFeedbackCommentRepo(db *gorm.DB) *FeedbackCommentRepo {
	return &FeedbackCommentRepo{db}
}

func (r *FeedbackCommentRepo) FindByFeedback(ctx context.Context, feedbackID uuid.UUID) ([]*models.FeedbackComment, error) {
	var comments []*models.FeedbackComment
	err := r.db.WithContext(ctx).
		Scopes(withAuthor, oldestFirst).
		Where("feedback_id = ?", feedbackID).
		Find(&comments).Error
	return comments, err
}

func (r *FeedbackCommentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.FeedbackComment, error) {
	return findByID[models.FeedbackComment](ctx, r.db, id, withAuthor)
}

func (r *FeedbackCommentRepo) Add(ctx context.Context, comment *models.FeedbackComment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

func (r *FeedbackCommentRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.FeedbackComment](ctx, r.db, id)
}
