package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/appcollab/appcollab-backend/models"
)

type BestPracticeRequestRepo struct {
	db *gorm.DB
}

func NewBestPracticeRequestRepo(db *gorm.DB) *BestPracticeRequestRepo {
	return &BestPracticeRequestRepo{db}
}

// FindAll returns live requests, most upvoted first.
func (r *BestPracticeRequestRepo) FindAll(ctx context.Context, status models.RequestStatus) ([]*models.BestPracticeRequest, error) {
	var requests []*models.BestPracticeRequest
	q := r.db.WithContext(ctx).Scopes(withAuthor).Order("upvotes DESC").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&requests).Error
	return requests, err
}

func (r *BestPracticeRequestRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.BestPracticeRequest, error) {
	return findByID[models.BestPracticeRequest](ctx, r.db, id, withAuthor)
}

func (r *BestPracticeRequestRepo) Add(ctx context.Context, request *models.BestPracticeRequest) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(request).Error
}

func (r *BestPracticeRequestRepo) Update(ctx context.Context, id uuid.UUID, cols map[string]interface{}) error {
	return updateColumns[models.BestPracticeRequest](ctx, r.db, id, cols)
}

func (r *BestPracticeRequestRepo) Upvote(ctx context.Context, id uuid.UUID) (*models.BestPracticeRequest, error) {
	return incrementUpvotes[models.BestPracticeRequest](ctx, r.db, id, withAuthor)
}

func (r *BestPracticeRequestRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.BestPracticeRequest](ctx, r.db, id)
}
