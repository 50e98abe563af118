package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/appcollab/appcollab-backend/models"
)

type FeatureSuggestionRepo struct {
	db *gorm.DB
}

func NewFeatureSuggestionRepo(db *gorm.DB) *FeatureSuggestionRepo {
	return &FeatureSuggestionRepo{db}
}

func (r *FeatureSuggestionRepo) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*models.FeatureSuggestion, error) {
	var suggestions []*models.FeatureSuggestion
	err := r.db.WithContext(ctx).
		Scopes(withAuthor, newestFirst).
		Where("project_id = ?", projectID).
		Find(&suggestions).Error
	return suggestions, err
}

func (r *FeatureSuggestionRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.FeatureSuggestion, error) {
	return findByID[models.FeatureSuggestion](ctx, r.db, id, withAuthor)
}

func (r *FeatureSuggestionRepo) Add(ctx context.Context, suggestion *models.FeatureSuggestion) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(suggestion).Error
}

func (r *FeatureSuggestionRepo) Update(ctx context.Context, id uuid.UUID, cols map[string]interface{}) error {
	return updateColumns[models.FeatureSuggestion](ctx, r.db, id, cols)
}

func (r *FeatureSuggestionRepo) Upvote(ctx context.Context, id uuid.UUID) (*models.FeatureSuggestion, error) {
	return incrementUpvotes[models.FeatureSuggestion](ctx, r.db, id, withAuthor)
}

func (r *FeatureSuggestionRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.FeatureSuggestion](ctx, r.db, id)
}
