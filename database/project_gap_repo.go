package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/appcollab/appcollab-backend/models"
)

type ProjectGapRepo struct {
	db *gorm.DB
}

func NewProjectGapRepo(db *gorm.DB) *ProjectGapRepo {
	return &ProjectGapRepo{db}
}

func (r *ProjectGapRepo) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*models.ProjectGap, error) {
	var gaps []*models.ProjectGap
	err := r.db.WithContext(ctx).Scopes(oldestFirst).Where("project_id = ?", projectID).Find(&gaps).Error
	return gaps, err
}

func (r *ProjectGapRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ProjectGap, error) {
	return findByID[models.ProjectGap](ctx, r.db, id)
}

func (r *ProjectGapRepo) Add(ctx context.Context, gap *models.ProjectGap) error {
	return r.db.WithContext(ctx).Create(gap).Error
}

func (r *ProjectGapRepo) Update(ctx context.Context, id uuid.UUID, cols map[string]interface{}) error {
	return updateColumns[models.ProjectGap](ctx, r.db, id, cols)
}

func (r *ProjectGapRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.ProjectGap](ctx, r.db, id)
}
