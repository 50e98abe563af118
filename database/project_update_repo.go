package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/appcollab/appcollab-backend/models"
)

type ProjectUpdateRepo struct {
	db *gorm.DB
}

func NewProjectUpdateRepo(db *gorm.DB) *ProjectUpdateRepo {
	return &ProjectUpdateRepo{db}
}

func (r *ProjectUpdateRepo) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*models.ProjectUpdate, error) {
	var updates []*models.ProjectUpdate
	err := r.db.WithContext(ctx).
		Scopes(withAuthor, newestFirst).
		Where("project_id = ?", projectID).
		Find(&updates).Error
	return updates, err
}

func (r *ProjectUpdateRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ProjectUpdate, error) {
	return findByID[models.ProjectUpdate](ctx, r.db, id, withAuthor)
}

func (r *ProjectUpdateRepo) Add(ctx context.Context, update *models.ProjectUpdate) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(update).Error
}

func (r *ProjectUpdateRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.ProjectUpdate](ctx, r.db, id)
}
