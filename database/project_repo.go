package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/appcollab/appcollab-backend/models"
)

// ProjectFilter narrows FindAll. Zero values match everything.
type ProjectFilter struct {
	OwnerID uuid.UUID
	Status  models.ProjectStatus
}

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns live projects, newest first.
func (r *ProjectRepo) FindAll(ctx context.Context, filter ProjectFilter) ([]*models.Project, error) {
	var projects []*models.Project
	q := r.db.WithContext(ctx).Scopes(newestFirst)
	if filter.OwnerID != uuid.Nil {
		q = q.Scopes(jsonContains("owner_ids", filter.OwnerID.String()))
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	err := q.Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return findByID[models.Project](ctx, r.db, id)
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error
}

func (r *ProjectRepo) Update(ctx context.Context, id uuid.UUID, cols map[string]interface{}) error {
	return updateColumns[models.Project](ctx, r.db, id, cols)
}

func (r *ProjectRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.Project](ctx, r.db, id)
}
