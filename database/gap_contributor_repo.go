package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/appcollab/appcollab-backend/models"
)

type GapContributorRepo struct {
	db *gorm.DB
}

func NewGapContributorRepo(db *gorm.DB) *GapContributorRepo {
	return &GapContributorRepo{db}
}

func withContributor(db *gorm.DB) *gorm.DB {
	return db.Preload("Contributor")
}

func (r *GapContributorRepo) FindByGap(ctx context.Context, gapID uuid.UUID) ([]*models.GapContributor, error) {
	var contributors []*models.GapContributor
	err := r.db.WithContext(ctx).
		Scopes(withContributor, oldestFirst).
		Where("gap_id = ?", gapID).
		Find(&contributors).Error
	return contributors, err
}

func (r *GapContributorRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.GapContributor, error) {
	return findByID[models.GapContributor](ctx, r.db, id, withContributor)
}

// FindActive returns the caller's live tag on a gap, or gorm.ErrRecordNotFound.
func (r *GapContributorRepo) FindActive(ctx context.Context, gapID, userID uuid.UUID) (*models.GapContributor, error) {
	var contributor models.GapContributor
	err := r.db.WithContext(ctx).
		Where("gap_id = ? AND user_id = ?", gapID, userID).
		First(&contributor).Error
	if err != nil {
		return nil, err
	}
	return &contributor, nil
}

func (r *GapContributorRepo) Add(ctx context.Context, contributor *models.GapContributor) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(contributor).Error
}

func (r *GapContributorRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ContributorStatus) error {
	return updateColumns[models.GapContributor](ctx, r.db, id, map[string]interface{}{"status": status})
}

func (r *GapContributorRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.GapContributor](ctx, r.db, id)
}
