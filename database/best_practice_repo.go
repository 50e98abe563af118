package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/appcollab/appcollab-backend/models"
)

type BestPracticeFilter struct {
	Status   models.BestPracticeStatus
	Category string
	AuthorID uuid.UUID
	// VisibleTo keeps published rows plus that user's own rows in any status.
	VisibleTo uuid.UUID
}

type BestPracticeRepo struct {
	db *gorm.DB
}

func NewBestPracticeRepo(db *gorm.DB) *BestPracticeRepo {
	return &BestPracticeRepo{db}
}

func (r *BestPracticeRepo) FindAll(ctx context.Context, filter BestPracticeFilter) ([]*models.BestPractice, error) {
	var practices []*models.BestPractice
	q := r.db.WithContext(ctx).Scopes(withAuthor, newestFirst)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.AuthorID != uuid.Nil {
		q = q.Where("user_id = ?", filter.AuthorID)
	}
	if filter.VisibleTo != uuid.Nil {
		q = q.Where("(status = ? OR user_id = ?)", models.BestPracticePublished, filter.VisibleTo)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	err := q.Find(&practices).Error
	return practices, err
}

func (r *BestPracticeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.BestPractice, error) {
	return findByID[models.BestPractice](ctx, r.db, id, withAuthor)
}

func (r *BestPracticeRepo) Add(ctx context.Context, practice *models.BestPractice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(practice).Error
}

func (r *BestPracticeRepo) Update(ctx context.Context, id uuid.UUID, cols map[string]interface{}) error {
	return updateColumns[models.BestPractice](ctx, r.db, id, cols)
}

// Upvote increments only published practices; others yield gorm.ErrRecordNotFound.
func (r *BestPracticeRepo) Upvote(ctx context.Context, id uuid.UUID) (*models.BestPractice, error) {
	published := func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", models.BestPracticePublished)
	}
	var model models.BestPractice
	result := r.db.WithContext(ctx).
		Model(&model).
		Scopes(published).
		Where("id = ?", id).
		UpdateColumn("upvotes", gorm.Expr("upvotes + ?", 1))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *BestPracticeRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.BestPractice](ctx, r.db, id)
}
