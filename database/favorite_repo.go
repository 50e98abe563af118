package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/appcollab/appcollab-backend/models"
)

type FavoriteRepo struct {
	db *gorm.DB
}

func NewFavoriteRepo(db *gorm.DB) *FavoriteRepo {
	return &FavoriteRepo{db}
}

// FindByUser returns the user's favorites with their projects, newest first. Favorites whose
// project has been removed are skipped.
func (r *FavoriteRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]*models.Favorite, error) {
	var favorites []*models.Favorite
	err := r.db.WithContext(ctx).
		Preload("Project").
		Scopes(newestFirst).
		Where("user_id = ?", userID).
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}
	live := favorites[:0]
	for _, f := range favorites {
		if f.Project != nil {
			live = append(live, f)
		}
	}
	return live, nil
}

func (r *FavoriteRepo) FindActive(ctx context.Context, userID, projectID uuid.UUID) (*models.Favorite, error) {
	var favorite models.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		First(&favorite).Error
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

func (r *FavoriteRepo) Add(ctx context.Context, favorite *models.Favorite) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(favorite).Error
}

// Remove soft-deletes the user's live favorite for a project.
func (r *FavoriteRepo) Remove(ctx context.Context, userID, projectID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
