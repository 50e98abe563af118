package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// incrementUpvotes adds one to the upvotes column in a single statement and returns the fresh row.
func incrementUpvotes[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, scopes ...func(*gorm.DB) *gorm.DB) (*T, error) {
	var model T
	result := db.WithContext(ctx).
		Model(&model).
		Where("id = ?", id).
		UpdateColumn("upvotes", gorm.Expr("upvotes + ?", 1))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return findByID[T](ctx, db, id, scopes...)
}
