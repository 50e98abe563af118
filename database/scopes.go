package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// jsonContains filters rows whose JSON array column holds value.
func jsonContains(column string, value string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if db.Dialector.Name() == "postgres" {
			encoded, _ := json.Marshal([]string{value})
			return db.Where(fmt.Sprintf("%s @> ?::jsonb", column), string(encoded))
		}
		return db.Where(fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value = ?)", column), value)
	}
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

func oldestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("Author")
}

func findByID[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, scopes ...func(*gorm.DB) *gorm.DB) (*T, error) {
	var row T
	if err := db.WithContext(ctx).Scopes(scopes...).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// updateColumns writes cols on the live row with the given id. A soft-deleted or missing row yields
// gorm.ErrRecordNotFound.
func updateColumns[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, cols map[string]interface{}) error {
	if len(cols) == 0 {
		return nil
	}
	var model T
	result := db.WithContext(ctx).Model(&model).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// softDelete stamps deleted_at on the live row with the given id. Deleting twice yields
// gorm.ErrRecordNotFound.
func softDelete[T any](ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	var model T
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
