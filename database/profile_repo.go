package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/appcollab/appcollab-backend/models"
)

type ProfileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) *ProfileRepo {
	return &ProfileRepo{db}
}

// FindAll returns live profiles, newest first. A non-empty skill keeps only profiles listing it.
func (r *ProfileRepo) FindAll(ctx context.Context, skill string) ([]*models.Profile, error) {
	var profiles []*models.Profile
	q := r.db.WithContext(ctx).Scopes(newestFirst)
	if skill != "" {
		q = q.Scopes(jsonContains("skills", skill))
	}
	err := q.Find(&profiles).Error
	return profiles, err
}

// FindAllIncludingDeleted is the admin listing; deleted_at is populated for removed users.
func (r *ProfileRepo) FindAllIncludingDeleted(ctx context.Context) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := r.db.WithContext(ctx).Unscoped().Scopes(newestFirst).Find(&profiles).Error
	return profiles, err
}

func (r *ProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return findByID[models.Profile](ctx, r.db, id)
}

// FindByIDIncludingDeleted lets callers tell a removed account apart from a missing one.
func (r *ProfileRepo) FindByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return findByID[models.Profile](ctx, r.db.Unscoped(), id)
}

func (r *ProfileRepo) Add(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// Upsert inserts the profile or overwrites username, full name and role of an existing row,
// reviving it if it was soft deleted.
func (r *ProfileRepo) Upsert(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"username":   profile.Username,
			"full_name":  profile.FullName,
			"role":       profile.Role,
			"deleted_at": nil,
		}),
	}).Create(profile).Error
}

// EnsureExists creates a bare profile for id unless one already exists (live or deleted).
func (r *ProfileRepo) EnsureExists(ctx context.Context, profile *models.Profile) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(profile)
	return result.RowsAffected > 0, result.Error
}

func (r *ProfileRepo) Update(ctx context.Context, id uuid.UUID, update models.ProfileUpdate) error {
	return updateColumns[models.Profile](ctx, r.db, id, update.Columns())
}

func (r *ProfileRepo) SetRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	return updateColumns[models.Profile](ctx, r.db, id, map[string]interface{}{"role": role})
}

func (r *ProfileRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.Profile](ctx, r.db, id)
}
