package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Profile is the public face of an auth identity. ID equals the Supabase auth user id.
type Profile struct {
	ID          uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey"`
	Username    string                      `json:"username" gorm:"type:text;not null;uniqueIndex:idx_profiles_username"`
	FullName    string                      `json:"full_name" gorm:"type:text"`
	AvatarURL   string                      `json:"avatar_url" gorm:"type:text"`
	Bio         string                      `json:"bio" gorm:"type:text"`
	Skills      datatypes.JSONSlice[string] `json:"skills"`
	GithubURL   string                      `json:"github_url" gorm:"type:text"`
	LinkedinURL string                      `json:"linkedin_url" gorm:"type:text"`
	Role        Role                        `json:"role" gorm:"type:text;not null;index:idx_profiles_role"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
	DeletedAt   gorm.DeletedAt              `json:"deleted_at,omitempty" gorm:"index"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.Role == "" {
		p.Role = RoleUser
	}
	if p.Skills == nil {
		p.Skills = datatypes.JSONSlice[string]{}
	}
	return nil
}

func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

func (p *Profile) Summary() ProfileSummary {
	return ProfileSummary{ID: p.ID, Username: p.Username, FullName: p.FullName, AvatarURL: p.AvatarURL}
}

// ProfileSummary is the projection joined onto comments, updates and suggestions.
type ProfileSummary struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
}

func (ProfileSummary) TableName() string { return "profiles" }

// ProfileUpdate is a partial update of a profile by its owner. Role is not writable here.
type ProfileUpdate struct {
	Username    *string   `json:"username"`
	FullName    *string   `json:"full_name"`
	AvatarURL   *string   `json:"avatar_url"`
	Bio         *string   `json:"bio"`
	Skills      *[]string `json:"skills"`
	GithubURL   *string   `json:"github_url"`
	LinkedinURL *string   `json:"linkedin_url"`
}

// Columns returns the column/value pairs set in the patch.
func (u ProfileUpdate) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if u.Username != nil {
		cols["username"] = *u.Username
	}
	if u.FullName != nil {
		cols["full_name"] = *u.FullName
	}
	if u.AvatarURL != nil {
		cols["avatar_url"] = *u.AvatarURL
	}
	if u.Bio != nil {
		cols["bio"] = *u.Bio
	}
	if u.Skills != nil {
		cols["skills"] = datatypes.JSONSlice[string](*u.Skills)
	}
	if u.GithubURL != nil {
		cols["github_url"] = *u.GithubURL
	}
	if u.LinkedinURL != nil {
		cols["linkedin_url"] = *u.LinkedinURL
	}
	return cols
}
