package authz

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/appcollab/appcollab-backend/errs"
	"github.com/appcollab/appcollab-backend/models"
)

func TestPredicates(t *testing.T) {
	author := uuid.New()
	owner := uuid.New()
	stranger := uuid.New()
	owners := []uuid.UUID{owner}

	asAuthor := Caller{ID: author, Role: models.RoleUser}
	asOwner := Caller{ID: owner, Role: models.RoleUser}
	asStranger := Caller{ID: stranger, Role: models.RoleUser}
	asAdmin := Caller{ID: stranger, Role: models.RoleAdmin}

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"nil caller is never self", IsSelf(uuid.Nil, uuid.Nil), false},
		{"owner manages project", CanManageProject(asOwner, owners), true},
		{"stranger cannot manage project", CanManageProject(asStranger, owners), false},
		{"empty owner set has no owners", IsProjectOwner(owner, nil), false},
		{"author deletes own update", CanDeleteProjectUpdate(asAuthor, author, owners), true},
		{"owner deletes any update", CanDeleteProjectUpdate(asOwner, author, owners), true},
		{"stranger cannot delete update", CanDeleteProjectUpdate(asStranger, author, owners), false},
		{"owner changes suggestion status", CanChangeSuggestionStatus(asOwner, author, owners), true},
		{"stranger cannot change suggestion status", CanChangeSuggestionStatus(asStranger, author, owners), false},
		{"author edits suggestion content", CanEditSuggestionContent(asAuthor, author), true},
		{"owner cannot edit suggestion content", CanEditSuggestionContent(asOwner, author), false},
		{"contributor manages own tag", CanManageContributor(asAuthor, author, owners), true},
		{"owner manages contributor", CanManageContributor(asOwner, author, owners), true},
		{"stranger cannot manage contributor", CanManageContributor(asStranger, author, owners), false},
		{"admin moderates", CanModerate(asAdmin, author), true},
		{"stranger cannot moderate", CanModerate(asStranger, author), false},
		{"admin manages users", CanManageUsers(asAdmin), true},
		{"user cannot manage users", CanManageUsers(asOwner), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestRequire(t *testing.T) {
	if err := Require(true, "edit"); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}

	err := Require(false, "edit suggestion content")
	if err == nil {
		t.Fatal("Expected an error for a failed check")
	}
	if !errs.IsForbidden(err) {
		t.Errorf("Expected a forbidden error, got %v", err)
	}
	if errs.StatusCode(err) != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", errs.StatusCode(err))
	}
}
