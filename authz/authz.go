// Package authz holds the capability checks applied before every restricted mutation. The
// functions take identities and roles only, so they can be evaluated without touching storage.
package authz

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/appcollab/appcollab-backend/errs"
	"github.com/appcollab/appcollab-backend/models"
)

// Caller is the authenticated identity behind a request.
type Caller struct {
	ID   uuid.UUID
	Role models.Role
}

func IsSelf(callerID, ownerID uuid.UUID) bool {
	return callerID != uuid.Nil && callerID == ownerID
}

func IsProjectOwner(callerID uuid.UUID, ownerIDs []uuid.UUID) bool {
	if callerID == uuid.Nil {
		return false
	}
	for _, id := range ownerIDs {
		if id == callerID {
			return true
		}
	}
	return false
}

func IsAuthor(callerID, authorID uuid.UUID) bool {
	return IsSelf(callerID, authorID)
}

func IsAdmin(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanManageProject covers project edits, gaps and progress updates.
func CanManageProject(c Caller, ownerIDs []uuid.UUID) bool {
	return IsProjectOwner(c.ID, ownerIDs)
}

// CanDeleteProjectUpdate: the poster or any project owner.
func CanDeleteProjectUpdate(c Caller, authorID uuid.UUID, ownerIDs []uuid.UUID) bool {
	return IsAuthor(c.ID, authorID) || IsProjectOwner(c.ID, ownerIDs)
}

func CanChangeSuggestionStatus(c Caller, authorID uuid.UUID, ownerIDs []uuid.UUID) bool {
	return IsAuthor(c.ID, authorID) || IsProjectOwner(c.ID, ownerIDs)
}

func CanEditSuggestionContent(c Caller, authorID uuid.UUID) bool {
	return IsAuthor(c.ID, authorID)
}

// CanManageContributor: the tagged user or any owner of the gap's project.
func CanManageContributor(c Caller, contributorID uuid.UUID, ownerIDs []uuid.UUID) bool {
	return IsSelf(c.ID, contributorID) || IsProjectOwner(c.ID, ownerIDs)
}

// CanModerate lets an author or an admin remove or re-state authored content.
func CanModerate(c Caller, authorID uuid.UUID) bool {
	return IsAuthor(c.ID, authorID) || IsAdmin(c.Role)
}

func CanManageUsers(c Caller) bool {
	return IsAdmin(c.Role)
}

// Require turns a failed check into a 403.
func Require(ok bool, action string) error {
	if ok {
		return nil
	}
	return errs.NewForbiddenError(fmt.Sprintf("not allowed to %s", action))
}
