package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/appcollab/appcollab-backend/authz"
	"github.com/appcollab/appcollab-backend/database"
	"github.com/appcollab/appcollab-backend/errs"
	"github.com/appcollab/appcollab-backend/models"
)

type projectUpdateHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newProjectUpdateHandler(db database.Database) projectUpdateHandler {
	logger := log.With().Str("handlerName", "projectUpdateHandler").Logger()

	return projectUpdateHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

type projectUpdateRequest struct {
	Content string `json:"content"`
}

func (h projectUpdateHandler) listUpdates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := loadProject(r, h.db)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		updates, err := h.db.ProjectUpdateRepo().FindByProject(r.Context(), project.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project updates", err))
			return
		}
		h.responder.WriteJSON(w, updates)
	}
}

// createUpdate posts a progress note
// @Summary Post project update
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 201 {object} models.ProjectUpdate
// @Failure 403 {object} ErrorResponse
// @Router /projects/{projectID}/updates [post]
func (h projectUpdateHandler) createUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())
		project, err := loadProject(r, h.db)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := authz.Require(authz.CanManageProject(caller, project.Owners()), "post updates on this project"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req projectUpdateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		content, err := requireText("content", req.Content)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		update := models.ProjectUpdate{ProjectID: project.ID, UserID: caller.ID, Content: content}
		if err := h.db.ProjectUpdateRepo().Add(r.Context(), &update); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project update", err))
			return
		}
		created, err := h.db.ProjectUpdateRepo().FindByID(r.Context(), update.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project update", err))
			return
		}
		h.responder.WriteCreated(w, created)
	}
}

func (h projectUpdateHandler) deleteUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := loadProject(r, h.db)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		updateID, err := uuidParam(r, "updateID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		update, err := h.db.ProjectUpdateRepo().FindByID(r.Context(), updateID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project update", err))
			return
		}
		if update.ProjectID != project.ID {
			h.responder.WriteError(w, errs.NewNotFound("project update"))
			return
		}
		if err := authz.Require(authz.CanDeleteProjectUpdate(ctxGetCaller(r.Context()), update.UserID, project.Owners()), "delete this update"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.db.ProjectUpdateRepo().SoftDelete(r.Context(), update.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project update", err))
			return
		}
		h.responder.WriteJSON(w, deletedResponse{ID: update.ID.String(), Deleted: true})
	}
}
