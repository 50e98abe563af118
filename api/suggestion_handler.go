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

type suggestionHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newSuggestionHandler(db database.Database) suggestionHandler {
	logger := log.With().Str("handlerName", "suggestionHandler").Logger()

	return suggestionHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

type suggestionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// loadSuggestion resolves {projectID}/{suggestionID} and checks they belong together.
func (h suggestionHandler) loadSuggestion(r *http.Request) (*models.FeatureSuggestion, *models.Project, error) {
	project, err := loadProject(r, h.db)
	if err != nil {
		return nil, nil, err
	}
	suggestionID, err := uuidParam(r, "suggestionID")
	if err != nil {
		return nil, nil, err
	}
	suggestion, err := h.db.FeatureSuggestionRepo().FindByID(r.Context(), suggestionID)
	if err != nil {
		return nil, nil, wrapDatabaseError("find", "feature suggestion", err)
	}
	if suggestion.ProjectID != project.ID {
		return nil, nil, errs.NewNotFound("feature suggestion")
	}
	return suggestion, project, nil
}

func (h suggestionHandler) listSuggestions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := loadProject(r, h.db)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		suggestions, err := h.db.FeatureSuggestionRepo().FindByProject(r.Context(), project.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "feature suggestions", err))
			return
		}
		h.responder.WriteJSON(w, suggestions)
	}
}

// createSuggestion lets any user propose a feature for a project.
func (h suggestionHandler) createSuggestion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := loadProject(r, h.db)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req suggestionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		title, err := requireText("title", req.Title)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		suggestion := models.FeatureSuggestion{
			ProjectID:   project.ID,
			UserID:      ctxGetCaller(r.Context()).ID,
			Title:       title,
			Description: req.Description,
		}
		if err := h.db.FeatureSuggestionRepo().Add(r.Context(), &suggestion); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "feature suggestion", err))
			return
		}
		created, err := h.db.FeatureSuggestionRepo().FindByID(r.Context(), suggestion.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "feature suggestion", err))
			return
		}
		h.responder.WriteCreated(w, created)
	}
}

// updateSuggestion patches status and content. Each part has its own rule and both are
// checked before anything is written.
// @Summary Update feature suggestion
// @Description status may be changed by the author or a project owner; title and description only by the author
// @Tags Suggestions
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param suggestionID path string true "Suggestion ID" format(uuid)
// @Param patch body models.SuggestionPatch true "Patch"
// @Success 200 {object} models.FeatureSuggestion
// @Failure 403 {object} ErrorResponse
// @Router /projects/{projectID}/suggestions/{suggestionID} [patch]
func (h suggestionHandler) updateSuggestion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())
		suggestion, project, err := h.loadSuggestion(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch models.SuggestionPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if patch.HasStatus() {
			if err := authz.Require(authz.CanChangeSuggestionStatus(caller, suggestion.UserID, project.Owners()), "change the status of this suggestion"); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}
		if patch.HasContent() {
			if err := authz.Require(authz.CanEditSuggestionContent(caller, suggestion.UserID), "edit this suggestion"); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}
		if !patch.HasStatus() && !patch.HasContent() {
			h.responder.WriteJSON(w, suggestion)
			return
		}

		cols := map[string]interface{}{}
		if patch.Status != nil {
			if !patch.Status.Valid() {
				h.responder.WriteError(w, errs.NewInvalidFieldError("status", "must be pending, accepted, rejected or implemented"))
				return
			}
			cols["status"] = *patch.Status
		}
		if title, err := optionalText("title", patch.Title); err != nil {
			h.responder.WriteError(w, err)
			return
		} else if title != nil {
			cols["title"] = *title
		}
		if patch.Description != nil {
			cols["description"] = *patch.Description
		}

		if err := h.db.FeatureSuggestionRepo().Update(r.Context(), suggestion.ID, cols); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "feature suggestion", err))
			return
		}
		updated, err := h.db.FeatureSuggestionRepo().FindByID(r.Context(), suggestion.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "feature suggestion", err))
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

func (h suggestionHandler) deleteSuggestion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		suggestion, _, err := h.loadSuggestion(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := authz.Require(authz.IsAuthor(ctxGetCaller(r.Context()).ID, suggestion.UserID), "delete this suggestion"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.db.FeatureSuggestionRepo().SoftDelete(r.Context(), suggestion.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "feature suggestion", err))
			return
		}
		h.responder.WriteJSON(w, deletedResponse{ID: suggestion.ID.String(), Deleted: true})
	}
}

func (h suggestionHandler) upvoteSuggestion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		suggestion, _, err := h.loadSuggestion(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		upvoted, err := h.db.FeatureSuggestionRepo().Upvote(r.Context(), suggestion.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("upvote", "feature suggestion", err))
			return
		}
		upvotesTotal.WithLabelValues("suggestion").Inc()
		h.responder.WriteJSON(w, upvoted)
	}
}
