package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/appcollab/appcollab-backend/authz"
	"github.com/appcollab/appcollab-backend/database"
	"github.com/appcollab/appcollab-backend/errs"
	"github.com/appcollab/appcollab-backend/models"
)

const unpublishedCommentMessage = "Can only comment on published best practices"

type bestPracticeHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newBestPracticeHandler(db database.Database) bestPracticeHandler {
	logger := log.With().Str("handlerName", "bestPracticeHandler").Logger()

	return bestPracticeHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

type commentRequest struct {
	Content string `json:"content"`
}

// loadVisible returns a best practice the caller may see. Drafts and archived entries are only
// visible to their author and to admins; everyone else gets a 404.
func (h bestPracticeHandler) loadVisible(r *http.Request) (*models.BestPractice, error) {
	id, err := uuidParam(r, "bestPracticeID")
	if err != nil {
		return nil, err
	}
	practice, err := h.db.BestPracticeRepo().FindByID(r.Context(), id)
	if err != nil {
		return nil, wrapDatabaseError("find", "best practice", err)
	}
	if !practice.IsPublished() && !authz.CanModerate(ctxGetCaller(r.Context()), practice.UserID) {
		return nil, errs.NewNotFound("best practice")
	}
	return practice, nil
}

// getAllBestPractices lists best practices
// @Summary List best practices
// @Description Without ?status the caller sees published entries plus their own drafts. ?category= narrows further.
// @Tags BestPractices
// @Produce json
// @Success 200 {array} models.BestPractice
// @Router /best-practices [get]
func (h bestPracticeHandler) getAllBestPractices() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())
		query := r.URL.Query()
		filter := database.BestPracticeFilter{Category: strings.TrimSpace(query.Get("category"))}

		status := models.BestPracticeStatus(query.Get("status"))
		switch {
		case status == "":
			if !authz.IsAdmin(caller.Role) {
				filter.VisibleTo = caller.ID
			}
		case !status.Valid():
			h.responder.WriteError(w, errs.NewInvalidFieldError("status", "must be draft, published or archived"))
			return
		case status == models.BestPracticePublished:
			filter.Status = status
		default:
			filter.Status = status
			if !authz.IsAdmin(caller.Role) {
				filter.AuthorID = caller.ID
			}
		}

		practices, err := h.db.BestPracticeRepo().FindAll(r.Context(), filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "best practices", err))
			return
		}
		h.responder.WriteJSON(w, practices)
	}
}

func (h bestPracticeHandler) getBestPractice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		practice, err := h.loadVisible(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, practice)
	}
}

// createBestPractice stores a new entry, as a draft unless a status is given.
// @Summary Create best practice
// @Tags BestPractices
// @Accept json
// @Produce json
// @Param practice body models.BestPracticeInput true "Best practice"
// @Success 201 {object} models.BestPractice
// @Failure 400 {object} ErrorResponse
// @Router /best-practices [post]
func (h bestPracticeHandler) createBestPractice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input models.BestPracticeInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if input.Title == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}

		practice := models.BestPractice{UserID: ctxGetCaller(r.Context()).ID}
		var err error
		if practice.Title, err = requireText("title", *input.Title); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if input.Description != nil {
			practice.Description = *input.Description
		}
		if input.Content != nil {
			practice.Content = *input.Content
		}
		if input.Category != nil {
			practice.Category = strings.TrimSpace(*input.Category)
		}
		if input.Status != nil {
			if !input.Status.Valid() {
				h.responder.WriteError(w, errs.NewInvalidFieldError("status", "must be draft, published or archived"))
				return
			}
			practice.Status = *input.Status
		}

		if err := h.db.BestPracticeRepo().Add(r.Context(), &practice); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "best practice", err))
			return
		}
		created, err := h.db.BestPracticeRepo().FindByID(r.Context(), practice.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "best practice", err))
			return
		}
		h.responder.WriteCreated(w, created)
	}
}

// updateBestPractice applies a partial update, including status moves. Author only.
func (h bestPracticeHandler) updateBestPractice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		practice, err := h.loadVisible(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := authz.Require(authz.IsAuthor(ctxGetCaller(r.Context()).ID, practice.UserID), "edit this best practice"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input models.BestPracticeInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		cols := map[string]interface{}{}
		if title, err := optionalText("title", input.Title); err != nil {
			h.responder.WriteError(w, err)
			return
		} else if title != nil {
			cols["title"] = *title
		}
		if input.Description != nil {
			cols["description"] = *input.Description
		}
		if input.Content != nil {
			cols["content"] = *input.Content
		}
		if input.Category != nil {
			cols["category"] = strings.TrimSpace(*input.Category)
		}
		if input.Status != nil {
			if !input.Status.Valid() {
				h.responder.WriteError(w, errs.NewInvalidFieldError("status", "must be draft, published or archived"))
				return
			}
			cols["status"] = *input.Status
		}

		if err := h.db.BestPracticeRepo().Update(r.Context(), practice.ID, cols); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "best practice", err))
			return
		}
		updated, err := h.db.BestPracticeRepo().FindByID(r.Context(), practice.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "best practice", err))
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

func (h bestPracticeHandler) deleteBestPractice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		practice, err := h.loadVisible(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := authz.Require(authz.CanModerate(ctxGetCaller(r.Context()), practice.UserID), "delete this best practice"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.db.BestPracticeRepo().SoftDelete(r.Context(), practice.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "best practice", err))
			return
		}
		h.responder.WriteJSON(w, deletedResponse{ID: practice.ID.String(), Deleted: true})
	}
}

// upvoteBestPractice increments the counter of a published entry.
func (h bestPracticeHandler) upvoteBestPractice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		practice, err := h.loadVisible(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if !practice.IsPublished() {
			h.responder.WriteError(w, errs.NewBadRequestError("Can only upvote published best practices"))
			return
		}

		upvoted, err := h.db.BestPracticeRepo().Upvote(r.Context(), practice.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("upvote", "best practice", err))
			return
		}
		upvotesTotal.WithLabelValues("best_practice").Inc()
		h.responder.WriteJSON(w, upvoted)
	}
}

func (h bestPracticeHandler) listComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		practice, err := h.loadVisible(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		comments, err := h.db.BestPracticeCommentRepo().FindByBestPractice(r.Context(), practice.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "comments", err))
			return
		}
		h.responder.WriteJSON(w, comments)
	}
}

// createComment adds a comment to a published best practice and returns it with the poster's
// profile summary.
// @Summary Comment on best practice
// @Tags BestPractices
// @Accept json
// @Produce json
// @Param bestPracticeID path string true "Best practice ID" format(uuid)
// @Success 201 {object} models.BestPracticeComment
// @Failure 400 {object} ErrorResponse "Can only comment on published best practices"
// @Router /best-practices/{bestPracticeID}/comments [post]
func (h bestPracticeHandler) createComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "bestPracticeID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req commentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		content, err := requireText("content", req.Content)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		practice, err := h.db.BestPracticeRepo().FindByID(r.Context(), id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.responder.WriteError(w, errs.NewNotFound("best practice"))
			return
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "best practice", err))
			return
		}
		if !practice.IsPublished() {
			h.responder.WriteError(w, errs.NewBadRequestError(unpublishedCommentMessage))
			return
		}

		comment := models.BestPracticeComment{
			BestPracticeID: practice.ID,
			UserID:         ctxGetCaller(r.Context()).ID,
			Content:        content,
		}
		if err := h.db.BestPracticeCommentRepo().Add(r.Context(), &comment); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "comment", err))
			return
		}
		created, err := h.db.BestPracticeCommentRepo().FindByID(r.Context(), comment.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "comment", err))
			return
		}
		h.responder.WriteCreated(w, created)
	}
}

func (h bestPracticeHandler) deleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		practiceID, err := uuidParam(r, "bestPracticeID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		commentID, err := uuidParam(r, "commentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		comment, err := h.db.BestPracticeCommentRepo().FindByID(r.Context(), commentID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "comment", err))
			return
		}
		if comment.BestPracticeID != practiceID {
			h.responder.WriteError(w, errs.NewNotFound("comment"))
			return
		}
		if err := authz.Require(authz.CanModerate(ctxGetCaller(r.Context()), comment.UserID), "delete this comment"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.db.BestPracticeCommentRepo().SoftDelete(r.Context(), comment.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "comment", err))
			return
		}
		h.responder.WriteJSON(w, deletedResponse{ID: comment.ID.String(), Deleted: true})
	}
}
