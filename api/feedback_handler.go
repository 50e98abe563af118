package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/appcollab/appcollab-backend/authz"
	"github.com/appcollab/appcollab-backend/database"
	"github.com/appcollab/appcollab-backend/errs"
	"github.com/appcollab/appcollab-backend/models"
)

type feedbackHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newFeedbackHandler(db database.Database) feedbackHandler {
	logger := log.With().Str("handlerName", "feedbackHandler").Logger()

	return feedbackHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

type feedbackRequest struct {
	Title    string                  `json:"title"`
	Content  string                  `json:"content"`
	Category models.FeedbackCategory `json:"category"`
}

func (h feedbackHandler) loadFeedback(r *http.Request) (*models.Feedback, error) {
	id, err := uuidParam(r, "feedbackID")
	if err != nil {
		return nil, err
	}
	feedback, err := h.db.FeedbackRepo().FindByID(r.Context(), id)
	if err != nil {
		return nil, wrapDatabaseError("find", "feedback", err)
	}
	return feedback, nil
}

func (h feedbackHandler) getAllFeedback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := models.FeedbackCategory(r.URL.Query().Get("category"))
		if category != "" && !category.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("category", "must be bug, feature or general"))
			return
		}
		feedback, err := h.db.FeedbackRepo().FindAll(r.Context(), category)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "feedback", err))
			return
		}
		h.responder.WriteJSON(w, feedback)
	}
}

func (h feedbackHandler) getFeedback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feedback, err := h.loadFeedback(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, feedback)
	}
}

// createFeedback records app feedback
// @Summary Leave feedback
// @Tags Feedback
// @Accept json
// @Produce json
// @Success 201 {object} models.Feedback
// @Failure 400 {object} ErrorResponse
// @Router /feedback [post]
func (h feedbackHandler) createFeedback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req feedbackRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		title, err := requireText("title", req.Title)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		content, err := requireText("content", req.Content)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Category != "" && !req.Category.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("category", "must be bug, feature or general"))
			return
		}

		feedback := models.Feedback{
			UserID:   ctxGetCaller(r.Context()).ID,
			Title:    title,
			Content:  content,
			Category: req.Category,
		}
		if err := h.db.FeedbackRepo().Add(r.Context(), &feedback); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "feedback", err))
			return
		}
		created, err := h.db.FeedbackRepo().FindByID(r.Context(), feedback.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "feedback", err))
			return
		}
		h.responder.WriteCreated(w, created)
	}
}

func (h feedbackHandler) deleteFeedback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feedback, err := h.loadFeedback(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := authz.Require(authz.CanModerate(ctxGetCaller(r.Context()), feedback.UserID), "delete this feedback"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.db.FeedbackRepo().SoftDelete(r.Context(), feedback.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "feedback", err))
			return
		}
		h.responder.WriteJSON(w, deletedResponse{ID: feedback.ID.String(), Deleted: true})
	}
}

func (h feedbackHandler) listComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feedback, err := h.loadFeedback(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		comments, err := h.db.FeedbackCommentRepo().FindByFeedback(r.Context(), feedback.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "comments", err))
			return
		}
		h.responder.WriteJSON(w, comments)
	}
}

func (h feedbackHandler) createComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "feedbackID")
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

		if _, err := h.db.FeedbackRepo().FindByID(r.Context(), id); errors.Is(err, gorm.ErrRecordNotFound) {
			h.responder.WriteError(w, errs.NewNotFound("feedback"))
			return
		} else if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "feedback", err))
			return
		}

		comment := models.FeedbackComment{FeedbackID: id, UserID: ctxGetCaller(r.Context()).ID, Content: content}
		if err := h.db.FeedbackCommentRepo().Add(r.Context(), &comment); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "comment", err))
			return
		}
		created, err := h.db.FeedbackCommentRepo().FindByID(r.Context(), comment.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "comment", err))
			return
		}
		h.responder.WriteCreated(w, created)
	}
}

func (h feedbackHandler) deleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feedbackID, err := uuidParam(r, "feedbackID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		commentID, err := uuidParam(r, "commentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		comment, err := h.db.FeedbackCommentRepo().FindByID(r.Context(), commentID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "comment", err))
			return
		}
		if comment.FeedbackID != feedbackID {
			h.responder.WriteError(w, errs.NewNotFound("comment"))
			return
		}
		if err := authz.Require(authz.CanModerate(ctxGetCaller(r.Context()), comment.UserID), "delete this comment"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.db.FeedbackCommentRepo().SoftDelete(r.Context(), comment.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "comment", err))
			return
		}
		h.responder.WriteJSON(w, deletedResponse{ID: comment.ID.String(), Deleted: true})
	}
}
