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

type requestHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newRequestHandler(db database.Database) requestHandler {
	logger := log.With().Str("handlerName", "requestHandler").Logger()

	return requestHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

type bestPracticeRequestInput struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Status      *models.RequestStatus `json:"status"`
}

func (h requestHandler) loadRequest(r *http.Request) (*models.BestPracticeRequest, error) {
	id, err := uuidParam(r, "requestID")
	if err != nil {
		return nil, err
	}
	request, err := h.db.BestPracticeRequestRepo().FindByID(r.Context(), id)
	if err != nil {
		return nil, wrapDatabaseError("find", "best practice request", err)
	}
	return request, nil
}

// getAllRequests lists open and closed requests, most upvoted first
// @Summary List best practice requests
// @Tags BestPractices
// @Produce json
// @Success 200 {array} models.BestPracticeRequest
// @Router /best-practice-requests [get]
func (h requestHandler) getAllRequests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := models.RequestStatus(r.URL.Query().Get("status"))
		if status != "" && !status.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status", "must be open, in_progress, fulfilled or closed"))
			return
		}
		requests, err := h.db.BestPracticeRequestRepo().FindAll(r.Context(), status)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "best practice requests", err))
			return
		}
		h.responder.WriteJSON(w, requests)
	}
}

func (h requestHandler) createRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input bestPracticeRequestInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if input.Title == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}
		title, err := requireText("title", *input.Title)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		request := models.BestPracticeRequest{UserID: ctxGetCaller(r.Context()).ID, Title: title}
		if input.Description != nil {
			request.Description = *input.Description
		}
		if err := h.db.BestPracticeRequestRepo().Add(r.Context(), &request); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "best practice request", err))
			return
		}
		created, err := h.db.BestPracticeRequestRepo().FindByID(r.Context(), request.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "best practice request", err))
			return
		}
		h.responder.WriteCreated(w, created)
	}
}

// updateRequest changes status (author or admin) and content (author).
func (h requestHandler) updateRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())
		request, err := h.loadRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input bestPracticeRequestInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if input.Status != nil {
			if err := authz.Require(authz.CanModerate(caller, request.UserID), "change the status of this request"); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}
		if input.Title != nil || input.Description != nil {
			if err := authz.Require(authz.IsAuthor(caller.ID, request.UserID), "edit this request"); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		cols := map[string]interface{}{}
		if input.Status != nil {
			if !input.Status.Valid() {
				h.responder.WriteError(w, errs.NewInvalidFieldError("status", "must be open, in_progress, fulfilled or closed"))
				return
			}
			cols["status"] = *input.Status
		}
		if title, err := optionalText("title", input.Title); err != nil {
			h.responder.WriteError(w, err)
			return
		} else if title != nil {
			cols["title"] = *title
		}
		if input.Description != nil {
			cols["description"] = *input.Description
		}
		if len(cols) == 0 {
			h.responder.WriteJSON(w, request)
			return
		}

		if err := h.db.BestPracticeRequestRepo().Update(r.Context(), request.ID, cols); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "best practice request", err))
			return
		}
		updated, err := h.db.BestPracticeRequestRepo().FindByID(r.Context(), request.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "best practice request", err))
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

func (h requestHandler) deleteRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		request, err := h.loadRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := authz.Require(authz.CanModerate(ctxGetCaller(r.Context()), request.UserID), "delete this request"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.db.BestPracticeRequestRepo().SoftDelete(r.Context(), request.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "best practice request", err))
			return
		}
		h.responder.WriteJSON(w, deletedResponse{ID: request.ID.String(), Deleted: true})
	}
}

func (h requestHandler) upvoteRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "requestID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		upvoted, err := h.db.BestPracticeRequestRepo().Upvote(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("upvote", "best practice request", err))
			return
		}
		upvotesTotal.WithLabelValues("request").Inc()
		h.responder.WriteJSON(w, upvoted)
	}
}
