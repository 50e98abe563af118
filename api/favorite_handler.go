package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/appcollab/appcollab-backend/database"
	"github.com/appcollab/appcollab-backend/models"
)

type favoriteHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newFavoriteHandler(db database.Database) favoriteHandler {
	logger := log.With().Str("handlerName", "favoriteHandler").Logger()

	return favoriteHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

func (h favoriteHandler) getMyFavorites() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		favorites, err := h.db.FavoriteRepo().FindByUser(r.Context(), ctxGetCaller(r.Context()).ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "favorites", err))
			return
		}
		h.responder.WriteJSON(w, favorites)
	}
}

// addFavorite bookmarks a project. Repeating the call returns the existing favorite.
// @Summary Favorite project
// @Tags Favorites
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Favorite "Already a favorite"
// @Success 201 {object} models.Favorite
// @Failure 404 {object} ErrorResponse
// @Router /favorites/{projectID} [post]
func (h favoriteHandler) addFavorite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())
		project, err := loadProject(r, h.db)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.db.FavoriteRepo().FindActive(r.Context(), caller.ID, project.ID)
		if err == nil {
			h.responder.WriteJSON(w, existing)
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.responder.WriteError(w, wrapDatabaseError("find", "favorite", err))
			return
		}

		favorite := models.Favorite{UserID: caller.ID, ProjectID: project.ID}
		if err := h.db.FavoriteRepo().Add(r.Context(), &favorite); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "favorite", err))
			return
		}
		favorite.Project = project
		h.responder.WriteCreated(w, favorite)
	}
}

func (h favoriteHandler) removeFavorite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.db.FavoriteRepo().Remove(r.Context(), ctxGetCaller(r.Context()).ID, projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "favorite", err))
			return
		}
		h.responder.WriteJSON(w, deletedResponse{ID: projectID.String(), Deleted: true})
	}
}
