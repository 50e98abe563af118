package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/appcollab/appcollab-backend/database"
	"github.com/appcollab/appcollab-backend/errs"
	"github.com/appcollab/appcollab-backend/models"
)

type authEventHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newAuthEventHandler(db database.Database) authEventHandler {
	logger := log.With().Str("handlerName", "authEventHandler").Logger()

	return authEventHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

type authEventRequest struct {
	Event    models.AuthEventType `json:"event"`
	Username string               `json:"username"`
	FullName string               `json:"full_name"`
}

// recordAuthEvent logs a login or signup and makes sure the identity has a profile.
// @Summary Record auth event
// @Description Called by the client right after a Supabase sign in or sign up.
// @Tags Auth
// @Accept json
// @Produce json
// @Success 201 {object} models.AuthEvent
// @Failure 401 {object} ErrorResponse
// @Router /auth/events [post]
func (h authEventHandler) recordAuthEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authEventRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Event == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("event"))
			return
		}
		if !req.Event.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("event", "must be login or signup"))
			return
		}

		profile, err := h.ensureProfile(r.Context(), req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if profile.DeletedAt.Valid {
			h.responder.WriteError(w, errs.NewDeletedAccountError())
			return
		}

		event := models.AuthEvent{
			UserID:    profile.ID,
			Event:     req.Event,
			IPAddress: r.RemoteAddr,
			UserAgent: r.UserAgent(),
		}
		if err := h.db.AuthEventRepo().Add(r.Context(), &event); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "auth event", err))
			return
		}
		h.logger.Info().
			Str("userID", profile.ID.String()).
			Str("event", string(req.Event)).
			Msg("Auth event recorded")
		h.responder.WriteCreated(w, event)
	}
}

// ensureProfile returns the caller's profile, creating a bare one when the identity has none.
// A username already taken by someone else gets the id prefix appended.
func (h authEventHandler) ensureProfile(ctx context.Context, req authEventRequest) (*models.Profile, error) {
	caller := ctxGetCaller(ctx)
	repo := h.db.ProfileRepo()

	profile, err := repo.FindByIDIncludingDeleted(ctx, caller.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapDatabaseError("find", "profile", err)
	}

	base := strings.TrimSpace(req.Username)
	if base == "" {
		base = strings.SplitN(ctxGetEmail(ctx), "@", 2)[0]
	}
	suffix := strings.SplitN(caller.ID.String(), "-", 2)[0]
	if base == "" {
		base = "user-" + suffix
	}

	for _, username := range []string{base, base + "-" + suffix} {
		created, err := repo.EnsureExists(ctx, &models.Profile{
			ID:       caller.ID,
			Username: username,
			FullName: strings.TrimSpace(req.FullName),
		})
		if err != nil && !errs.IsUniqueConstraintViolationError(wrapDatabaseError("create", "profile", err)) {
			return nil, wrapDatabaseError("create", "profile", err)
		}

		profile, err := repo.FindByIDIncludingDeleted(ctx, caller.ID)
		if err == nil {
			if created {
				h.logger.Info().Str("userID", caller.ID.String()).Str("username", username).Msg("Created profile")
			}
			return profile, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wrapDatabaseError("find", "profile", err)
		}
	}
	return nil, errs.NewConflictError("could not pick a free username")
}
