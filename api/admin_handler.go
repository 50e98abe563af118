package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/appcollab/appcollab-backend/database"
	"github.com/appcollab/appcollab-backend/errs"
	"github.com/appcollab/appcollab-backend/models"
	"github.com/appcollab/appcollab-backend/services"
)

type adminHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
	admin     *services.AdminService
}

func newAdminHandler(db database.Database, admin *services.AdminService) adminHandler {
	logger := log.With().Str("handlerName", "adminHandler").Logger()

	return adminHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
		admin:     admin,
	}
}

type roleRequest struct {
	Role models.Role `json:"role"`
}

// getAllUsers lists every profile, soft deleted ones included
// @Summary List users
// @Tags Admin
// @Produce json
// @Success 200 {array} models.Profile
// @Failure 403 {object} ErrorResponse
// @Router /admin/users [get]
func (h adminHandler) getAllUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := h.db.Privileged().ProfileRepo().FindAllIncludingDeleted(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "profiles", err))
			return
		}
		h.responder.WriteJSON(w, profiles)
	}
}

// createUser provisions an auth identity and its profile
// @Summary Create user
// @Tags Admin
// @Accept json
// @Produce json
// @Param user body services.CreateUserInput true "User"
// @Success 201 {object} models.Profile
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Router /admin/users [post]
func (h adminHandler) createUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input services.CreateUserInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		profile, err := h.admin.CreateUser(r.Context(), input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().
			Str("adminID", ctxGetCaller(r.Context()).ID.String()).
			Str("userID", profile.ID.String()).
			Msg("Admin created user")
		h.responder.WriteCreated(w, profile)
	}
}

func (h adminHandler) setRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := uuidParam(r, "profileID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req roleRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Role == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("role"))
			return
		}

		profile, err := h.admin.SetRole(r.Context(), profileID, req.Role)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, profile)
	}
}

// deleteUser soft deletes a profile. Admins cannot remove themselves.
func (h adminHandler) deleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := uuidParam(r, "profileID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if profileID == ctxGetCaller(r.Context()).ID {
			h.responder.WriteError(w, errs.NewBadRequestError("cannot delete your own account"))
			return
		}
		if err := h.db.Privileged().ProfileRepo().SoftDelete(r.Context(), profileID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "profile", err))
			return
		}
		h.responder.WriteJSON(w, deletedResponse{ID: profileID.String(), Deleted: true})
	}
}
