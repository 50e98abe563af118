package api

import (
	"bytes"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/appcollab/appcollab-backend/database"
	"github.com/appcollab/appcollab-backend/errs"
	"github.com/appcollab/appcollab-backend/models"
	"github.com/appcollab/appcollab-backend/services"
)

const maxAvatarBytes = 5 << 20

type profileHandler struct {
	responder   Responder
	logger      zerolog.Logger
	profileRepo *database.ProfileRepo
	avatars     services.AvatarStore
}

func newProfileHandler(profileRepo *database.ProfileRepo, avatars services.AvatarStore) profileHandler {
	logger := log.With().Str("handlerName", "profileHandler").Logger()

	return profileHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		profileRepo: profileRepo,
		avatars:     avatars,
	}
}

// getMe returns the caller's own profile
// @Summary Get own profile
// @Tags Profiles
// @Produce json
// @Success 200 {object} models.Profile
// @Failure 401 {object} ErrorResponse
// @Router /profile [get]
func (h profileHandler) getMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, ctxGetProfile(r.Context()))
	}
}

// updateMe applies a partial update to the caller's profile. Role cannot be changed here.
// @Summary Update own profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Param profile body models.ProfileUpdate true "Fields to change"
// @Success 200 {object} models.Profile
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Username taken"
// @Router /profile [put]
func (h profileHandler) updateMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())

		var update models.ProfileUpdate
		if err := decodeJSON(w, r, &update); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		username, err := optionalText("username", update.Username)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		update.Username = username
		if update.Skills != nil {
			skills := dedupe(*update.Skills)
			update.Skills = &skills
		}

		if err := h.profileRepo.Update(r.Context(), caller.ID, update); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "profile", err))
			return
		}

		profile, err := h.profileRepo.FindByID(r.Context(), caller.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "profile", err))
			return
		}
		h.responder.WriteJSON(w, profile)
	}
}

// uploadAvatar stores a multipart "avatar" image and points the profile at it.
func (h profileHandler) uploadAvatar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.avatars == nil {
			h.responder.WriteError(w, errs.NewServiceNotConfiguredError("avatar storage"))
			return
		}
		caller := ctxGetCaller(r.Context())

		r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes+1024)
		if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
			h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxAvatarBytes))
			return
		}
		file, header, err := r.FormFile("avatar")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("avatar"))
			return
		}
		defer file.Close()

		sniff := make([]byte, 512)
		n, err := io.ReadFull(file, sniff)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("avatar", err))
			return
		}
		contentType := http.DetectContentType(sniff[:n])
		body := io.MultiReader(bytes.NewReader(sniff[:n]), file)

		url, err := h.avatars.PutAvatar(r.Context(), caller.ID, contentType, body, header.Size)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.profileRepo.Update(r.Context(), caller.ID, models.ProfileUpdate{AvatarURL: &url}); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "profile", err))
			return
		}
		profile, err := h.profileRepo.FindByID(r.Context(), caller.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "profile", err))
			return
		}
		h.responder.WriteJSON(w, profile)
	}
}

func (h profileHandler) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := uuidParam(r, "profileID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		profile, err := h.profileRepo.FindByID(r.Context(), profileID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "profile", err))
			return
		}
		h.responder.WriteJSON(w, profile)
	}
}

// listProfiles lists live profiles, optionally only those with ?skill=
func (h profileHandler) listProfiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := h.profileRepo.FindAll(r.Context(), r.URL.Query().Get("skill"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "profiles", err))
			return
		}
		h.responder.WriteJSON(w, profiles)
	}
}
