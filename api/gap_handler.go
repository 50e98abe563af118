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

const alreadyTaggedMessage = "Already tagged to this gap"

type gapHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newGapHandler(db database.Database) gapHandler {
	logger := log.With().Str("handlerName", "gapHandler").Logger()

	return gapHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

// loadGap resolves {gapID} and the live project it belongs to.
func (h gapHandler) loadGap(r *http.Request) (*models.ProjectGap, *models.Project, error) {
	gapID, err := uuidParam(r, "gapID")
	if err != nil {
		return nil, nil, err
	}
	gap, err := h.db.ProjectGapRepo().FindByID(r.Context(), gapID)
	if err != nil {
		return nil, nil, wrapDatabaseError("find", "gap", err)
	}
	project, err := h.db.ProjectRepo().FindByID(r.Context(), gap.ProjectID)
	if err != nil {
		return nil, nil, wrapDatabaseError("find", "project", err)
	}
	return gap, project, nil
}

// loadProjectGap resolves {projectID}/{gapID} and checks they belong together.
func (h gapHandler) loadProjectGap(r *http.Request) (*models.ProjectGap, *models.Project, error) {
	project, err := loadProject(r, h.db)
	if err != nil {
		return nil, nil, err
	}
	gapID, err := uuidParam(r, "gapID")
	if err != nil {
		return nil, nil, err
	}
	gap, err := h.db.ProjectGapRepo().FindByID(r.Context(), gapID)
	if err != nil {
		return nil, nil, wrapDatabaseError("find", "gap", err)
	}
	if gap.ProjectID != project.ID {
		return nil, nil, errs.NewNotFound("gap")
	}
	return gap, project, nil
}

func (h gapHandler) listGaps() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := loadProject(r, h.db)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		gaps, err := h.db.ProjectGapRepo().FindByProject(r.Context(), project.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "gaps", err))
			return
		}
		h.responder.WriteJSON(w, gaps)
	}
}

// createGap declares a missing skill on a project. Owners only.
// @Summary Create gap
// @Tags Gaps
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param gap body models.ProjectGapInput true "Gap"
// @Success 201 {object} models.ProjectGap
// @Failure 403 {object} ErrorResponse
// @Router /projects/{projectID}/gaps [post]
func (h gapHandler) createGap() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())
		project, err := loadProject(r, h.db)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := authz.Require(authz.CanManageProject(caller, project.Owners()), "add gaps to this project"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input models.ProjectGapInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if input.GapType == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("gap_type"))
			return
		}
		if !input.GapType.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("gap_type", "unknown gap type"))
			return
		}

		gap := models.ProjectGap{ProjectID: project.ID, GapType: *input.GapType, CreatedBy: caller.ID}
		if input.Description != nil {
			gap.Description = strings.TrimSpace(*input.Description)
		}
		if input.IsFilled != nil {
			gap.IsFilled = *input.IsFilled
		}
		if err := h.db.ProjectGapRepo().Add(r.Context(), &gap); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "gap", err))
			return
		}
		h.responder.WriteCreated(w, gap)
	}
}

func (h gapHandler) updateGap() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gap, project, err := h.loadProjectGap(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := authz.Require(authz.CanManageProject(ctxGetCaller(r.Context()), project.Owners()), "change this gap"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input models.ProjectGapInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		cols := map[string]interface{}{}
		if input.GapType != nil {
			if !input.GapType.Valid() {
				h.responder.WriteError(w, errs.NewInvalidFieldError("gap_type", "unknown gap type"))
				return
			}
			cols["gap_type"] = *input.GapType
		}
		if input.Description != nil {
			cols["description"] = strings.TrimSpace(*input.Description)
		}
		if input.IsFilled != nil {
			cols["is_filled"] = *input.IsFilled
		}

		if err := h.db.ProjectGapRepo().Update(r.Context(), gap.ID, cols); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "gap", err))
			return
		}
		updated, err := h.db.ProjectGapRepo().FindByID(r.Context(), gap.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "gap", err))
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

func (h gapHandler) deleteGap() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gap, project, err := h.loadProjectGap(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := authz.Require(authz.CanManageProject(ctxGetCaller(r.Context()), project.Owners()), "delete this gap"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.db.ProjectGapRepo().SoftDelete(r.Context(), gap.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "gap", err))
			return
		}
		h.responder.WriteJSON(w, deletedResponse{ID: gap.ID.String(), Deleted: true})
	}
}

func (h gapHandler) listContributors() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gap, _, err := h.loadGap(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		contributors, err := h.db.GapContributorRepo().FindByGap(r.Context(), gap.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "contributors", err))
			return
		}
		h.responder.WriteJSON(w, contributors)
	}
}

// contribute tags the caller against a gap as interested. A second tag while the first is
// active is rejected.
// @Summary Contribute to gap
// @Tags Gaps
// @Produce json
// @Param gapID path string true "Gap ID" format(uuid)
// @Success 201 {object} models.GapContributor
// @Failure 400 {object} ErrorResponse "Already tagged to this gap"
// @Router /gaps/{gapID}/contributors [post]
func (h gapHandler) contribute() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())
		gap, _, err := h.loadGap(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		_, err = h.db.GapContributorRepo().FindActive(r.Context(), gap.ID, caller.ID)
		switch {
		case err == nil:
			h.responder.WriteError(w, errs.NewBadRequestError(alreadyTaggedMessage))
			return
		case !errors.Is(err, gorm.ErrRecordNotFound):
			h.responder.WriteError(w, wrapDatabaseError("find", "contributor", err))
			return
		}

		contributor := models.GapContributor{GapID: gap.ID, UserID: caller.ID, Status: models.ContributorInterested}
		if err := h.db.GapContributorRepo().Add(r.Context(), &contributor); err != nil {
			// lost a race against a concurrent join
			if errs.IsUniqueConstraintViolationError(wrapDatabaseError("create", "contributor", err)) {
				h.responder.WriteError(w, errs.NewBadRequestError(alreadyTaggedMessage))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("create", "contributor", err))
			return
		}

		created, err := h.db.GapContributorRepo().FindByID(r.Context(), contributor.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "contributor", err))
			return
		}
		h.responder.WriteCreated(w, created)
	}
}

// withdraw removes the caller's active tag on a gap.
func (h gapHandler) withdraw() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())
		gapID, err := uuidParam(r, "gapID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		contributor, err := h.db.GapContributorRepo().FindActive(r.Context(), gapID, caller.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "contributor", err))
			return
		}
		if err := h.db.GapContributorRepo().SoftDelete(r.Context(), contributor.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "contributor", err))
			return
		}
		h.responder.WriteJSON(w, deletedResponse{ID: contributor.ID.String(), Deleted: true})
	}
}

type contributorStatusRequest struct {
	Status models.ContributorStatus `json:"status"`
}

// updateContributorStatus moves a contributor between interested, helping and completed. Any
// order is accepted. The contributor or a project owner may do it.
func (h gapHandler) updateContributorStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gap, project, err := h.loadGap(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		contributorID, err := uuidParam(r, "contributorID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		contributor, err := h.db.GapContributorRepo().FindByID(r.Context(), contributorID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "contributor", err))
			return
		}
		if contributor.GapID != gap.ID {
			h.responder.WriteError(w, errs.NewNotFound("contributor"))
			return
		}
		if err := authz.Require(authz.CanManageContributor(ctxGetCaller(r.Context()), contributor.UserID, project.Owners()), "change this contribution"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req contributorStatusRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Status == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("status"))
			return
		}
		if !req.Status.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status", "must be interested, helping or completed"))
			return
		}

		if err := h.db.GapContributorRepo().UpdateStatus(r.Context(), contributor.ID, req.Status); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "contributor", err))
			return
		}
		updated, err := h.db.GapContributorRepo().FindByID(r.Context(), contributor.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "contributor", err))
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}
