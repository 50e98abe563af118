package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/appcollab/appcollab-backend/authz"
	"github.com/appcollab/appcollab-backend/database"
	"github.com/appcollab/appcollab-backend/errs"
	"github.com/appcollab/appcollab-backend/models"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newProjectHandler(db database.Database) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

// loadProject fetches a live project or a 404.
func loadProject(r *http.Request, db database.Database) (*models.Project, error) {
	projectID, err := uuidParam(r, "projectID")
	if err != nil {
		return nil, err
	}
	project, err := db.ProjectRepo().FindByID(r.Context(), projectID)
	if err != nil {
		return nil, wrapDatabaseError("find", "project", err)
	}
	return project, nil
}

// getAllProjects lists live projects
// @Summary List projects
// @Description ?owner=me (or a profile id) keeps projects with that owner, ?status= filters by status
// @Tags Projects
// @Produce json
// @Success 200 {array} models.Project
// @Failure 400 {object} ErrorResponse
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter database.ProjectFilter
		query := r.URL.Query()

		switch owner := query.Get("owner"); owner {
		case "":
		case "me":
			filter.OwnerID = ctxGetCaller(r.Context()).ID
		default:
			ownerID, err := uuid.Parse(owner)
			if err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("owner", "must be 'me' or a UUID"))
				return
			}
			filter.OwnerID = ownerID
		}

		if status := models.ProjectStatus(query.Get("status")); status != "" {
			if !status.Valid() {
				h.responder.WriteError(w, errs.NewInvalidFieldError("status", "unknown project status"))
				return
			}
			filter.Status = status
		}

		projects, err := h.db.ProjectRepo().FindAll(r.Context(), filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}
		h.responder.WriteJSON(w, projects)
	}
}

// getProject returns a project with its gaps, updates and suggestions
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} ProjectDetail
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var detail ProjectDetail
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			project, err := h.db.ProjectRepo().FindByID(ctx, projectID)
			if err != nil {
				return wrapDatabaseError("find", "project", err)
			}
			detail.Project = project
			return nil
		})
		g.Go(func() error {
			gaps, err := h.db.ProjectGapRepo().FindByProject(ctx, projectID)
			if err != nil {
				return wrapDatabaseError("find", "project gaps", err)
			}
			detail.Gaps = gaps
			return nil
		})
		g.Go(func() error {
			updates, err := h.db.ProjectUpdateRepo().FindByProject(ctx, projectID)
			if err != nil {
				return wrapDatabaseError("find", "project updates", err)
			}
			detail.Updates = updates
			return nil
		})
		g.Go(func() error {
			suggestions, err := h.db.FeatureSuggestionRepo().FindByProject(ctx, projectID)
			if err != nil {
				return wrapDatabaseError("find", "feature suggestions", err)
			}
			detail.Suggestions = suggestions
			return nil
		})
		if err := g.Wait(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, detail)
	}
}

// createProject creates a project. The caller is always one of its owners.
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body models.ProjectInput true "Project data"
// @Success 201 {object} models.Project
// @Failure 400 {object} ErrorResponse
// @Router /projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())

		var input models.ProjectInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var project models.Project
		var err error
		if input.Title == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}
		if project.Title, err = requireText("title", *input.Title); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if input.Description == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("description"))
			return
		}
		if project.Description, err = requireText("description", *input.Description); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		owners := []uuid.UUID{caller.ID}
		if input.OwnerIDs != nil {
			owners = append(owners, *input.OwnerIDs...)
		}
		project.OwnerIDs = datatypes.JSONSlice[uuid.UUID](uniqueIDs(owners))

		if input.Status != nil {
			if !input.Status.Valid() {
				h.responder.WriteError(w, errs.NewInvalidFieldError("status", "unknown project status"))
				return
			}
			project.Status = *input.Status
		}
		if input.TechStack != nil {
			project.TechStack = dedupe(*input.TechStack)
		}
		if input.RepoURL != nil {
			project.RepoURL = *input.RepoURL
		}
		if input.DemoURL != nil {
			project.DemoURL = *input.DemoURL
		}

		if err := h.db.ProjectRepo().Add(r.Context(), &project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}
		h.logger.Info().Str("projectID", project.ID.String()).Msg("Created project")
		h.responder.WriteCreated(w, project)
	}
}

// updateProject applies a partial update. Owners only.
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := loadProject(r, h.db)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := authz.Require(authz.CanManageProject(ctxGetCaller(r.Context()), project.Owners()), "update this project"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input models.ProjectInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		cols, err := projectColumns(input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.db.ProjectRepo().Update(r.Context(), project.ID, cols); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}

		updated, err := h.db.ProjectRepo().FindByID(r.Context(), project.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

func projectColumns(input models.ProjectInput) (map[string]interface{}, error) {
	cols := map[string]interface{}{}
	if title, err := optionalText("title", input.Title); err != nil {
		return nil, err
	} else if title != nil {
		cols["title"] = *title
	}
	if description, err := optionalText("description", input.Description); err != nil {
		return nil, err
	} else if description != nil {
		cols["description"] = *description
	}
	if input.OwnerIDs != nil {
		owners := uniqueIDs(*input.OwnerIDs)
		if len(owners) == 0 {
			return nil, errs.NewInvalidFieldError("owner_ids", "a project needs at least one owner")
		}
		cols["owner_ids"] = datatypes.JSONSlice[uuid.UUID](owners)
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, errs.NewInvalidFieldError("status", "unknown project status")
		}
		cols["status"] = *input.Status
	}
	if input.TechStack != nil {
		cols["tech_stack"] = datatypes.JSONSlice[string](dedupe(*input.TechStack))
	}
	if input.RepoURL != nil {
		cols["repo_url"] = *input.RepoURL
	}
	if input.DemoURL != nil {
		cols["demo_url"] = *input.DemoURL
	}
	return cols, nil
}

func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := loadProject(r, h.db)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := authz.Require(authz.CanManageProject(ctxGetCaller(r.Context()), project.Owners()), "delete this project"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.db.ProjectRepo().SoftDelete(r.Context(), project.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}
		h.responder.WriteJSON(w, deletedResponse{ID: project.ID.String(), Deleted: true})
	}
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
