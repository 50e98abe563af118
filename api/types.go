package api

import (
	"github.com/appcollab/appcollab-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler        healthHandler
	authEventHandler     authEventHandler
	profileHandler       profileHandler
	projectHandler       projectHandler
	gapHandler           gapHandler
	projectUpdateHandler projectUpdateHandler
	suggestionHandler    suggestionHandler
	bestPracticeHandler  bestPracticeHandler
	requestHandler       requestHandler
	feedbackHandler      feedbackHandler
	favoriteHandler      favoriteHandler
	adminHandler         adminHandler
	enhanceHandler       enhanceHandler
}

// ErrorResponse documents the failure envelope.
// @Description Error response structure
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"project not found"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Missing required field: title"`
}

// ProjectDetail is a project with everything hanging off it.
type ProjectDetail struct {
	*models.Project
	Gaps        []*models.ProjectGap        `json:"gaps"`
	Updates     []*models.ProjectUpdate     `json:"updates"`
	Suggestions []*models.FeatureSuggestion `json:"suggestions"`
}

type deletedResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
