package api

import (
	"github.com/appcollab/appcollab-backend/database"
	"github.com/appcollab/appcollab-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, r router) *routeHandlers {
	return &routeHandlers{
		healthHandler:        newHealthHandler(db, r.startupTime),
		authEventHandler:     newAuthEventHandler(db),
		profileHandler:       newProfileHandler(db.ProfileRepo(), r.avatars),
		projectHandler:       newProjectHandler(db),
		gapHandler:           newGapHandler(db),
		projectUpdateHandler: newProjectUpdateHandler(db),
		suggestionHandler:    newSuggestionHandler(db),
		bestPracticeHandler:  newBestPracticeHandler(db),
		requestHandler:       newRequestHandler(db),
		feedbackHandler:      newFeedbackHandler(db),
		favoriteHandler:      newFavoriteHandler(db),
		adminHandler:         newAdminHandler(db, services.NewAdminService(db, r.identities)),
		enhanceHandler:       newEnhanceHandler(r.enhancer),
	}
}
