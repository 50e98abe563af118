package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware, enhanceLimiter *rateLimiter) {
	setupPublicRoutes(r, handlers)

	// Token only: the profile may not exist yet
	r.Group(func(r chi.Router) {
		r.Use(auth.authenticate)
		r.Post("/auth/events", handlers.authEventHandler.recordAuthEvent())
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.authenticate)
		r.Use(auth.requireProfile)
		setupFrontendRoutes(r, handlers)

		r.With(enhanceLimiter.perCaller("text enhancement")).
			Post("/enhance", handlers.enhanceHandler.enhanceText())

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.requireAdmin)
			setupAdminRoutes(r, handlers)
		})
	})
}

func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/health", handlers.healthHandler.getHealth())
	r.Handle("/metrics", promhttp.Handler())
}

// setupFrontendRoutes registers every route available to a signed in user
func setupFrontendRoutes(r chi.Router, handlers *routeHandlers) {
	// Profile Handler endpoints
	r.Get("/profile", handlers.profileHandler.getMe())
	r.Put("/profile", handlers.profileHandler.updateMe())
	r.Put("/profile/avatar", handlers.profileHandler.uploadAvatar())
	r.Get("/profiles", handlers.profileHandler.listProfiles())
	r.Get("/profiles/{profileID}", handlers.profileHandler.getProfile())

	// Project Handler endpoints
	r.Get("/projects", handlers.projectHandler.getAllProjects())
	r.Post("/projects", handlers.projectHandler.createProject())
	r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
	r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
	r.Delete("/projects/{projectID}", handlers.projectHandler.deleteProject())

	// Gap Handler endpoints
	r.Get("/projects/{projectID}/gaps", handlers.gapHandler.listGaps())
	r.Post("/projects/{projectID}/gaps", handlers.gapHandler.createGap())
	r.Put("/projects/{projectID}/gaps/{gapID}", handlers.gapHandler.updateGap())
	r.Delete("/projects/{projectID}/gaps/{gapID}", handlers.gapHandler.deleteGap())
	r.Get("/gaps/{gapID}/contributors", handlers.gapHandler.listContributors())
	r.Post("/gaps/{gapID}/contributors", handlers.gapHandler.contribute())
	r.Delete("/gaps/{gapID}/contributors", handlers.gapHandler.withdraw())
	r.Patch("/gaps/{gapID}/contributors/{contributorID}", handlers.gapHandler.updateContributorStatus())

	// Project Update Handler endpoints
	r.Get("/projects/{projectID}/updates", handlers.projectUpdateHandler.listUpdates())
	r.Post("/projects/{projectID}/updates", handlers.projectUpdateHandler.createUpdate())
	r.Delete("/projects/{projectID}/updates/{updateID}", handlers.projectUpdateHandler.deleteUpdate())

	// Suggestion Handler endpoints
	r.Get("/projects/{projectID}/suggestions", handlers.suggestionHandler.listSuggestions())
	r.Post("/projects/{projectID}/suggestions", handlers.suggestionHandler.createSuggestion())
	r.Patch("/projects/{projectID}/suggestions/{suggestionID}", handlers.suggestionHandler.updateSuggestion())
	r.Delete("/projects/{projectID}/suggestions/{suggestionID}", handlers.suggestionHandler.deleteSuggestion())
	r.Post("/projects/{projectID}/suggestions/{suggestionID}/upvote", handlers.suggestionHandler.upvoteSuggestion())

	// Best Practice Handler endpoints
	r.Get("/best-practices", handlers.bestPracticeHandler.getAllBestPractices())
	r.Post("/best-practices", handlers.bestPracticeHandler.createBestPractice())
	r.Get("/best-practices/{bestPracticeID}", handlers.bestPracticeHandler.getBestPractice())
	r.Patch("/best-practices/{bestPracticeID}", handlers.bestPracticeHandler.updateBestPractice())
	r.Delete("/best-practices/{bestPracticeID}", handlers.bestPracticeHandler.deleteBestPractice())
	r.Post("/best-practices/{bestPracticeID}/upvote", handlers.bestPracticeHandler.upvoteBestPractice())
	r.Get("/best-practices/{bestPracticeID}/comments", handlers.bestPracticeHandler.listComments())
	r.Post("/best-practices/{bestPracticeID}/comments", handlers.bestPracticeHandler.createComment())
	r.Delete("/best-practices/{bestPracticeID}/comments/{commentID}", handlers.bestPracticeHandler.deleteComment())

	// Best Practice Request Handler endpoints
	r.Get("/best-practice-requests", handlers.requestHandler.getAllRequests())
	r.Post("/best-practice-requests", handlers.requestHandler.createRequest())
	r.Patch("/best-practice-requests/{requestID}", handlers.requestHandler.updateRequest())
	r.Delete("/best-practice-requests/{requestID}", handlers.requestHandler.deleteRequest())
	r.Post("/best-practice-requests/{requestID}/upvote", handlers.requestHandler.upvoteRequest())

	// Feedback Handler endpoints
	r.Get("/feedback", handlers.feedbackHandler.getAllFeedback())
	r.Post("/feedback", handlers.feedbackHandler.createFeedback())
	r.Get("/feedback/{feedbackID}", handlers.feedbackHandler.getFeedback())
	r.Delete("/feedback/{feedbackID}", handlers.feedbackHandler.deleteFeedback())
	r.Get("/feedback/{feedbackID}/comments", handlers.feedbackHandler.listComments())
	r.Post("/feedback/{feedbackID}/comments", handlers.feedbackHandler.createComment())
	r.Delete("/feedback/{feedbackID}/comments/{commentID}", handlers.feedbackHandler.deleteComment())

	// Favorite Handler endpoints
	r.Get("/favorites", handlers.favoriteHandler.getMyFavorites())
	r.Post("/favorites/{projectID}", handlers.favoriteHandler.addFavorite())
	r.Delete("/favorites/{projectID}", handlers.favoriteHandler.removeFavorite())
}

func setupAdminRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/users", handlers.adminHandler.getAllUsers())
	r.Post("/users", handlers.adminHandler.createUser())
	r.Put("/users/{profileID}/role", handlers.adminHandler.setRole())
	r.Delete("/users/{profileID}", handlers.adminHandler.deleteUser())
}
