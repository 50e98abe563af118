package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/appcollab/appcollab-backend/config"
	"github.com/appcollab/appcollab-backend/database"
	"github.com/appcollab/appcollab-backend/services"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

// NewServer wires the router. Optional collaborators that are not configured are left out and
// their routes answer 503.
func NewServer(db database.Database, c map[string]string) (Server, error) {
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	startupTime := time.Now()
	opts := []func(*router){withConfig(c), withStartupTime(startupTime)}

	if identities, err := services.NewSupabaseAdmin(c); err != nil {
		log.Warn().Err(err).Msg("Supabase admin API not configured, admin user creation disabled")
	} else {
		opts = append(opts, withIdentityProvider(identities))
	}
	if enhancer, err := services.NewLLMEnhancer(c); err != nil {
		log.Warn().Err(err).Msg("LLM not configured, text enhancement disabled")
	} else {
		opts = append(opts, withEnhancer(enhancer))
	}
	if avatars, err := services.NewS3AvatarStore(c); err != nil {
		log.Warn().Err(err).Msg("Object storage not configured, avatar upload disabled")
	} else {
		opts = append(opts, withAvatarStore(avatars))
	}

	server := &http.Server{
		Addr:         address,
		Handler:      newRouter(db, opts...),
		ReadTimeout:  config.GetSeconds(c, "READ_TIMEOUT_SECONDS", 180),
		WriteTimeout: config.GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180),
		IdleTimeout:  config.GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180),
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
	identities  services.IdentityProvider
	enhancer    services.Enhancer
	avatars     services.AvatarStore
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withIdentityProvider(identities services.IdentityProvider) func(*router) {
	return func(r *router) {
		r.identities = identities
	}
}

func withEnhancer(enhancer services.Enhancer) func(*router) {
	return func(r *router) {
		r.enhancer = enhancer
	}
}

func withAvatarStore(avatars services.AvatarStore) func(*router) {
	return func(r *router) {
		r.avatars = avatars
	}
}

func newRouter(db database.Database, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(metricsMiddleware)
	chiRouter.Use(HTTPLoggingMiddleware)

	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS")
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	handlers := initializeHandlers(db, router)
	auth := newAuthMiddleware(config.GetString(router.config, "SUPABASE_JWT_SECRET", ""), db.ProfileRepo())
	enhanceLimiter := newRateLimiter(
		config.GetInt(router.config, "ENHANCE_RATE_PER_MINUTE", 10),
		config.GetInt(router.config, "ENHANCE_BURST", 3),
		10*time.Minute,
	)

	setupRoutes(chiRouter, handlers, auth, enhanceLimiter)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
