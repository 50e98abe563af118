package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/appcollab/appcollab-backend/database"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	db          database.Database
	startupTime time.Time
}

func newHealthHandler(db database.Database, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		db:          db,
		startupTime: startupTime,
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Database string `json:"database"`
}

func (h healthHandler) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{
			Status:   "ok",
			Uptime:   time.Since(h.startupTime).Round(time.Second).String(),
			Database: "ok",
		}
		if err := h.db.Ping(ctx); err != nil {
			h.logger.Warn().Err(err).Msg("Database ping failed")
			resp.Status = "degraded"
			resp.Database = "unreachable"
			h.responder.WriteJSONStatus(w, http.StatusServiceUnavailable, resp)
			return
		}
		h.responder.WriteJSON(w, resp)
	}
}
