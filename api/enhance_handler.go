package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/appcollab/appcollab-backend/errs"
	"github.com/appcollab/appcollab-backend/services"
)

type enhanceHandler struct {
	responder Responder
	logger    zerolog.Logger
	enhancer  services.Enhancer
}

func newEnhanceHandler(enhancer services.Enhancer) enhanceHandler {
	logger := log.With().Str("handlerName", "enhanceHandler").Logger()

	return enhanceHandler{
		responder: NewResponder(logger),
		logger:    logger,
		enhancer:  enhancer,
	}
}

// enhanceText rewrites text with the configured language model
// @Summary Enhance text
// @Description Returns the rewritten text with the token usage of this call.
// @Tags AI
// @Accept json
// @Produce json
// @Param request body services.EnhanceRequest true "Text to enhance"
// @Success 200 {object} services.EnhanceResult
// @Failure 429 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /enhance [post]
func (h enhanceHandler) enhanceText() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.enhancer == nil {
			enhanceTotal.WithLabelValues("unconfigured").Inc()
			h.responder.WriteError(w, errs.NewServiceNotConfiguredError("text enhancement"))
			return
		}

		var req services.EnhanceRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.enhancer.Enhance(r.Context(), req)
		if err != nil {
			enhanceTotal.WithLabelValues("error").Inc()
			h.responder.WriteError(w, err)
			return
		}
		enhanceTotal.WithLabelValues("ok").Inc()
		h.logger.Debug().
			Str("userID", ctxGetCaller(r.Context()).ID.String()).
			Int("totalTokens", result.Usage.TotalTokens).
			Msg("Enhanced text")
		h.responder.WriteJSON(w, result)
	}
}
