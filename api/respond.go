package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/appcollab/appcollab-backend/errs"
)

// envelope is the body of every response.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Field   string      `json:"field,omitempty"`
	Details string      `json:"details,omitempty"`
}

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONStatus(w, http.StatusOK, data)
}

func (r Responder) WriteCreated(w http.ResponseWriter, data any) {
	r.WriteJSONStatus(w, http.StatusCreated, data)
}

func (r Responder) WriteJSONStatus(w http.ResponseWriter, status int, data any) {
	r.write(w, status, envelope{Success: true, Data: data})
}

func (r Responder) write(w http.ResponseWriter, status int, body envelope) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// Unclassified failures are upstream failures; their message is passed through.
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.write(w, http.StatusInternalServerError, envelope{Error: err.Error()})
		return
	}

	event := r.logger.Debug()
	if apiErr.StatusCode >= http.StatusInternalServerError {
		event = r.logger.Error()
	}
	event.Int("status", apiErr.StatusCode).Str("error", apiErr.GetFullError()).Msg("request failed")

	if apiErr.StatusCode == http.StatusTooManyRequests {
		w.Header().Set("Retry-After", "60")
	}

	r.write(w, apiErr.StatusCode, envelope{
		Error:   apiErr.Error(),
		Field:   apiErr.Field,
		Details: apiErr.Details,
	})
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}
