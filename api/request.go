package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/appcollab/appcollab-backend/errs"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return errs.NewMaxBodySizeExceededError(maxBodyBytes)
		case errors.Is(err, io.EOF):
			return errs.NewMalformedPayloadError("empty", err)
		}
		return errs.NewInvalidJSONError(err)
	}
	return nil
}

// uuidParam parses a chi URL parameter as a UUID.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewMissingRequiredFieldError(name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewInvalidFieldError(name, "must be a UUID")
	}
	return id, nil
}

// requireText trims value and rejects it when empty.
func requireText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errs.NewMissingRequiredFieldError(field)
	}
	return value, nil
}

// optionalText trims a patched value; a present but blank value is rejected.
func optionalText(field string, value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	trimmed, err := requireText(field, *value)
	if err != nil {
		return nil, err
	}
	return &trimmed, nil
}

// dedupe trims, drops blanks and removes repeats while keeping order.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
