package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestPanicBecomesEnvelope(t *testing.T) {
	handler := LogInternalServerErrors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Expected JSON envelope: %v", err)
	}
	if env.Success || env.Error == "" {
		t.Errorf("Unexpected envelope: %+v", env)
	}
}

func TestUnclassifiedErrorPassesMessageThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponder(zerolog.Nop()).WriteError(rec, errors.New("upstream said no"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Expected JSON envelope: %v", err)
	}
	if env.Error != "upstream said no" {
		t.Errorf("Expected message pass-through, got %q", env.Error)
	}
}

func TestCORSPreflightFromUnknownOrigin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := CORSCheckMiddleware([]string{"https://appcollab.dev"})(next)

	req := httptest.NewRequest(http.MethodOptions, "/projects", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodOptions, "/projects", nil)
	req.Header.Set("Origin", "https://appcollab.dev")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected allowed origin to pass, got %d", rec.Code)
	}
}
