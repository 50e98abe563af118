package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestNewDatabaseErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		cause  error
		status int
		check  func(error) bool
	}{
		{
			name:   "record not found",
			cause:  fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound),
			status: http.StatusNotFound,
			check:  IsNotFound,
		},
		{
			name:   "postgres unique violation",
			cause:  &pgconn.PgError{Code: "23505", ConstraintName: "idx_gap_contributors_active"},
			status: http.StatusConflict,
			check:  IsUniqueConstraintViolationError,
		},
		{
			name:   "postgres foreign key violation",
			cause:  &pgconn.PgError{Code: "23503", TableName: "projects"},
			status: http.StatusBadRequest,
			check:  IsForeignKeyConstraintError,
		},
		{
			name:   "sqlite unique wording",
			cause:  errors.New("UNIQUE constraint failed: favorites.user_id, favorites.project_id"),
			status: http.StatusConflict,
			check:  IsUniqueConstraintViolationError,
		},
		{
			name:   "already classified",
			cause:  NewForbiddenError("not yours"),
			status: http.StatusForbidden,
			check:  IsForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("create", "project", tt.cause)
			if err.StatusCode != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, err.StatusCode)
			}
			if !tt.check(err) {
				t.Errorf("Classification did not match for %v", err)
			}
		})
	}
}

func TestNewDatabaseErrorFallsBackToQueryFailure(t *testing.T) {
	err := NewDatabaseError("update", "suggestion", errors.New("syntax error at or near"))
	if err.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", err.StatusCode)
	}
	if !errors.Is(err, ErrDatabaseQuery) {
		t.Errorf("Expected ErrDatabaseQuery, got %v", err)
	}
	if err.Details != "Failed to update suggestion" {
		t.Errorf("Unexpected details: %q", err.Details)
	}

	if nilCause := NewDatabaseError("list", "gaps", nil); nilCause.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected 500 for nil cause, got %d", nilCause.StatusCode)
	}
}

func TestTokenErrorsAreUnauthenticated(t *testing.T) {
	tests := []struct {
		err   *ApiErr
		check func(error) bool
	}{
		{NewMissingTokenError(), IsMissingTokenError},
		{NewExpiredTokenError(), IsExpiredTokenError},
		{NewInvalidTokenError(), IsInvalidTokenError},
	}
	for _, tt := range tests {
		if !tt.check(tt.err) {
			t.Errorf("Expected %v to match its sentinel", tt.err)
		}
		if !IsUnauthenticated(tt.err) {
			t.Errorf("Expected %v to be unauthenticated", tt.err)
		}
		if tt.err.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", tt.err.StatusCode)
		}
	}

	if IsExpiredTokenError(NewInvalidTokenError()) {
		t.Error("Invalid token must not read as expired")
	}
}

func TestInsufficientRoleIsForbidden(t *testing.T) {
	err := NewInsufficientRoleError("admin")
	if !IsInsufficientRoleError(err) || !IsForbidden(err) {
		t.Errorf("Expected forbidden insufficient role, got %v", err)
	}
	if StatusCode(err) != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", StatusCode(err))
	}
}

func TestServiceErrors(t *testing.T) {
	limited := NewRateLimitExceededError("text enhancement", 20*time.Second)
	if !IsRateLimitExceededError(limited) || limited.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Unexpected rate limit error: %v", limited)
	}

	partial := NewPartialFailureError("admin user creation", errors.New("rollback failed"))
	if !IsPartialFailureError(partial) {
		t.Errorf("Expected partial failure, got %v", partial)
	}

	upstream := NewUpstreamError("supabase", errors.New("boom"))
	if !IsUpstreamError(upstream) || !strings.Contains(upstream.Details, "boom") {
		t.Errorf("Expected upstream details to carry the cause, got %q", upstream.Details)
	}
}

func TestGetFullErrorFollowsCauses(t *testing.T) {
	inner := NewInvalidJSONError(errors.New("unexpected EOF"))
	outer := NewMalformedPayloadError("project", inner)

	full := outer.GetFullError()
	for _, part := range []string{"malformed payload", "invalid JSON", "unexpected EOF"} {
		if !strings.Contains(full, part) {
			t.Errorf("Expected %q in %q", part, full)
		}
	}
	if !IsInvalidJSONError(inner) {
		t.Error("Expected inner error to be invalid JSON")
	}
}

func TestStatusCodeDefaultsToInternal(t *testing.T) {
	if got := StatusCode(errors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", got)
	}
	if got := StatusCode(fmt.Errorf("wrapped: %w", NewNotFound("project"))); got != http.StatusNotFound {
		t.Errorf("Expected 404 through wrapping, got %d", got)
	}
}
