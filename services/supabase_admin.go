package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/appcollab/appcollab-backend/config"
	"github.com/appcollab/appcollab-backend/errs"
)

// NewIdentity is what the identity provider needs to create a login.
type NewIdentity struct {
	Email    string
	Password string
	Metadata map[string]interface{}
}

// IdentityProvider creates and removes auth identities.
type IdentityProvider interface {
	CreateUser(ctx context.Context, identity NewIdentity) (uuid.UUID, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// SupabaseAdmin talks to the Supabase Auth admin API with the service-role key.
type SupabaseAdmin struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     zerolog.Logger
}

type supabaseCreateUserRequest struct {
	Email        string                 `json:"email"`
	Password     string                 `json:"password"`
	EmailConfirm bool                   `json:"email_confirm"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
}

type supabaseUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type supabaseErrorResponse struct {
	Msg       string `json:"msg"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}

func (e supabaseErrorResponse) text() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Message
}

// NewSupabaseAdmin reads SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY.
func NewSupabaseAdmin(c map[string]string) (*SupabaseAdmin, error) {
	baseURL := strings.TrimRight(config.GetString(c, "SUPABASE_URL", ""), "/")
	if baseURL == "" {
		return nil, errs.NewConfigMissingError("SUPABASE_URL")
	}
	serviceKey := config.GetString(c, "SUPABASE_SERVICE_ROLE_KEY", "")
	if serviceKey == "" {
		return nil, errs.NewConfigMissingError("SUPABASE_SERVICE_ROLE_KEY")
	}
	return &SupabaseAdmin{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: config.GetSeconds(c, "SUPABASE_ADMIN_TIMEOUT_SECONDS", 15)},
		breaker:    newBreaker("supabase-admin", 10*time.Second),
		logger:     log.With().Str("service", "supabaseAdmin").Logger(),
	}, nil
}

func (s *SupabaseAdmin) CreateUser(ctx context.Context, identity NewIdentity) (uuid.UUID, error) {
	return execute(s.breaker, "supabase auth", func() (uuid.UUID, error) {
		payload := supabaseCreateUserRequest{
			Email:        identity.Email,
			Password:     identity.Password,
			EmailConfirm: true,
			UserMetadata: identity.Metadata,
		}
		var user supabaseUser
		if err := s.do(ctx, http.MethodPost, "/auth/v1/admin/users", payload, &user); err != nil {
			return uuid.Nil, err
		}
		id, err := uuid.Parse(user.ID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("supabase returned invalid user id %q: %w", user.ID, err)
		}
		s.logger.Info().Str("userID", user.ID).Msg("Created auth identity")
		return id, nil
	})
}

func (s *SupabaseAdmin) DeleteUser(ctx context.Context, id uuid.UUID) error {
	_, err := execute(s.breaker, "supabase auth", func() (struct{}, error) {
		return struct{}{}, s.do(ctx, http.MethodDelete, "/auth/v1/admin/users/"+id.String(), nil, nil)
	})
	if err == nil {
		s.logger.Info().Str("userID", id.String()).Msg("Deleted auth identity")
	}
	return err
}

func (s *SupabaseAdmin) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal supabase payload: %w", err)
		}
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create supabase request: %w", err)
	}
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to supabase: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read supabase response: %w", err)
	}

	if resp.StatusCode >= 300 {
		message := string(bodyBytes)
		var errorResp supabaseErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.text() != "" {
			message = errorResp.text()
		}
		s.logger.Error().Int("status", resp.StatusCode).Str("path", path).Msg(message)
		switch {
		case resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusConflict:
			return errs.NewConflictError(message)
		case resp.StatusCode < 500:
			return errs.NewBadRequestError(message)
		}
		return fmt.Errorf("supabase admin API error (status %d): %s", resp.StatusCode, message)
	}

	if out != nil && len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, out); err != nil {
			return fmt.Errorf("failed to parse supabase response: %w", err)
		}
	}
	return nil
}
