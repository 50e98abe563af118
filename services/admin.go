package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/appcollab/appcollab-backend/database"
	"github.com/appcollab/appcollab-backend/errs"
	"github.com/appcollab/appcollab-backend/models"
)

type CreateUserInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Username string      `json:"username"`
	FullName string      `json:"full_name"`
	Role     models.Role `json:"role"`
}

func (in *CreateUserInput) validate() error {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if in.Email == "" {
		return errs.NewMissingRequiredFieldError("email")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return errs.NewInvalidFieldError("email", "not a valid address")
	}
	if len(in.Password) < 8 {
		return errs.NewInvalidFieldError("password", "must be at least 8 characters")
	}
	if in.Username == "" {
		in.Username = strings.SplitN(in.Email, "@", 2)[0]
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !in.Role.Valid() {
		return errs.NewInvalidFieldError("role", "must be user or admin")
	}
	return nil
}

// AdminService provisions users. It is shared by the HTTP admin routes and the create-admin CLI.
type AdminService struct {
	db         database.Database
	identities IdentityProvider
	logger     zerolog.Logger
}

func NewAdminService(db database.Database, identities IdentityProvider) *AdminService {
	return &AdminService{
		db:         db,
		identities: identities,
		logger:     log.With().Str("service", "adminService").Logger(),
	}
}

// CreateUser creates the auth identity, then writes its profile and role through the privileged
// handle. If the profile write fails the identity is deleted again.
func (s *AdminService) CreateUser(ctx context.Context, in CreateUserInput) (*models.Profile, error) {
	if s.identities == nil {
		return nil, errs.NewServiceNotConfiguredError("identity provider")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	id, err := s.identities.CreateUser(ctx, NewIdentity{
		Email:    in.Email,
		Password: in.Password,
		Metadata: map[string]interface{}{"username": in.Username, "full_name": in.FullName},
	})
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{ID: id, Username: in.Username, FullName: in.FullName, Role: in.Role}
	if err := s.db.Privileged().ProfileRepo().Upsert(ctx, profile); err != nil {
		s.logger.Error().Err(err).Str("userID", id.String()).Msg("Profile write failed, rolling back identity")
		if rbErr := s.identities.DeleteUser(ctx, id); rbErr != nil {
			s.logger.Error().Err(rbErr).Str("userID", id.String()).Msg("Identity rollback failed")
			return nil, errs.NewPartialFailureError("user creation", rbErr)
		}
		return nil, errs.NewDatabaseError("create", "profile", err)
	}

	s.logger.Info().Str("userID", id.String()).Str("role", string(in.Role)).Msg("Created user")
	created, err := s.db.Privileged().ProfileRepo().FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "profile", err)
	}
	return created, nil
}

func (s *AdminService) SetRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.Profile, error) {
	if !role.Valid() {
		return nil, errs.NewInvalidFieldError("role", "must be user or admin")
	}
	repo := s.db.Privileged().ProfileRepo()
	if err := repo.SetRole(ctx, id, role); err != nil {
		return nil, errs.NewDatabaseError("update", "profile", err)
	}
	profile, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "profile", err)
	}
	return profile, nil
}
