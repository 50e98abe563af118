package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/appcollab/appcollab-backend/authz"
	"github.com/appcollab/appcollab-backend/database"
	"github.com/appcollab/appcollab-backend/errs"
)

// supabaseClaims is the payload of a Supabase Auth access token.
type supabaseClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type authMiddleware struct {
	responder Responder
	jwtSecret []byte
	profiles  *database.ProfileRepo
}

func newAuthMiddleware(jwtSecret string, profiles *database.ProfileRepo) authMiddleware {
	logger := log.With().Str("handlerName", "authMiddleware").Logger()
	return authMiddleware{
		responder: NewResponder(logger),
		jwtSecret: []byte(jwtSecret),
		profiles:  profiles,
	}
}

func (m authMiddleware) parseToken(tokenString string) (*supabaseClaims, error) {
	if len(m.jwtSecret) == 0 {
		return nil, errs.NewInvalidTokenError()
	}
	claims := &supabaseClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.NewExpiredTokenError()
		}
		return nil, errs.NewInvalidTokenError()
	}
	return claims, nil
}

// authenticate verifies the bearer token and attaches the caller identity.
func (m authMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			m.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			m.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		claims, err := m.parseToken(tokenString)
		if err != nil {
			m.responder.WriteError(w, err)
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			m.responder.WriteError(w, errs.NewInvalidTokenError())
			return
		}

		ctx := ctxWithCaller(r.Context(), authz.Caller{ID: userID})
		ctx = ctxWithEmail(ctx, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireProfile loads the caller's profile, refuses deleted accounts and fills in the role.
func (m authMiddleware) requireProfile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())
		profile, err := m.profiles.FindByIDIncludingDeleted(r.Context(), caller.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			m.responder.WriteError(w, errs.NewUnauthenticatedError("no profile for this identity"))
			return
		}
		if err != nil {
			m.responder.WriteError(w, wrapDatabaseError("find", "profile", err))
			return
		}
		if profile.DeletedAt.Valid {
			m.responder.WriteError(w, errs.NewDeletedAccountError())
			return
		}

		caller.Role = profile.Role
		ctx := ctxWithCaller(r.Context(), caller)
		ctx = ctxWithProfile(ctx, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m authMiddleware) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authz.CanManageUsers(ctxGetCaller(r.Context())) {
			m.responder.WriteError(w, errs.NewInsufficientRoleError("admin"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
