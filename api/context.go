package api

import (
	"context"

	"github.com/appcollab/appcollab-backend/authz"
	"github.com/appcollab/appcollab-backend/models"
)

type keyType string

const (
	callerKey  keyType = "caller"
	profileKey keyType = "profile"
	emailKey   keyType = "email"
)

func ctxWithCaller(ctx context.Context, caller authz.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

func ctxWithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey, email)
}

func ctxWithProfile(ctx context.Context, profile *models.Profile) context.Context {
	return context.WithValue(ctx, profileKey, profile)
}

// ctxGetCaller returns the authenticated caller. The zero Caller means no identity.
func ctxGetCaller(ctx context.Context) authz.Caller {
	caller, _ := ctx.Value(callerKey).(authz.Caller)
	return caller
}

func ctxGetEmail(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}

func ctxGetProfile(ctx context.Context) *models.Profile {
	profile, _ := ctx.Value(profileKey).(*models.Profile)
	return profile
}
