// Package users is the devserver's user directory. Users are created on
// first OTP sign-in and keyed by phone number or email.
package users

import (
	"context"

	"github.com/dmitrijs2005/cinepass/internal/devserver/models"
)

type Repository interface {
	// FindOrCreate returns the user owning identifier, creating it when new.
	FindOrCreate(ctx context.Context, identifier string) (*models.User, error)
	// Get returns common.ErrorNotFound for an unknown id.
	Get(ctx context.Context, id string) (*models.User, error)
	// MarkVerified flags identifier as verified on its owner.
	MarkVerified(ctx context.Context, identifier string) error
	UpdateProfile(ctx context.Context, id string, p models.Profile) error
	SaveKYC(ctx context.Context, id string, k models.KYC) error
	SavePermissions(ctx context.Context, id string, perms map[string]bool) error
}
