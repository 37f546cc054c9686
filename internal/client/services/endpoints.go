// Package services wraps the backend endpoints in typed calls used by the
// CLI: authentication, profile and the movie/contest catalogue.
package services

import (
	"context"

	"github.com/dmitrijs2005/cinepass/internal/client/api"
	"github.com/dmitrijs2005/cinepass/internal/client/envelope"
)

// Endpoint paths, relative to the API base URL.
const (
	PathRegister          = "/users/mobile/auth/register"
	PathVerifyOTP         = "/users/mobile/auth/verify"
	PathIdentifyRegister  = "/users/mobile/send-identifier-otp"
	PathIdentifyVerifyOTP = "/users/mobile/verify-identifier"
	PathRefresh           = "/users/auth/refresh"
	PathMovies            = "/movies/mobile"
	PathMovieDetails      = "/movies"
	PathContests          = "/contests/mobile"
	PathProfile           = "/users/mobile/profile"
	PathKYC               = "/users/mobile/kyc"
	PathPermissions       = "/users/mobile/permissions"
	PathLogout            = "/users/mobile/logout"
)

// API is the subset of *api.Client the services call.
type API interface {
	Get(ctx context.Context, path string, opts ...api.RequestOption) (*envelope.Envelope, error)
	Post(ctx context.Context, path string, body any, opts ...api.RequestOption) (*envelope.Envelope, error)
	Put(ctx context.Context, path string, body any, opts ...api.RequestOption) (*envelope.Envelope, error)
}

var _ API = (*api.Client)(nil)
