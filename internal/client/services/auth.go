package services

import (
	"context"

	"github.com/dmitrijs2005/cinepass/internal/client/api"
	"github.com/dmitrijs2005/cinepass/internal/client/apierr"
	"github.com/dmitrijs2005/cinepass/internal/client/envelope"
	"github.com/dmitrijs2005/cinepass/internal/client/tokens"
	"github.com/dmitrijs2005/cinepass/internal/logging"
)

type SessionStatus string

const (
	StatusAuthenticated   SessionStatus = "authenticated"
	StatusUnauthenticated SessionStatus = "unauthenticated"
)

// Session is the credential store as seen by sign-in and sign-out.
type Session interface {
	AccessToken(ctx context.Context) (string, bool)
	SetTokens(ctx context.Context, accessToken, refreshToken string)
	ClearTokens(ctx context.Context)
}

// AuthService defines the authentication flow of the CLI.
//
//   - Register / VerifyOTP: OTP sign-in by phone or email; VerifyOTP stores
//     the issued pair.
//   - IdentifyRegister / IdentifyVerifyOTP: verify an extra identifier.
//   - SignOut: tell the server, then drop the pair whatever it answered.
//   - Status: authenticated when an access token is stored.
type AuthService interface {
	Register(ctx context.Context, identifier string) (string, error)
	VerifyOTP(ctx context.Context, identifier, otp string) (*User, error)
	IdentifyRegister(ctx context.Context, identifier string) error
	IdentifyVerifyOTP(ctx context.Context, identifier, otp string) error
	SignOut(ctx context.Context) error
	Status(ctx context.Context) SessionStatus
}

type Auth struct {
	api     API
	session Session
	log     logging.Logger
}

var _ AuthService = (*Auth)(nil)

func NewAuthService(client API, session Session, log logging.Logger) *Auth {
	return &Auth{api: client, session: session, log: log}
}

type identifierRequest struct {
	Identifier string `json:"identifier"`
	OTP        string `json:"otp,omitempty"`
}

type verifyData struct {
	Tokens *tokens.Pair `json:"tokens"`
	User   *User        `json:"user"`
}

// Register asks the server to send an OTP to identifier and returns the
// server's message.
func (a *Auth) Register(ctx context.Context, identifier string) (string, error) {
	env, err := a.api.Post(ctx, PathRegister, identifierRequest{Identifier: identifier}, api.WithSkipAuth())
	if err != nil {
		return "", err
	}
	if err := env.Check(); err != nil {
		return "", err
	}
	return env.Text(), nil
}

// VerifyOTP exchanges the OTP for a token pair and signs in.
func (a *Auth) VerifyOTP(ctx context.Context, identifier, otp string) (*User, error) {
	env, err := a.api.Post(ctx, PathVerifyOTP, identifierRequest{Identifier: identifier, OTP: otp}, api.WithSkipAuth())
	if err != nil {
		return nil, err
	}
	data, err := envelope.Unwrap[verifyData](env)
	if err != nil {
		return nil, err
	}
	if data.Tokens == nil || data.Tokens.AccessToken == "" {
		return nil, apierr.MalformedResponse("Verification response has no tokens", nil)
	}

	a.session.SetTokens(ctx, data.Tokens.AccessToken, data.Tokens.RefreshToken)
	a.log.Info(ctx, "signed in", "identifier", identifier)
	return data.User, nil
}

func (a *Auth) IdentifyRegister(ctx context.Context, identifier string) error {
	env, err := a.api.Post(ctx, PathIdentifyRegister, identifierRequest{Identifier: identifier}, api.WithSkipAuth())
	if err != nil {
		return err
	}
	return env.Check()
}

func (a *Auth) IdentifyVerifyOTP(ctx context.Context, identifier, otp string) error {
	env, err := a.api.Post(ctx, PathIdentifyVerifyOTP, identifierRequest{Identifier: identifier, OTP: otp}, api.WithSkipAuth())
	if err != nil {
		return err
	}
	return env.Check()
}

// SignOut clears the local session even when the logout call fails; the
// error is still returned so the caller can report it.
func (a *Auth) SignOut(ctx context.Context) error {
	defer a.session.ClearTokens(ctx)

	env, err := a.api.Post(ctx, PathLogout, nil)
	if err != nil {
		a.log.Warn(ctx, "logout call failed, clearing local session anyway", "error", err)
		return err
	}
	return env.Check()
}

func (a *Auth) Status(ctx context.Context) SessionStatus {
	if _, ok := a.session.AccessToken(ctx); ok {
		return StatusAuthenticated
	}
	return StatusUnauthenticated
}
