package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cinepass/internal/client/apierr"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login runs the OTP sign-in: it asks for a phone number or email, requests
// an OTP, then asks for the code and exchanges it for a token pair.
//
// On success the prompt shows the user's first name (or the identifier).
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter phone number or email", a.out)
	if err != nil {
		return err
	}
	if identifier == "" {
		return apierr.Application("Identifier is required", nil)
	}

	msg, err := a.auth.Register(ctx, identifier)
	if err != nil {
		return err
	}
	if msg != "" {
		fmt.Fprintln(a.out, msg)
	}

	otp, err := getSimpleText(a.reader, "Enter OTP", a.out)
	if err != nil {
		return err
	}

	user, err := a.auth.VerifyOTP(ctx, identifier, otp)
	if err != nil {
		return err
	}

	name := identifier
	if user != nil && strings.TrimSpace(user.FirstName) != "" {
		name = user.FirstName
	}
	a.setUserName(name)
	a.log.Info(ctx, "Login successful")
	fmt.Fprintln(a.out, "Signed in as", name)
	return nil
}

// Identify verifies an additional phone number or email for the signed-in
// user.
func (a *App) Identify(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter phone number or email to verify", a.out)
	if err != nil {
		return err
	}
	if err := a.auth.IdentifyRegister(ctx, identifier); err != nil {
		return err
	}

	otp, err := getSimpleText(a.reader, "Enter OTP", a.out)
	if err != nil {
		return err
	}
	if err := a.auth.IdentifyVerifyOTP(ctx, identifier, otp); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Identifier verified")
	return nil
}

// Logout signs out on the server and drops the local token pair. The local
// session is gone even when the server call fails; that error is returned.
func (a *App) Logout(ctx context.Context) error {
	err := a.auth.SignOut(ctx)
	a.setUserName("")
	fmt.Fprintln(a.out, "Signed out")
	return err
}
