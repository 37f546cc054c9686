// Package apierr is the error taxonomy of the API client. Every failure that
// leaves the client is an *Error of one of five kinds; Classify turns any
// other value into one.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindNetworkFailure Kind = iota + 1
	KindServerError
	KindMalformedResponse
	KindApplicationError
	KindAuthenticationExpired
)

func (k Kind) String() string {
	switch k {
	case KindNetworkFailure:
		return "network failure"
	case KindServerError:
		return "server error"
	case KindMalformedResponse:
		return "malformed response"
	case KindApplicationError:
		return "application error"
	case KindAuthenticationExpired:
		return "authentication expired"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrNetworkFailure        = errors.New("network failure")
	ErrServerError           = errors.New("server error")
	ErrMalformedResponse     = errors.New("malformed response")
	ErrApplication           = errors.New("application error")
	ErrAuthenticationExpired = errors.New("authentication expired")
)

func (k Kind) sentinel() error {
	switch k {
	case KindNetworkFailure:
		return ErrNetworkFailure
	case KindServerError:
		return ErrServerError
	case KindMalformedResponse:
		return ErrMalformedResponse
	case KindApplicationError:
		return ErrApplication
	case KindAuthenticationExpired:
		return ErrAuthenticationExpired
	}
	return nil
}

// Error is a classified failure.
type Error struct {
	Kind Kind
	// Code is the HTTP status or envelope code of a ServerError.
	Code    int
	Message string
	// Payload is the raw response body, kept for diagnostics.
	Payload json.RawMessage
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Code != 0 {
		fmt.Fprintf(&b, " (%d)", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func NetworkFailure(cause error) *Error {
	return &Error{Kind: KindNetworkFailure, Message: "No response from server", Err: cause}
}

func ServerError(code int, message string, payload []byte) *Error {
	if message == "" {
		message = "Server error"
	}
	return &Error{Kind: KindServerError, Code: code, Message: message, Payload: payload}
}

func MalformedResponse(message string, cause error) *Error {
	return &Error{Kind: KindMalformedResponse, Message: message, Err: cause}
}

func Application(message string, payload []byte) *Error {
	return &Error{Kind: KindApplicationError, Message: message, Payload: payload}
}

// AuthenticationExpired marks the end of a session: the refresh failed and
// the credentials were cleared.
func AuthenticationExpired(cause error) *Error {
	return &Error{Kind: KindAuthenticationExpired, Message: "Session expired, please sign in again", Err: cause}
}

// IsAuthenticationExpired reports whether err ends the session.
func IsAuthenticationExpired(err error) bool {
	return errors.Is(err, ErrAuthenticationExpired)
}
