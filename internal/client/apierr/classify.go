package apierr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
)

const unknownMessage = "Something went wrong. Please try again."

// Classify maps any value produced by the transport or the application into
// the taxonomy. It never panics and never returns nil.
func Classify(v any) (out *Error) {
	defer func() {
		if r := recover(); r != nil {
			out = Application(fmt.Sprint(r), nil)
		}
	}()

	switch x := v.(type) {
	case nil:
		return Application(unknownMessage, nil)
	case *Error:
		if x == nil {
			return Application(unknownMessage, nil)
		}
		return x
	case *http.Response:
		return classifyResponse(x)
	case error:
		return classifyError(x)
	case string:
		if strings.TrimSpace(x) == "" {
			return Application(unknownMessage, nil)
		}
		return Application(x, nil)
	default:
		payload, _ := json.Marshal(x)
		return Application(fmt.Sprintf("%v", x), payload)
	}
}

func classifyResponse(resp *http.Response) *Error {
	if resp == nil {
		return NetworkFailure(nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ServerError(resp.StatusCode, http.StatusText(resp.StatusCode), nil)
	}
	return MalformedResponse("Unexpected response", nil)
}

func classifyError(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae
	}

	var (
		urlErr    *url.Error
		netErr    net.Error
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF),
		errors.As(err, &urlErr), errors.As(err, &netErr):
		return NetworkFailure(err)
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return MalformedResponse("Response could not be decoded", err)
	}
	return &Error{Kind: KindApplicationError, Message: err.Error(), Err: err}
}

// Message returns the text to show a user for err: the server's message when
// it sent one, the error text otherwise, and fallback for a nil or blank
// error.
func Message(err error, fallback string) string {
	if fallback == "" {
		fallback = unknownMessage
	}
	if err == nil {
		return fallback
	}

	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		if msg := strings.TrimSpace(ae.Message); msg != "" {
			return msg
		}
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}
