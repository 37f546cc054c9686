package api

import (
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/cinepass/internal/client/envelope"
)

// Request describes one API call. Body is marshalled to JSON once, so a
// replay after a refresh sends the same bytes.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Header http.Header
	// SkipAuth sends the request without a bearer credential and disables
	// refresh on 401. Used by the pre-authentication endpoints.
	SkipAuth bool
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// Envelope is nil when the body was empty.
	Envelope *envelope.Envelope
	// Replayed is set when the response came from the replay after a refresh.
	Replayed bool
}

type RequestOption func(*Request)

func WithSkipAuth() RequestOption {
	return func(r *Request) {
		r.SkipAuth = true
	}
}

func WithQuery(q url.Values) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = url.Values{}
		}
		for k, vs := range q {
			for _, v := range vs {
				r.Query.Add(k, v)
			}
		}
	}
}

func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Header == nil {
			r.Header = http.Header{}
		}
		r.Header.Set(key, value)
	}
}
