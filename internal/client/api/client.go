// Package api is the HTTP client of the cinepass backend.
//
// Every request goes through the Authenticator. A 401 on an authenticated
// request hands control to the Recoverer (the refresh coordinator) and the
// request is replayed once with the token it returns; a second 401 is final.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/cinepass/internal/client/apierr"
	"github.com/dmitrijs2005/cinepass/internal/client/envelope"
	"github.com/dmitrijs2005/cinepass/internal/logging"
	"github.com/dmitrijs2005/cinepass/internal/metrics"
)

// Recoverer renews the access token after a request carrying stale was
// rejected.
type Recoverer interface {
	Recover(ctx context.Context, stale string) (string, error)
}

type Client struct {
	baseURL   string
	http      *http.Client
	auth      *Authenticator
	recoverer Recoverer
	log       logging.Logger
	metrics   *metrics.Client
}

// NewClient builds a client for baseURL. rec may be nil, in which case a 401
// is returned to the caller as is.
func NewClient(baseURL string, hc *http.Client, auth *Authenticator, rec Recoverer, log logging.Logger, m *metrics.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      hc,
		auth:      auth,
		recoverer: rec,
		log:       log,
		metrics:   m,
	}, nil
}

// Do sends r. Transport failures are returned as NetworkFailure, non-2xx
// responses as ServerError carrying the envelope message when there is one.
func (c *Client) Do(ctx context.Context, r *Request) (*Response, error) {
	body, err := encodeBody(r.Body)
	if err != nil {
		return nil, apierr.Application(err.Error(), nil)
	}

	resp, used, err := c.send(ctx, r, body, "")
	if err != nil {
		return nil, apierr.Classify(err)
	}

	if resp.StatusCode == http.StatusUnauthorized && !r.SkipAuth && c.recoverer != nil {
		_ = resp.Body.Close()

		token, err := c.recoverer.Recover(ctx, used)
		if err != nil {
			return nil, err
		}

		c.log.Debug(ctx, "replaying request with renewed token", "method", r.Method, "path", r.Path)
		resp, _, err = c.send(ctx, r, body, token)
		if err != nil {
			c.metrics.Replayed("http", false)
			return nil, apierr.Classify(err)
		}
		c.metrics.Replayed("http", resp.StatusCode != http.StatusUnauthorized)

		out, err := readResponse(resp)
		if out != nil {
			out.Replayed = true
		}
		return out, err
	}

	return readResponse(resp)
}

func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*envelope.Envelope, error) {
	return c.call(ctx, http.MethodGet, path, nil, opts)
}

func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*envelope.Envelope, error) {
	return c.call(ctx, http.MethodPost, path, body, opts)
}

func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*envelope.Envelope, error) {
	return c.call(ctx, http.MethodPut, path, body, opts)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*envelope.Envelope, error) {
	return c.call(ctx, http.MethodDelete, path, nil, opts)
}

func (c *Client) call(ctx context.Context, method, path string, body any, opts []RequestOption) (*envelope.Envelope, error) {
	r := &Request{Method: method, Path: path, Body: body}
	for _, opt := range opts {
		opt(r)
	}
	resp, err := c.Do(ctx, r)
	if err != nil {
		return nil, err
	}
	return resp.Envelope, nil
}

// send issues one attempt. With an empty token the Authenticator decides the
// credential; otherwise token is attached directly. It returns the token that
// was sent.
func (c *Client) send(ctx context.Context, r *Request, body []byte, token string) (*http.Response, string, error) {
	req, err := c.newRequest(ctx, r, body)
	if err != nil {
		return nil, "", err
	}

	used := token
	switch {
	case r.SkipAuth || token == "":
		used = c.auth.Apply(ctx, req, r.SkipAuth)
	default:
		setBearer(req, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, used, err
	}
	return resp, used, nil
}

func (c *Client) newRequest(ctx context.Context, r *Request, body []byte) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(r.Path, "/")
	if len(r.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + r.Query.Encode()
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, err
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func encodeBody(v any) ([]byte, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		return data, nil
	}
}

func readResponse(resp *http.Response) (*Response, error) {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierr.NetworkFailure(err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299
	env, perr := envelope.Parse(raw)
	if !ok {
		msg := http.StatusText(resp.StatusCode)
		if perr == nil && env.Text() != "" {
			msg = env.Text()
		}
		return nil, apierr.ServerError(resp.StatusCode, msg, raw)
	}
	if perr != nil {
		return nil, perr
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       raw,
		Envelope:   env,
	}, nil
}
