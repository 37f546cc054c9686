package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/cinepass/internal/client/apierr"
	"github.com/dmitrijs2005/cinepass/internal/client/envelope"
	"github.com/dmitrijs2005/cinepass/internal/client/refresh"
	"github.com/dmitrijs2005/cinepass/internal/client/tokens"
	"github.com/dmitrijs2005/cinepass/internal/common"
)

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshData struct {
	Tokens *tokens.Pair `json:"tokens"`
}

// RefreshTransport calls the refresh endpoint. It never goes through the
// Authenticator or the coordinator, so a 401 from the refresh endpoint cannot
// start another refresh.
type RefreshTransport struct {
	url  string
	http *http.Client
}

var _ refresh.Refresher = (*RefreshTransport)(nil)

func NewRefreshTransport(baseURL, path string, hc *http.Client) *RefreshTransport {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &RefreshTransport{
		url:  strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/"),
		http: hc,
	}
}

// Refresh posts {"refreshToken": ...}. The envelope code decides success when
// present; the HTTP status decides otherwise.
func (t *RefreshTransport) Refresh(ctx context.Context, refreshToken string) (tokens.Pair, error) {
	body, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return tokens.Pair{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return tokens.Pair{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Del(common.AuthorizationHeader)

	resp, err := t.http.Do(req)
	if err != nil {
		return tokens.Pair{}, apierr.Classify(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return tokens.Pair{}, apierr.NetworkFailure(err)
	}

	env, perr := envelope.Parse(raw)
	if !refreshSucceeded(resp.StatusCode, env) {
		code := resp.StatusCode
		if env != nil && env.Code != nil {
			code = *env.Code
		}
		msg := "Refresh failed"
		if env.Text() != "" {
			msg = env.Text()
		}
		return tokens.Pair{}, apierr.ServerError(code, msg, raw)
	}
	if perr != nil {
		return tokens.Pair{}, perr
	}

	data, err := envelope.Unwrap[refreshData](env)
	if err != nil {
		return tokens.Pair{}, err
	}
	if data.Tokens == nil || data.Tokens.AccessToken == "" {
		return tokens.Pair{}, apierr.MalformedResponse("Refresh response has no access token", nil)
	}
	return *data.Tokens, nil
}

func refreshSucceeded(status int, env *envelope.Envelope) bool {
	if env != nil && env.Code != nil {
		return *env.Code == common.SuccessCode
	}
	return status == http.StatusOK
}
