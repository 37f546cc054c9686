package api

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/dmitrijs2005/cinepass/internal/common"
	"github.com/dmitrijs2005/cinepass/internal/logging"
)

// TokenSource yields the current access token.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, bool)
}

// Authenticator attaches the bearer credential to outgoing requests.
type Authenticator struct {
	tokens TokenSource
	log    logging.Logger
}

func NewAuthenticator(tokens TokenSource, log logging.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, log: log}
}

// Apply sets the Authorization header from the token source and returns the
// token it attached. With skipAuth the header is removed instead. A failing
// token source leaves the request without a credential.
func (a *Authenticator) Apply(ctx context.Context, req *http.Request, skipAuth bool) string {
	if skipAuth {
		req.Header.Del(common.AuthorizationHeader)
		return ""
	}

	token, ok := a.token(ctx)
	if !ok {
		return ""
	}
	setBearer(req, token)
	return token
}

func (a *Authenticator) token(ctx context.Context) (token string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Warn(ctx, "auth token lookup panicked, sending without credential", "panic", r)
			token, ok = "", false
		}
	}()
	return a.tokens.AccessToken(ctx)
}

func setBearer(req *http.Request, token string) {
	(&oauth2.Token{AccessToken: token, TokenType: common.BearerScheme}).SetAuthHeader(req)
}
