// Package grpcauth binds the credential store and the refresh coordinator to
// gRPC: a unary client interceptor that sends the bearer token as metadata and
// renews it once on codes.Unauthenticated.
package grpcauth

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/cinepass/internal/common"
	"github.com/dmitrijs2005/cinepass/internal/logging"
	"github.com/dmitrijs2005/cinepass/internal/metrics"
)

type TokenSource interface {
	AccessToken(ctx context.Context) (string, bool)
}

type Recoverer interface {
	Recover(ctx context.Context, stale string) (string, error)
}

type Interceptor struct {
	tokens    TokenSource
	recoverer Recoverer
	public    map[string]struct{}
	log       logging.Logger
	metrics   *metrics.Client
}

// New builds an interceptor. Calls to publicMethods (full method names, e.g.
// "/grpc.health.v1.Health/Check") are sent without a credential.
func New(tokens TokenSource, rec Recoverer, log logging.Logger, m *metrics.Client, publicMethods ...string) *Interceptor {
	public := make(map[string]struct{}, len(publicMethods))
	for _, name := range publicMethods {
		public[name] = struct{}{}
	}
	return &Interceptor{tokens: tokens, recoverer: rec, public: public, log: log, metrics: m}
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AuthorizationMetadataKey)
	if token != "" {
		md.Set(common.AuthorizationMetadataKey, common.BearerScheme+" "+token)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

func (i *Interceptor) Unary(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if _, ok := i.public[method]; ok {
		return invoker(withAccessToken(ctx, ""), method, req, reply, cc, opts...)
	}

	token, _ := i.tokens.AccessToken(ctx)
	err := invoker(withAccessToken(ctx, token), method, req, reply, cc, opts...)
	if err == nil || i.recoverer == nil || status.Code(err) != codes.Unauthenticated {
		return err
	}

	fresh, rerr := i.recoverer.Recover(ctx, token)
	if rerr != nil {
		return rerr
	}

	i.log.Debug(ctx, "replaying rpc with renewed token", "method", method)
	err = invoker(withAccessToken(ctx, fresh), method, req, reply, cc, opts...)
	i.metrics.Replayed("grpc", status.Code(err) != codes.Unauthenticated)
	return err
}
