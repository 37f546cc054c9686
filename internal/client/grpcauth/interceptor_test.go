package grpcauth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/cinepass/internal/client/apierr"
	"github.com/dmitrijs2005/cinepass/internal/logging"
)

type fakeTokens struct{ token string }

func (f fakeTokens) AccessToken(ctx context.Context) (string, bool) { return f.token, f.token != "" }

type fakeRecoverer struct {
	token string
	err   error
	stale []string
}

func (f *fakeRecoverer) Recover(ctx context.Context, stale string) (string, error) {
	f.stale = append(f.stale, stale)
	return f.token, f.err
}

func authOf(t *testing.T, ctx context.Context) []string {
	t.Helper()
	md, _ := metadata.FromOutgoingContext(ctx)
	return md.Get("authorization")
}

func TestInterceptor_RefreshesOnUnauthenticatedAndRetries(t *testing.T) {
	rec := &fakeRecoverer{token: "A2"}
	i := New(fakeTokens{token: "A1"}, rec, logging.NewDiscard(), nil)

	callCount := 0
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		callCount++
		toks := authOf(t, ctx)
		require.Len(t, toks, 1)

		if callCount == 1 {
			require.Equal(t, "Bearer A1", toks[0])
			return status.Error(codes.Unauthenticated, "token expired")
		}
		require.Equal(t, "Bearer A2", toks[0])
		return nil
	}

	err := i.Unary(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.NoError(t, err)
	require.Equal(t, 2, callCount)
	require.Equal(t, []string{"A1"}, rec.stale)
}

func TestInterceptor_SecondUnauthenticatedIsFinal(t *testing.T) {
	rec := &fakeRecoverer{token: "A2"}
	i := New(fakeTokens{token: "A1"}, rec, logging.NewDiscard(), nil)

	callCount := 0
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		callCount++
		return status.Error(codes.Unauthenticated, "nope")
	}

	err := i.Unary(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.Equal(t, codes.Unauthenticated, status.Code(err))
	require.Equal(t, 2, callCount)
	require.Len(t, rec.stale, 1)
}

func TestInterceptor_RefreshFailureIsReturned(t *testing.T) {
	rec := &fakeRecoverer{err: apierr.AuthenticationExpired(errors.New("expired"))}
	i := New(fakeTokens{token: "A1"}, rec, logging.NewDiscard(), nil)

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, "expired")
	}

	err := i.Unary(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.True(t, apierr.IsAuthenticationExpired(err))
}

func TestInterceptor_IgnoresOtherErrors(t *testing.T) {
	rec := &fakeRecoverer{token: "A2"}
	i := New(fakeTokens{token: "X"}, rec, logging.NewDiscard(), nil)
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Internal, "boom")
	}
	err := i.Unary(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.Error(t, err)
	require.Empty(t, rec.stale)
}

func TestInterceptor_PublicMethodSendsNoCredential(t *testing.T) {
	rec := &fakeRecoverer{token: "A2"}
	i := New(fakeTokens{token: "A1"}, rec, logging.NewDiscard(), nil, "/svc/Public")

	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer leaked")
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		require.Empty(t, authOf(t, ctx))
		return status.Error(codes.Unauthenticated, "login first")
	}

	err := i.Unary(ctx, "/svc/Public", nil, nil, nil, invoker)
	require.Equal(t, codes.Unauthenticated, status.Code(err))
	require.Empty(t, rec.stale)
}

func TestMapError(t *testing.T) {
	require.ErrorIs(t, MapError(status.Error(codes.Unauthenticated, "x")), apierr.ErrServerError)
	require.ErrorIs(t, MapError(status.Error(codes.Unavailable, "x")), apierr.ErrNetworkFailure)
	require.ErrorIs(t, MapError(status.Error(codes.Internal, "x")), apierr.ErrServerError)

	expired := apierr.AuthenticationExpired(nil)
	require.Same(t, expired, MapError(expired))
	require.ErrorIs(t, MapError(errors.New("plain")), apierr.ErrApplication)
}
