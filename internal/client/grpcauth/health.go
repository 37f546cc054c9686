package grpcauth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/cinepass/internal/client/apierr"
)

var ErrNotServing = errors.New("service not serving")

// Dial opens an insecure client connection to addr with the interceptor
// installed.
func Dial(addr string, i *Interceptor) (*grpc.ClientConn, error) {
	return grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(i.Unary),
	)
}

// Ping runs the authenticated health check of service ("" for the server as
// a whole).
func Ping(ctx context.Context, conn grpc.ClientConnInterface, service string) error {
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return MapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrNotServing, resp.GetStatus())
	}
	return nil
}

// MapError translates a gRPC status into the client error taxonomy.
func MapError(err error) error {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae
	}
	st, ok := status.FromError(err)
	if !ok {
		return apierr.Classify(err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return apierr.ServerError(401, st.Message(), nil)
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return apierr.NetworkFailure(err)
	default:
		return apierr.ServerError(500, st.Message(), nil)
	}
}
