package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/cinepass/internal/client/apierr"
	"github.com/dmitrijs2005/cinepass/internal/metrics"
)

var errNoGRPC = errors.New("gRPC endpoint is not configured")

// Ping runs the authenticated gRPC health check once and updates the mode.
func (a *App) Ping(ctx context.Context) error {
	if a.ping == nil {
		return errNoGRPC
	}
	err := a.ping(ctx)
	if !reachable(err) {
		a.setMode(ctx, ModeOffline)
		return err
	}
	a.setMode(ctx, ModeOnline)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Server is serving")
	return nil
}

// reachable reports whether the health check got an answer from the server.
// A signed out client's ping is rejected as unauthenticated, which still
// means the server is up.
func reachable(err error) bool {
	if err == nil || apierr.IsAuthenticationExpired(err) {
		return true
	}
	var ae *apierr.Error
	return errors.As(err, &ae) && ae.Kind == apierr.KindServerError && ae.Code == http.StatusUnauthorized
}

// Stats prints when the plain credential record last changed, followed by
// the client-side counters.
func (a *App) Stats(ctx context.Context) error {
	if a.savedAt != nil {
		at, ok, err := a.savedAt(ctx)
		if err != nil {
			return err
		}
		if ok && !at.IsZero() {
			fmt.Fprintf(a.out, "Credentials last saved: %s\n", at.Local().Format(time.RFC3339))
		}
	}
	if a.gatherer == nil {
		return nil
	}
	lines, err := metrics.Dump(a.gatherer)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintln(a.out, "No activity yet")
	}
	for _, l := range lines {
		fmt.Fprintln(a.out, l)
	}
	return nil
}
