// Package refresh coordinates access token renewal across concurrent
// requests.
//
// A request that fails authentication calls Recover. The first caller while
// the coordinator is idle becomes the owner and performs the refresh; callers
// arriving while it runs wait for the owner's outcome. All callers of one
// cycle receive the same token or the same error.
package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/cinepass/internal/client/apierr"
	"github.com/dmitrijs2005/cinepass/internal/client/tokens"
	"github.com/dmitrijs2005/cinepass/internal/logging"
	"github.com/dmitrijs2005/cinepass/internal/metrics"
)

const DefaultTimeout = 15 * time.Second

// Store is the part of the credential store the coordinator needs.
type Store interface {
	AccessToken(ctx context.Context) (string, bool)
	RefreshToken(ctx context.Context) (string, bool)
	SetTokens(ctx context.Context, accessToken, refreshToken string)
	ClearTokens(ctx context.Context)
}

// Refresher exchanges a refresh token for a new pair. An empty RefreshToken
// in the result means the server did not rotate it.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (tokens.Pair, error)
}

type RefresherFunc func(ctx context.Context, refreshToken string) (tokens.Pair, error)

func (f RefresherFunc) Refresh(ctx context.Context, refreshToken string) (tokens.Pair, error) {
	return f(ctx, refreshToken)
}

type outcome struct {
	token string
	err   error
}

type Coordinator struct {
	store     Store
	refresher Refresher
	log       logging.Logger
	metrics   *metrics.Client
	timeout   time.Duration

	mu       sync.Mutex
	inFlight bool
	cycles   uint64
	waiters  []chan outcome
}

type Option func(*Coordinator)

// WithTimeout bounds a single refresh call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.timeout = d
	}
}

func NewCoordinator(store Store, refresher Refresher, log logging.Logger, m *metrics.Client, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:     store,
		refresher: refresher,
		log:       log,
		metrics:   m,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Recover returns a fresh access token for a request that was rejected while
// carrying stale. If the store already holds a different token (another
// cycle completed after stale was read), that token is returned without a
// refresh. With no credentials at all it returns an authentication expired
// error without starting a cycle. A failed refresh clears the credentials and
// returns an error matching apierr.ErrAuthenticationExpired.
func (c *Coordinator) Recover(ctx context.Context, stale string) (string, error) {
	for {
		c.mu.Lock()
		if c.inFlight {
			return c.wait(ctx)
		}
		seen := c.cycles
		c.mu.Unlock()

		// the store may hit a backend; keep it outside the lock
		current, hasAccess := c.store.AccessToken(ctx)
		_, hasRefresh := c.store.RefreshToken(ctx)

		c.mu.Lock()
		if c.inFlight {
			return c.wait(ctx)
		}
		if c.cycles != seen {
			// a cycle settled while the store was read
			c.mu.Unlock()
			continue
		}
		switch {
		case hasAccess && current != stale:
			c.mu.Unlock()
			return current, nil
		case !hasAccess && !hasRefresh:
			c.mu.Unlock()
			return "", apierr.AuthenticationExpired(apierr.Application("Not signed in", nil))
		}
		c.inFlight = true
		c.mu.Unlock()

		return c.own(ctx)
	}
}

// wait queues the caller behind the running cycle. c.mu must be held; wait
// releases it.
func (c *Coordinator) wait(ctx context.Context) (string, error) {
	ch := make(chan outcome, 1)
	c.waiters = append(c.waiters, ch)
	c.mu.Unlock()
	c.metrics.WaiterQueued()

	select {
	case o := <-ch:
		return o.token, o.err
	case <-ctx.Done():
		return "", apierr.NetworkFailure(ctx.Err())
	}
}

func (c *Coordinator) own(ctx context.Context) (token string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apierr.AuthenticationExpired(fmt.Errorf("refresh panicked: %v", r))
			c.settle(ctx, "", err)
			panic(r)
		}
		c.settle(ctx, token, err)
	}()

	return c.refresh(ctx)
}

func (c *Coordinator) refresh(ctx context.Context) (string, error) {
	refreshToken, ok := c.store.RefreshToken(ctx)
	if !ok {
		return "", apierr.AuthenticationExpired(apierr.Application("No refresh token available", nil))
	}

	rctx := context.WithoutCancel(ctx)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(rctx, c.timeout)
		defer cancel()
	}

	pair, err := c.refresher.Refresh(rctx, refreshToken)
	if err != nil {
		return "", apierr.AuthenticationExpired(err)
	}
	if pair.AccessToken == "" {
		return "", apierr.AuthenticationExpired(apierr.MalformedResponse("Refresh response has no access token", nil))
	}
	if pair.RefreshToken == "" {
		pair.RefreshToken = refreshToken
	}

	c.store.SetTokens(ctx, pair.AccessToken, pair.RefreshToken)
	return pair.AccessToken, nil
}

// settle publishes the outcome of the owner's cycle. On failure the
// credentials are cleared before any waiter is released. The queue is taken
// and the coordinator returns to idle under one lock, so a caller arriving
// later starts a new cycle instead of joining a drained queue.
func (c *Coordinator) settle(ctx context.Context, token string, err error) {
	if err != nil {
		c.store.ClearTokens(context.WithoutCancel(ctx))
		c.metrics.RefreshFinished(metrics.OutcomeFailure)
		c.log.Warn(ctx, "token refresh failed, credentials cleared", "error", err)
	} else {
		c.metrics.RefreshFinished(metrics.OutcomeSuccess)
	}

	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.inFlight = false
	c.cycles++
	c.mu.Unlock()

	for _, ch := range waiters {
		ch <- outcome{token: token, err: err}
	}
	if len(waiters) > 0 {
		c.log.Debug(ctx, "refresh outcome delivered to waiters", "waiters", len(waiters), "ok", err == nil)
	}
}
