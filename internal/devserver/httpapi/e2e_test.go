package httpapi_test

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cinepass/internal/client/api"
	"github.com/dmitrijs2005/cinepass/internal/client/apierr"
	"github.com/dmitrijs2005/cinepass/internal/client/keystore"
	"github.com/dmitrijs2005/cinepass/internal/client/refresh"
	"github.com/dmitrijs2005/cinepass/internal/client/services"
	"github.com/dmitrijs2005/cinepass/internal/client/tokens"
	"github.com/dmitrijs2005/cinepass/internal/devserver/auth"
	"github.com/dmitrijs2005/cinepass/internal/devserver/config"
	"github.com/dmitrijs2005/cinepass/internal/devserver/httpapi"
	"github.com/dmitrijs2005/cinepass/internal/devserver/repomanager"
	"github.com/dmitrijs2005/cinepass/internal/devserver/service"
	"github.com/dmitrijs2005/cinepass/internal/logging"
	"github.com/dmitrijs2005/cinepass/internal/metrics"
)

type stack struct {
	cfg       *config.Config
	serverReg *prometheus.Registry
	store     *tokens.Store
	auth      *services.Auth
	profiles  *services.Profiles
	catalog   *services.Catalog
	refresher *api.RefreshTransport
}

// newStack runs the devserver on httptest and wires the client the way the
// CLI does, with a miniredis-backed credential store.
func newStack(t *testing.T) *stack {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()

	serverReg := prometheus.NewRegistry()
	sm := metrics.NewServer(serverReg)
	repos := repomanager.NewMemoryRepositoryManager()
	log := logging.NewDiscard()
	a := service.NewAuthService(repos, cfg, log, sm)
	srv := httptest.NewServer(httpapi.NewServer(a, service.NewProfileService(repos), service.NewSeededCatalogService(time.Now()), log, sm, serverReg))
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cm := metrics.NewClient(prometheus.NewRegistry())
	store := tokens.NewStore(log, cm, keystore.NewRedis(rdb, keystore.DefaultRedisPrefix, "@app:authTokens"))

	baseURL := srv.URL + "/api"
	rt := api.NewRefreshTransport(baseURL, services.PathRefresh, srv.Client())
	coord := refresh.NewCoordinator(store, rt, log, cm)
	client, err := api.NewClient(baseURL, srv.Client(), api.NewAuthenticator(store, log), coord, log, cm)
	require.NoError(t, err)

	return &stack{
		cfg:       cfg,
		serverReg: serverReg,
		store:     store,
		auth:      services.NewAuthService(client, store, log),
		profiles:  services.NewProfileService(client),
		catalog:   services.NewCatalogService(client),
		refresher: rt,
	}
}

func (s *stack) signIn(t *testing.T) *services.User {
	t.Helper()
	ctx := context.Background()
	msg, err := s.auth.Register(ctx, "asha@example.org")
	require.NoError(t, err)
	assert.Equal(t, "OTP sent successfully", msg)

	u, err := s.auth.VerifyOTP(ctx, "asha@example.org", s.cfg.FixedOTP)
	require.NoError(t, err)
	return u
}

// expireAccessToken swaps the stored access token for an expired one while
// keeping the valid refresh token.
func (s *stack) expireAccessToken(t *testing.T, userID string) string {
	t.Helper()
	ctx := context.Background()
	expired, err := auth.GenerateToken(userID, []byte(s.cfg.SecretKey), -time.Minute)
	require.NoError(t, err)
	rt, ok := s.store.RefreshToken(ctx)
	require.True(t, ok)
	s.store.SetTokens(ctx, expired, rt)
	return rt
}

func (s *stack) refreshesIssued(t *testing.T) float64 {
	t.Helper()
	mfs, err := s.serverReg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != "cinepass_devserver_tokens_issued_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "grant" && l.GetValue() == "refresh" {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestE2E_SignInAndBrowse(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.signIn(t)
	assert.Equal(t, services.StatusAuthenticated, s.auth.Status(ctx))

	require.NoError(t, s.profiles.Save(ctx, services.Profile{FirstName: "Asha"}))
	p, err := s.profiles.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Asha", p.FirstName)

	page, err := s.catalog.Movies(ctx, 1, 4, "")
	require.NoError(t, err)
	assert.Len(t, page.Movies, 4)
	assert.Equal(t, 11, page.Pagination.Total)

	m, err := s.catalog.Movie(ctx, "m-003")
	require.NoError(t, err)
	assert.Equal(t, "Kites Over Jaipur", m.MovieName)

	_, err = s.catalog.Movie(ctx, "missing")
	assert.Equal(t, "Not found", apierr.Message(err, ""))
}

func TestE2E_ExpiredAccessTokenIsRefreshedTransparently(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	u := s.signIn(t)
	oldRefresh := s.expireAccessToken(t, u.ID)

	contests, err := s.catalog.Contests(ctx)
	require.NoError(t, err)
	assert.Len(t, contests, 3)

	newRefresh, ok := s.store.RefreshToken(ctx)
	require.True(t, ok)
	assert.NotEqual(t, oldRefresh, newRefresh, "refresh token rotated")
	assert.Equal(t, float64(1), s.refreshesIssued(t))
}

func TestE2E_ConcurrentExpiredRequestsShareOneRefresh(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	u := s.signIn(t)
	s.expireAccessToken(t, u.ID)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.profiles.Get(ctx)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "request %d", i)
	}
	assert.Equal(t, float64(1), s.refreshesIssued(t))
}

func TestE2E_RevokedRefreshTokenSignsOut(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	u := s.signIn(t)
	s.expireAccessToken(t, u.ID)
	// a stale refresh token the server no longer knows
	access, _ := s.store.AccessToken(ctx)
	s.store.SetTokens(ctx, access, "revoked")

	_, err := s.profiles.Get(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, apierr.ErrAuthenticationExpired)
	assert.Equal(t, services.StatusUnauthenticated, s.auth.Status(ctx))
	assert.Nil(t, s.store.Get(ctx))
}

func TestE2E_SignOut(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.signIn(t)
	rt, ok := s.store.RefreshToken(ctx)
	require.True(t, ok)

	require.NoError(t, s.auth.SignOut(ctx))
	assert.Equal(t, services.StatusUnauthenticated, s.auth.Status(ctx))

	_, err := s.refresher.Refresh(ctx, rt)
	require.Error(t, err)
	assert.Equal(t, "Invalid refresh token", apierr.Message(err, ""))
}
