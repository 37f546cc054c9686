package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/term"

	"github.com/dmitrijs2005/cinepass/internal/client/api"
	"github.com/dmitrijs2005/cinepass/internal/client/config"
	"github.com/dmitrijs2005/cinepass/internal/client/grpcauth"
	"github.com/dmitrijs2005/cinepass/internal/client/keystore"
	"github.com/dmitrijs2005/cinepass/internal/client/refresh"
	"github.com/dmitrijs2005/cinepass/internal/client/services"
	"github.com/dmitrijs2005/cinepass/internal/client/tokens"
	"github.com/dmitrijs2005/cinepass/internal/filex"
	"github.com/dmitrijs2005/cinepass/internal/logging"
	"github.com/dmitrijs2005/cinepass/internal/metrics"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	auth     services.AuthService
	profiles services.ProfileService
	catalog  services.CatalogService
	ping     func(ctx context.Context) error
	gatherer prometheus.Gatherer
	savedAt  func(ctx context.Context) (time.Time, bool, error)
	closers  []func() error

	mu       sync.Mutex
	mode     Mode
	userName string

	reader *bufio.Reader
	out    io.Writer
}

// NewApp builds the full client stack from c: the local sqlite database, the
// credential backends, the refresh coordinator, the HTTP and gRPC clients and
// the services on top of them.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	a := &App{config: c, log: log, reader: bufio.NewReader(os.Stdin), out: os.Stdout}

	db, err := keystore.InitDatabase(ctx, c.DatabasePath())
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}
	a.closers = append(a.closers, db.Close)

	var plain tokens.Backend
	switch c.PlainStore {
	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		a.closers = append(a.closers, rdb.Close)
		plain = keystore.NewRedis(rdb, keystore.DefaultRedisPrefix, c.StoreKey)
	default:
		sq := keystore.NewSQLite(db, c.StoreKey)
		a.savedAt = sq.UpdatedAt
		plain = sq
	}

	secure := keystore.NewSecureFile(dir, c.ServiceName, a.passphrase())

	reg := prometheus.NewRegistry()
	m := metrics.NewClient(reg)
	a.gatherer = reg

	store := tokens.NewStore(log, m, secure, plain)

	hc := &http.Client{Timeout: c.RequestTimeout}
	coordinator := refresh.NewCoordinator(store,
		api.NewRefreshTransport(c.BaseURL, c.RefreshPath, hc),
		log, m, refresh.WithTimeout(c.RefreshTimeout))

	client, err := api.NewClient(c.BaseURL, hc, api.NewAuthenticator(store, log), coordinator, log, m)
	if err != nil {
		a.Close()
		return nil, err
	}

	conn, err := grpcauth.Dial(c.GRPCAddr, grpcauth.New(store, coordinator, log, m))
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, conn.Close)
	a.ping = func(ctx context.Context) error { return grpcauth.Ping(ctx, conn, "") }

	a.auth = services.NewAuthService(client, store, log)
	a.profiles = services.NewProfileService(client)
	a.catalog = services.NewCatalogService(client)

	return a, nil
}

// passphrase comes from the environment or, on a terminal, from a prompt. An
// empty answer leaves the sealed file backend disabled.
func (a *App) passphrase() []byte {
	if a.config.Passphrase != "" {
		return []byte(a.config.Passphrase)
	}
	if !isTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	pw, err := getPassword(a.out, "Enter passphrase for the sealed credential file (empty to skip): ")
	if err != nil {
		return nil
	}
	return pw
}

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// Close releases the database, redis and gRPC connections in reverse order
// of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) setUserName(name string) {
	a.mu.Lock()
	a.userName = name
	a.mu.Unlock()
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.auth.Status(ctx) == services.StatusAuthenticated
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// StartOnlineStatusWatcher pings the gRPC endpoint every interval and flips
// the mode between online and offline. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 || a.ping == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.ping(pctx)
	cancel()

	if !reachable(err) {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}
