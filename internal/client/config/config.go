package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Plain credential backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config holds runtime settings for the cinepass CLI.
//
// Units: RequestTimeout, RefreshTimeout and OnlineCheckInterval are time.Duration values.
// Passphrase is only ever read from the environment.
type Config struct {
	BaseURL             string
	RefreshPath         string
	GRPCAddr            string
	DataDir             string
	PlainStore          string
	RedisAddr           string
	StoreKey            string
	ServiceName         string
	RequestTimeout      time.Duration
	RefreshTimeout      time.Duration
	OnlineCheckInterval time.Duration
	LogLevel            string
	Passphrase          string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8080/api"
	c.RefreshPath = "/users/auth/refresh"
	c.GRPCAddr = "127.0.0.1:50051"
	c.DataDir = defaultDataDir()
	c.PlainStore = StoreSQLite
	c.RedisAddr = "127.0.0.1:6379"
	c.StoreKey = "@app:authTokens"
	c.ServiceName = "authTokens"
	c.RequestTimeout = 30 * time.Second
	c.RefreshTimeout = 15 * time.Second
	c.OnlineCheckInterval = 30 * time.Second
	c.LogLevel = "warn"
}

// Validate reports settings the client cannot start with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base url %q must be an absolute http(s) url", c.BaseURL)
	}
	switch c.PlainStore {
	case StoreSQLite, StoreRedis:
	default:
		return fmt.Errorf("unknown plain store %q (want %s or %s)", c.PlainStore, StoreSQLite, StoreRedis)
	}
	if c.StoreKey == "" || c.ServiceName == "" {
		return fmt.Errorf("store key and service name must be set")
	}
	return nil
}

// DatabasePath is the sqlite file inside DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "cinepass.db")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "cinepass")
	}
	return ".cinepass"
}
