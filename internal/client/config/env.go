package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "CINEPASS"

// envConfig mirrors Config for envconfig. Fields carry no defaults, so unset
// variables keep the values of the earlier layers.
type envConfig struct {
	BaseURL             string        `envconfig:"BASE_URL"`
	RefreshPath         string        `envconfig:"REFRESH_PATH"`
	GRPCAddr            string        `envconfig:"GRPC_ADDR"`
	DataDir             string        `envconfig:"DATA_DIR"`
	PlainStore          string        `envconfig:"PLAIN_STORE"`
	RedisAddr           string        `envconfig:"REDIS_ADDR"`
	StoreKey            string        `envconfig:"STORE_KEY"`
	ServiceName         string        `envconfig:"SERVICE_NAME"`
	RequestTimeout      time.Duration `envconfig:"REQUEST_TIMEOUT"`
	RefreshTimeout      time.Duration `envconfig:"REFRESH_TIMEOUT"`
	OnlineCheckInterval time.Duration `envconfig:"ONLINE_CHECK_INTERVAL"`
	LogLevel            string        `envconfig:"LOG_LEVEL"`
	Passphrase          string        `envconfig:"PASSPHRASE"`
}

// parseEnv overlays cfg with CINEPASS_* variables. It panics when a variable
// cannot be parsed.
func parseEnv(cfg *Config) {
	ec := envConfig{
		BaseURL:             cfg.BaseURL,
		RefreshPath:         cfg.RefreshPath,
		GRPCAddr:            cfg.GRPCAddr,
		DataDir:             cfg.DataDir,
		PlainStore:          cfg.PlainStore,
		RedisAddr:           cfg.RedisAddr,
		StoreKey:            cfg.StoreKey,
		ServiceName:         cfg.ServiceName,
		RequestTimeout:      cfg.RequestTimeout,
		RefreshTimeout:      cfg.RefreshTimeout,
		OnlineCheckInterval: cfg.OnlineCheckInterval,
		LogLevel:            cfg.LogLevel,
		Passphrase:          cfg.Passphrase,
	}
	if err := envconfig.Process(envPrefix, &ec); err != nil {
		panic(err)
	}

	cfg.BaseURL = ec.BaseURL
	cfg.RefreshPath = ec.RefreshPath
	cfg.GRPCAddr = ec.GRPCAddr
	cfg.DataDir = ec.DataDir
	cfg.PlainStore = ec.PlainStore
	cfg.RedisAddr = ec.RedisAddr
	cfg.StoreKey = ec.StoreKey
	cfg.ServiceName = ec.ServiceName
	cfg.RequestTimeout = ec.RequestTimeout
	cfg.RefreshTimeout = ec.RefreshTimeout
	cfg.OnlineCheckInterval = ec.OnlineCheckInterval
	cfg.LogLevel = ec.LogLevel
	cfg.Passphrase = ec.Passphrase
}
