package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/cinepass/internal/flagx"
	"github.com/dmitrijs2005/cinepass/internal/timex"
)

// ConfigFileEnv names the config file when -c/-config is not given.
const ConfigFileEnv = "CINEPASS_CONFIG"

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations may
// be strings like "15s" or integer nanoseconds. Absent keys leave the
// current value untouched.
type JsonConfig struct {
	BaseURL             *string         `json:"base_url"`
	RefreshPath         *string         `json:"refresh_path"`
	GRPCAddr            *string         `json:"grpc_addr"`
	DataDir             *string         `json:"data_dir"`
	PlainStore          *string         `json:"plain_store"`
	RedisAddr           *string         `json:"redis_addr"`
	StoreKey            *string         `json:"store_key"`
	ServiceName         *string         `json:"service_name"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	RefreshTimeout      *timex.Duration `json:"refresh_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	LogLevel            *string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c/-config or
// CINEPASS_CONFIG. It panics on read or decode errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:], ConfigFileEnv)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.BaseURL, jc.BaseURL)
	setString(&cfg.RefreshPath, jc.RefreshPath)
	setString(&cfg.GRPCAddr, jc.GRPCAddr)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.PlainStore, jc.PlainStore)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.StoreKey, jc.StoreKey)
	setString(&cfg.ServiceName, jc.ServiceName)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RefreshTimeout != nil {
		cfg.RefreshTimeout = jc.RefreshTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
