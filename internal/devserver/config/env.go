package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "DEVSERVER"

// envConfig mirrors Config for envconfig. Unset variables keep the values of
// the earlier layers.
type envConfig struct {
	HTTPAddr                     string        `envconfig:"HTTP_ADDR"`
	GRPCAddr                     string        `envconfig:"GRPC_ADDR"`
	DatabaseDSN                  string        `envconfig:"DATABASE_DSN"`
	SecretKey                    string        `envconfig:"SECRET_KEY"`
	AccessTokenValidityDuration  time.Duration `envconfig:"ACCESS_TOKEN_TTL"`
	RefreshTokenValidityDuration time.Duration `envconfig:"REFRESH_TOKEN_TTL"`
	FixedOTP                     string        `envconfig:"FIXED_OTP"`
	LogLevel                     string        `envconfig:"LOG_LEVEL"`
}

// parseEnv overlays config with DEVSERVER_* variables and panics when one
// cannot be parsed.
func parseEnv(config *Config) {
	ec := envConfig{
		HTTPAddr:                     config.HTTPAddr,
		GRPCAddr:                     config.GRPCAddr,
		DatabaseDSN:                  config.DatabaseDSN,
		SecretKey:                    config.SecretKey,
		AccessTokenValidityDuration:  config.AccessTokenValidityDuration,
		RefreshTokenValidityDuration: config.RefreshTokenValidityDuration,
		FixedOTP:                     config.FixedOTP,
		LogLevel:                     config.LogLevel,
	}
	if err := envconfig.Process(envPrefix, &ec); err != nil {
		panic(err)
	}

	*config = Config(ec)
}
