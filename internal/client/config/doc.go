// Package config loads runtime configuration for the cinepass CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected with -c / -config or
//     CINEPASS_CONFIG.
//  3. CINEPASS_* environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags).
//
// # JSON schema
//
//	{
//	  "base_url": "http://127.0.0.1:8080/api",
//	  "refresh_path": "/users/auth/refresh",
//	  "grpc_addr": "127.0.0.1:50051",
//	  "data_dir": "/home/me/.config/cinepass",
//	  "plain_store": "sqlite",
//	  "redis_addr": "127.0.0.1:6379",
//	  "store_key": "@app:authTokens",
//	  "service_name": "authTokens",
//	  "request_timeout": "30s",
//	  "refresh_timeout": "15s",
//	  "online_check_interval": "30s",
//	  "log_level": "warn"
//	}
//
// The passphrase of the sealed credential file is never read from JSON or
// flags; set CINEPASS_PASSPHRASE or enter it at the prompt.
package config
