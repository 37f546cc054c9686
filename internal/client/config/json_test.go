package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"base_url":        "http://www.example:9000/api",
		"refresh_timeout": "10s",
	})
	pathEnv := writeTempJSON(t, dir, "env.json", map[string]any{
		"grpc_addr": "env.example:50051",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{GRPCAddr: "keep:1"}
		parseJson(cfg)

		assert.Equal(t, "http://www.example:9000/api", cfg.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.RefreshTimeout)
		assert.Equal(t, "keep:1", cfg.GRPCAddr, "absent keys keep their value")
	})

	t.Run("falls back to CINEPASS_CONFIG", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv(ConfigFileEnv, pathEnv)

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "env.example:50051", cfg.GRPCAddr)
	})

	t.Run("no file → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv(ConfigFileEnv, "")

		cfg := &Config{BaseURL: "defaults", RequestTimeout: 42 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "defaults", cfg.BaseURL)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
