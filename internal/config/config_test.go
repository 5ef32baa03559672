package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("KEEPALIVE_INTERVAL", "")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)

	require.Equal(t, StoreBackendMemory, cfg.StoreBackend)
	require.Equal(t, SessionBackendCookie, cfg.SessionBackend)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Equal(t, 5*time.Minute, cfg.KeepAliveInterval)
	require.Equal(t, slog.LevelDebug, cfg.LogLevel)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		return &Config{
			ServerPort:        "8080",
			StoreBackend:      StoreBackendMemory,
			SessionBackend:    SessionBackendCookie,
			SessionSecret:     "secret",
			SessionTTL:        24 * time.Hour,
			RedisRetention:    48 * time.Hour,
			RedisAddr:         "127.0.0.1:6379",
			KeepAliveInterval: 5 * time.Minute,
			DBMaxConns:        10,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "cookie backend needs secret", mutate: func(c *Config) { c.SessionSecret = "" }, wantErr: "SESSION_SECRET"},
		{name: "postgres needs url", mutate: func(c *Config) { c.StoreBackend = StoreBackendPostgres }, wantErr: "DATABASE_URL"},
		{name: "unknown store", mutate: func(c *Config) { c.StoreBackend = "sqlite" }, wantErr: "STORE_BACKEND"},
		{name: "unknown session backend", mutate: func(c *Config) { c.SessionBackend = "local" }, wantErr: "SESSION_BACKEND"},
		{name: "redis retention shorter than ttl", mutate: func(c *Config) {
			c.SessionBackend = SessionBackendRedis
			c.RedisRetention = time.Hour
		}, wantErr: "REDIS_SESSION_RETENTION"},
		{name: "memory sessions need no secret", mutate: func(c *Config) {
			c.SessionBackend = SessionBackendMemory
			c.SessionSecret = ""
		}},
		{name: "non-positive ttl", mutate: func(c *Config) { c.SessionTTL = 0 }, wantErr: "SESSION_TTL"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}
